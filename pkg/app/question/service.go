package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/sirupsen/logrus"
)

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=question_service_mock.go --case=underscore --with-expecter
type Service interface {
	Create(ctx context.Context, req *request.CreateQuestionRequest) (*domainQuestion.Question, error)
	Get(ctx context.Context, id uuid.UUID) (*domainQuestion.Question, error)
	List(ctx context.Context, skip, limit int) ([]domainQuestion.Question, error)
	Update(ctx context.Context, id uuid.UUID, req *request.UpdateQuestionRequest) (*domainQuestion.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	logger *logrus.Logger
	repo   domainQuestion.Repository
}

func NewService(logger *logrus.Logger, repo domainQuestion.Repository) Service {
	return &service{logger: logger, repo: repo}
}

func (s *service) Create(ctx context.Context, req *request.CreateQuestionRequest) (*domainQuestion.Question, error) {
	q := &domainQuestion.Question{
		Content:         req.Content,
		ExpectedAnswers: req.ExpectedAnswers,
		Source:          req.Source,
	}
	if q.Source == "" {
		q.Source = domainQuestion.SourceManual
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, q); err != nil {
		s.logger.WithError(err).Error("failed to create question")
		return nil, err
	}
	s.logger.WithField("question_id", q.ID).Info("question created")
	return q, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domainQuestion.Question, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, skip, limit int) ([]domainQuestion.Question, error) {
	if skip < 0 {
		return nil, fmt.Errorf("skip must not be negative")
	}
	if limit <= 0 || limit > domainQuestion.MaxListLimit {
		limit = domainQuestion.MaxListLimit
	}
	return s.repo.List(ctx, skip, limit)
}

func (s *service) Update(
	ctx context.Context,
	id uuid.UUID,
	req *request.UpdateQuestionRequest,
) (*domainQuestion.Question, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Content != nil {
		q.Content = *req.Content
	}
	if req.ExpectedAnswers != nil {
		q.ExpectedAnswers = *req.ExpectedAnswers
	}
	if err := s.repo.Update(ctx, q); err != nil {
		s.logger.WithError(err).WithField("question_id", id).Error("failed to update question")
		return nil, err
	}
	return q, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("question_id", id).Info("question deleted")
	return nil
}
