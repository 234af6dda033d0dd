package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/app/scoring"
	"github.com/memorylane/dailyquestion/pkg/domain"
	domainAnswer "github.com/memorylane/dailyquestion/pkg/domain/answer"
	"github.com/memorylane/dailyquestion/pkg/domain/events"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/memorylane/dailyquestion/pkg/infra/services/users"
	"github.com/memorylane/dailyquestion/pkg/infra/services/voice"
	"github.com/memorylane/dailyquestion/pkg/infra/storage"
	"github.com/memorylane/dailyquestion/pkg/infra/transcription"
	"github.com/memorylane/dailyquestion/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrAudioUpload = errors.New("audio upload failed")

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=answer_service_mock.go --case=underscore --with-expecter
type Service interface {
	SubmitVoiceAnswer(ctx context.Context, req *request.VoiceAnswerRequest) (*domainAnswer.Answer, error)
	SubmitTextAnswer(ctx context.Context, req *request.TextAnswerRequest) (*domainAnswer.Answer, error)
	Get(ctx context.Context, id uuid.UUID) (*domainAnswer.Answer, error)
	ListByUser(ctx context.Context, userID int64, filter domainAnswer.ListFilter) ([]domainAnswer.Answer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	logger      *logrus.Logger
	repo        domainAnswer.Repository
	questions   domainQuestion.Repository
	users       users.Client
	audio       storage.AudioStore
	transcriber transcription.Transcriber
	analyzer    voice.Analyzer
	scorer      scoring.Scorer
	publisher   events.Publisher
}

func NewService(
	logger *logrus.Logger,
	repo domainAnswer.Repository,
	questions domainQuestion.Repository,
	usersClient users.Client,
	audio storage.AudioStore,
	transcriber transcription.Transcriber,
	analyzer voice.Analyzer,
	scorer scoring.Scorer,
	publisher events.Publisher,
) Service {
	return &service{
		logger:      logger,
		repo:        repo,
		questions:   questions,
		users:       usersClient,
		audio:       audio,
		transcriber: transcriber,
		analyzer:    analyzer,
		scorer:      scorer,
		publisher:   publisher,
	}
}

func (s *service) SubmitVoiceAnswer(ctx context.Context, req *request.VoiceAnswerRequest) (*domainAnswer.Answer, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError("request", err.Error())
	}
	q, err := s.checkParticipants(ctx, req.UserID, req.QuestionID)
	if err != nil {
		return nil, err
	}

	obj, err := s.audio.PutAudio(ctx, req.UserID, req.Filename, req.ContentType, req.Audio)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", req.UserID).Error("failed to store answer audio")
		return nil, fmt.Errorf("%w: %v", ErrAudioUpload, err)
	}

	a := &domainAnswer.Answer{
		QuestionID:   req.QuestionID,
		UserID:       req.UserID,
		AudioFileURL: obj.URL,
		ClientDevice: utils.ClientDevice(req.UserAgent),
	}

	transcript, err := s.transcriber.Transcribe(ctx, req.Audio, req.Filename, req.ContentType)
	switch {
	case err != nil:
		s.logger.WithError(err).WithField("audio_key", obj.Key).Warn("transcription failed, storing answer without text")
	case strings.TrimSpace(transcript) != "":
		a.TextContent = &transcript
	}

	s.analyze(ctx, a, q, true)

	if err := s.repo.Create(ctx, a); err != nil {
		if delErr := s.audio.DeleteAudio(ctx, obj.URL); delErr != nil {
			s.logger.WithError(delErr).WithField("audio_key", obj.Key).Warn("failed to remove orphaned audio")
		}
		return nil, err
	}
	s.publish(ctx, a)
	return a, nil
}

func (s *service) SubmitTextAnswer(ctx context.Context, req *request.TextAnswerRequest) (*domainAnswer.Answer, error) {
	if err := req.Validate(); err != nil {
		return nil, domain.NewValidationError("request", err.Error())
	}
	questionID := uuid.MustParse(req.QuestionID)
	q, err := s.checkParticipants(ctx, req.UserID, questionID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	a := &domainAnswer.Answer{
		QuestionID:   questionID,
		UserID:       req.UserID,
		TextContent:  &text,
		ClientDevice: utils.ClientDevice(req.UserAgent),
	}

	s.analyze(ctx, a, q, false)

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.publish(ctx, a)
	return a, nil
}

func (s *service) checkParticipants(ctx context.Context, userID int64, questionID uuid.UUID) (*domainQuestion.Question, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.questions.Get(ctx, questionID)
}

// analyze runs cognitive analysis (voice answers only) and semantic scoring
// side by side. Neither can fail the submission.
func (s *service) analyze(ctx context.Context, a *domainAnswer.Answer, q *domainQuestion.Question, isVoice bool) {
	log := s.logger.WithFields(logrus.Fields{
		"user_id":     a.UserID,
		"question_id": a.QuestionID,
	})

	var g errgroup.Group
	if isVoice && s.analyzer != nil {
		g.Go(func() error {
			req := voice.Request{
				UserID:     a.UserID,
				QuestionID: a.QuestionID.String(),
				AudioURL:   a.AudioFileURL,
			}
			if a.TextContent != nil {
				req.Transcript = *a.TextContent
			}
			res, err := s.analyzer.Analyze(ctx, req)
			if err != nil {
				log.WithError(err).Warn("voice analysis unavailable")
				return nil
			}
			score := res.CognitiveScore
			a.CognitiveScore = &score
			a.AnalysisDetails = domain.DetailsJSON(res.Details)
			return nil
		})
	}
	g.Go(func() error {
		var text string
		if a.TextContent != nil {
			text = *a.TextContent
		}
		res := s.scorer.ScoreAnswer(ctx, scoring.Question{
			Content:   q.Content,
			Exemplars: q.Exemplars(),
		}, text)
		applyScore(a, res)
		return nil
	})
	_ = g.Wait()

	log.WithFields(logrus.Fields{
		"scoring_status":  a.ScoringStatus,
		"unscored_reason": a.UnscoredReason,
		"has_cognitive":   a.CognitiveScore != nil,
	}).Debug("answer analysed")
}

func applyScore(a *domainAnswer.Answer, res scoring.Result) {
	if res.IsScored() {
		a.ScoringStatus = domainAnswer.StatusScored
		a.SemanticScore = res.Score()
		a.UnscoredReason = ""
		return
	}
	a.ScoringStatus = domainAnswer.StatusUnscored
	a.SemanticScore = nil
	a.UnscoredReason = res.Reason
}

func (s *service) publish(ctx context.Context, a *domainAnswer.Answer) {
	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	evt := events.ScoreUpdateEvent{
		UserID:         a.UserID,
		AnswerID:       a.ID,
		QuestionID:     a.QuestionID,
		CognitiveScore: a.CognitiveScore,
		SemanticScore:  a.SemanticScore,
		ScoringStatus:  a.ScoringStatus,
		Timestamp:      ts,
	}
	if err := s.publisher.PublishScoreUpdate(ctx, evt); err != nil {
		s.logger.WithError(err).WithField("answer_id", a.ID).Warn("failed to enqueue score update")
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domainAnswer.Answer, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) ListByUser(
	ctx context.Context,
	userID int64,
	filter domainAnswer.ListFilter,
) ([]domainAnswer.Answer, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("user_id", "must be positive")
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domain.NewValidationError("start_date", "must not be after end_date")
	}
	return s.repo.ListByUser(ctx, userID, filter)
}

// Delete removes the answer row first; a leftover audio object is only logged.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if a.AudioFileURL != "" && s.audio != nil {
		if err := s.audio.DeleteAudio(ctx, a.AudioFileURL); err != nil {
			s.logger.WithError(err).WithField("answer_id", id).Warn("failed to delete answer audio")
		}
	}
	return nil
}
