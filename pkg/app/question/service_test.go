package question

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/memorylane/dailyquestion/pkg/domain"
	domainQuestion "github.com/memorylane/dailyquestion/pkg/domain/question"
	questionMocks "github.com/memorylane/dailyquestion/pkg/domain/question/mocks"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_CreateDefaultsToManual(t *testing.T) {
	repo := questionMocks.NewRepository(t)
	svc := NewService(logger.NewNopLogger(), repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(q *domainQuestion.Question) bool {
		return q.Source == domainQuestion.SourceManual && q.Content == "가장 좋아하는 계절은?"
	})).Return(nil)

	q, err := svc.Create(context.Background(), &request.CreateQuestionRequest{
		Content:         "가장 좋아하는 계절은?",
		ExpectedAnswers: []string{"봄이요"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"봄이요"}, []string(q.ExpectedAnswers))
}

func TestService_CreateRejectsUnknownSource(t *testing.T) {
	svc := NewService(logger.NewNopLogger(), questionMocks.NewRepository(t))

	_, err := svc.Create(context.Background(), &request.CreateQuestionRequest{Content: "q", Source: "imported"})

	assert.True(t, domain.IsValidationError(err))
}

func TestService_ListClampsLimit(t *testing.T) {
	repo := questionMocks.NewRepository(t)
	svc := NewService(logger.NewNopLogger(), repo)
	repo.On("List", mock.Anything, 10, domainQuestion.MaxListLimit).Return([]domainQuestion.Question{}, nil)

	_, err := svc.List(context.Background(), 10, 1000)
	require.NoError(t, err)

	_, err = svc.List(context.Background(), -1, 10)
	assert.Error(t, err)
}

func TestService_UpdateMergesFields(t *testing.T) {
	repo := questionMocks.NewRepository(t)
	svc := NewService(logger.NewNopLogger(), repo)
	id := uuid.New()
	existing := &domainQuestion.Question{
		ID:              id,
		Content:         "옛 질문",
		ExpectedAnswers: []string{"a"},
		Source:          domainQuestion.SourceManual,
	}
	newContent := "새 질문"

	repo.On("Get", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)

	q, err := svc.Update(context.Background(), id, &request.UpdateQuestionRequest{Content: &newContent})
	require.NoError(t, err)
	assert.Equal(t, "새 질문", q.Content)
	assert.Equal(t, []string{"a"}, []string(q.ExpectedAnswers))
}

func TestService_UpdateNotFound(t *testing.T) {
	repo := questionMocks.NewRepository(t)
	svc := NewService(logger.NewNopLogger(), repo)
	id := uuid.New()
	repo.On("Get", mock.Anything, id).Return(nil, domain.NewNotFoundError("question", id))

	content := "x"
	_, err := svc.Update(context.Background(), id, &request.UpdateQuestionRequest{Content: &content})

	assert.True(t, domain.IsNotFoundError(err))
}
