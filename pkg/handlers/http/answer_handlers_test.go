package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	appAnswer "github.com/memorylane/dailyquestion/pkg/app/answer"
	answerAppMocks "github.com/memorylane/dailyquestion/pkg/app/answer/mocks"
	"github.com/memorylane/dailyquestion/pkg/app/scoring"
	scoringMocks "github.com/memorylane/dailyquestion/pkg/app/scoring/mocks"
	domainAnswer "github.com/memorylane/dailyquestion/pkg/domain/answer"
	"github.com/memorylane/dailyquestion/pkg/handlers/http/request"
	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, fields map[string]string, audio []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if audio != nil {
		part, err := w.CreateFormFile("audio_file", "answer.m4a")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestSubmitVoiceAnswerHandler(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Post("/api/v1/answers/voice", NewSubmitVoiceAnswerHandler(logger.NewNopLogger(), svc, 64).Handle)

	qid := uuid.New()
	svc.On("SubmitVoiceAnswer", mock.Anything, mock.MatchedBy(func(r *request.VoiceAnswerRequest) bool {
		return r.QuestionID == qid && r.UserID == 9 && r.Filename == "answer.m4a" && string(r.Audio) == "m4a-bytes"
	})).Return(&domainAnswer.Answer{ID: uuid.New(), QuestionID: qid, UserID: 9}, nil)

	body, ct := multipartBody(t, map[string]string{"question_id": qid.String(), "user_id": "9"}, []byte("m4a-bytes"))
	req := httptest.NewRequest("POST", "/api/v1/answers/voice", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestSubmitVoiceAnswerHandler_Rejects(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Post("/api/v1/answers/voice", NewSubmitVoiceAnswerHandler(logger.NewNopLogger(), svc, 64).Handle)
	qid := uuid.NewString()

	tests := []struct {
		name   string
		fields map[string]string
		audio  []byte
		want   int
	}{
		{"bad question id", map[string]string{"question_id": "x", "user_id": "1"}, []byte("a"), fiber.StatusBadRequest},
		{"missing user", map[string]string{"question_id": qid}, []byte("a"), fiber.StatusBadRequest},
		{"missing file", map[string]string{"question_id": qid, "user_id": "1"}, nil, fiber.StatusBadRequest},
		{"too large", map[string]string{"question_id": qid, "user_id": "1"}, bytes.Repeat([]byte("a"), 65), fiber.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, tt.audio)
			req := httptest.NewRequest("POST", "/api/v1/answers/voice", body)
			req.Header.Set("Content-Type", ct)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSubmitVoiceAnswerHandler_UploadFailure(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Post("/api/v1/answers/voice", NewSubmitVoiceAnswerHandler(logger.NewNopLogger(), svc, 0).Handle)
	svc.On("SubmitVoiceAnswer", mock.Anything, mock.Anything).Return(nil, appAnswer.ErrAudioUpload)

	body, ct := multipartBody(t, map[string]string{"question_id": uuid.NewString(), "user_id": "1"}, []byte("a"))
	req := httptest.NewRequest("POST", "/api/v1/answers/voice", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestSubmitTextAnswerHandler(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Post("/api/v1/answers/text", NewSubmitTextAnswerHandler(logger.NewNopLogger(), svc).Handle)

	qid := uuid.NewString()
	svc.On("SubmitTextAnswer", mock.Anything, mock.MatchedBy(func(r *request.TextAnswerRequest) bool {
		return r.UserAgent == "test-agent" && r.Text == "산책했어요"
	})).Return(&domainAnswer.Answer{ID: uuid.New()}, nil)

	body, err := json.Marshal(request.TextAnswerRequest{QuestionID: qid, UserID: 4, Text: "산책했어요"})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/answers/text", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/answers/text", bytes.NewReader([]byte(`{"question_id":"`+qid+`","user_id":4,"text":""}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListAnswersHandler(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Get("/api/v1/answers", NewListAnswersHandler(logger.NewNopLogger(), svc).Handle)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc.On("ListByUser", mock.Anything, int64(3), mock.MatchedBy(func(f domainAnswer.ListFilter) bool {
		return f.From != nil && f.From.Equal(from) && f.To == nil
	})).Return([]domainAnswer.Answer{{ID: uuid.New(), UserID: 3}}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/answers?user_id=3&start_date=2026-04-01T00:00:00Z", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []domainAnswer.Answer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/answers?user_id=3&end_date=yesterday", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetAndDeleteAnswerHandlers(t *testing.T) {
	svc := answerAppMocks.NewService(t)
	app := fiber.New()
	app.Get("/api/v1/answers/:answer_id", NewGetAnswerHandler(logger.NewNopLogger(), svc).Handle)
	app.Delete("/api/v1/answers/:answer_id", NewDeleteAnswerHandler(logger.NewNopLogger(), svc).Handle)

	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(&domainAnswer.Answer{ID: id}, nil)
	svc.On("Delete", mock.Anything, id).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/answers/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/answers/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestScoringPreviewHandler(t *testing.T) {
	scorer := scoringMocks.NewScorer(t)
	app := fiber.New()
	app.Post("/api/v1/scoring/preview", NewScoringPreviewHandler(logger.NewNopLogger(), scorer).Handle)

	scorer.On("ScoreAnswer", mock.Anything, scoring.Question{
		Content:   "오늘 날씨는 어땠나요?",
		Exemplars: []string{"맑았어요", "비가 왔어요"},
	}, "햇볕이 좋았어요").Return(scoring.Scored(88.08))

	body := `{"question":"오늘 날씨는 어땠나요?","exemplars":["맑았어요","비가 왔어요"],"answer":"햇볕이 좋았어요"}`
	req := httptest.NewRequest("POST", "/api/v1/scoring/preview", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out scoring.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, scoring.StatusScored, out.Status)
	require.NotNil(t, out.Value)
	assert.Equal(t, 88.08, *out.Value)
}
