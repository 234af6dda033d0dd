package transcription

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memorylane/dailyquestion/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe_PostsMultipart(t *testing.T) {
	var model, language, fileName string
	var fileBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		model = r.FormValue("model")
		language = r.FormValue("language")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		fileName = hdr.Filename
		fileBody, _ = io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  오늘은 산책을 했어요 "}`))
	}))
	defer srv.Close()

	tr := NewWhisperTranscriber(logger.NewNopLogger(), Config{APIKey: "k", BaseURL: srv.URL, Language: "ko"})
	text, err := tr.Transcribe(context.Background(), []byte("RIFF"), "answer.wav", "audio/wav")

	require.NoError(t, err)
	assert.Equal(t, "오늘은 산책을 했어요", text)
	assert.Equal(t, DefaultModel, model)
	assert.Equal(t, "ko", language)
	assert.Equal(t, "answer.wav", fileName)
	assert.Equal(t, []byte("RIFF"), fileBody)
}

func TestTranscribe_EmptyAudio(t *testing.T) {
	tr := NewWhisperTranscriber(logger.NewNopLogger(), Config{APIKey: "k"})
	_, err := tr.Transcribe(context.Background(), nil, "a.wav", "audio/wav")
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestTranscribe_BackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad audio"}}`))
	}))
	defer srv.Close()

	tr := NewWhisperTranscriber(logger.NewNopLogger(), Config{APIKey: "k", BaseURL: srv.URL})
	_, err := tr.Transcribe(context.Background(), []byte("x"), "a.wav", "audio/wav")
	assert.Error(t, err)
}
