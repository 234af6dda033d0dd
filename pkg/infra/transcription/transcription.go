package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

const DefaultModel = "whisper-1"

var ErrEmptyAudio = errors.New("empty audio")

//go:generate mockery --name=Transcriber --dir=. --output=./mocks --filename=transcriber_mock.go --case=underscore --with-expecter
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}

type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

type whisper struct {
	client openai.Client
	logger *logrus.Logger
	cfg    Config
}

func NewWhisperTranscriber(logger *logrus.Logger, cfg Config) Transcriber {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &whisper{
		client: openai.NewClient(opts...),
		logger: logger,
		cfg:    cfg,
	}
}

func (w *whisper) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if filename == "" {
		filename = "audio.webm"
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), filename, contentType),
		Model: openai.AudioModel(w.cfg.Model),
	}
	if w.cfg.Language != "" {
		params.Language = openai.String(w.cfg.Language)
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	w.logger.WithFields(logrus.Fields{
		"model": w.cfg.Model,
		"bytes": len(audio),
		"chars": len(text),
	}).Debug("audio transcribed")
	return text, nil
}
