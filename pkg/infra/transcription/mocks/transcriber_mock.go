package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Transcriber struct {
	mock.Mock
}

func (m *Transcriber) Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error) {
	args := m.Called(ctx, audio, filename, contentType)
	return args.String(0), args.Error(1)
}

func NewTranscriber(t interface {
	mock.TestingT
	Cleanup(func())
}) *Transcriber {
	m := &Transcriber{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
