package mocks

import (
	"context"

	"github.com/memorylane/dailyquestion/pkg/infra/storage"
	"github.com/stretchr/testify/mock"
)

type AudioStore struct {
	mock.Mock
}

func (m *AudioStore) PutAudio(ctx context.Context, userID int64, filename, contentType string, data []byte) (*storage.Object, error) {
	args := m.Called(ctx, userID, filename, contentType, data)
	var obj *storage.Object
	if args.Get(0) != nil {
		obj = args.Get(0).(*storage.Object)
	}
	return obj, args.Error(1)
}

func (m *AudioStore) DeleteAudio(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func NewAudioStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *AudioStore {
	m := &AudioStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
