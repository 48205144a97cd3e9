package mocks

import (
	"context"

	"hellosrv/internal/model"
	"hellosrv/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) List(ctx context.Context, limit, offset int) (*service.ResponseListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResponseListResult), args.Error(1)
}

func (m *MockJournalService) Get(ctx context.Context, id string) (*model.ResponseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponseRecord), args.Error(1)
}
