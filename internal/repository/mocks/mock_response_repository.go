package mocks

import (
	"context"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(ctx context.Context, rec *model.ResponseRecord) (*model.ResponseRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponseRecord), args.Error(1)
}

func (m *MockResponseRepository) FindByID(ctx context.Context, id string) (*model.ResponseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResponseRecord), args.Error(1)
}

func (m *MockResponseRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ResponseRecord], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.ResponseRecord]), args.Error(1)
}
