package mocks

import (
	"context"

	"hellosrv/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockGreetingService struct {
	mock.Mock
}

func (m *MockGreetingService) Respond(ctx context.Context, meta service.RequestMeta) (*service.Reply, error) {
	args := m.Called(ctx, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Reply), args.Error(1)
}

func (m *MockGreetingService) Pending() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockGreetingService) Current() service.Greeting {
	args := m.Called()
	return args.Get(0).(service.Greeting)
}

func (m *MockGreetingService) LoadBody(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGreetingService) UpdateBody(ctx context.Context, body string) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}
