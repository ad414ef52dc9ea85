package session_test

import (
	"context"

	"github.com/inkspire/inkspire-client/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockAuthAPI is a mock implementation of session.AuthAPI
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Verify(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, req models.SignupRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	args := m.Called(ctx, email, newPassword)
	return args.String(0), args.Error(1)
}

func (m *MockAuthAPI) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
