package mocks

import (
	"context"
	"crypto/rsa"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/transgate/internal/domain/models"
	"github.com/turtacn/transgate/internal/domain/service"
)

// MockSigningKeyResolver is a mock implementation of SigningKeyResolver
type MockSigningKeyResolver struct {
	mock.Mock
}

func (m *MockSigningKeyResolver) Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	args := m.Called(ctx, kid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsa.PublicKey), args.Error(1)
}

// MockSigningKeyResolverSource is a mock implementation of SigningKeyResolverSource
type MockSigningKeyResolverSource struct {
	mock.Mock
}

func (m *MockSigningKeyResolverSource) ResolverFor(tenantID string) (service.SigningKeyResolver, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(service.SigningKeyResolver), args.Error(1)
}

// MockTokenValidator is a mock implementation of TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(ctx context.Context, authHeader string) (*models.Principal, error) {
	args := m.Called(ctx, authHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}
