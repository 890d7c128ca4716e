// Package mocks provides mock implementations of the key set use case
// interfaces for testing.
package mocks

import (
	"context"
	"crypto/rsa"

	"github.com/stretchr/testify/mock"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// MockKeySetUseCase is a mock implementation of KeySetUseCase for testing.
type MockKeySetUseCase struct {
	mock.Mock
}

// Generate mocks the Generate method of KeySetUseCase.
func (m *MockKeySetUseCase) Generate(ctx context.Context) (*keysetDomain.KeySet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysetDomain.KeySet), args.Error(1)
}

// RotatePending mocks the RotatePending method of KeySetUseCase.
func (m *MockKeySetUseCase) RotatePending(ctx context.Context) (*keysetDomain.RotationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*keysetDomain.RotationReport), args.Error(1)
}

// CurrentActiveIdentifier mocks the CurrentActiveIdentifier method of KeySetUseCase.
func (m *MockKeySetUseCase) CurrentActiveIdentifier(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// ListKeySets mocks the ListKeySets method of KeySetUseCase.
func (m *MockKeySetUseCase) ListKeySets(
	ctx context.Context,
	stage keysetDomain.Stage,
) ([]keysetDomain.KeySet, error) {
	args := m.Called(ctx, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]keysetDomain.KeySet), args.Error(1)
}

// MockKeyResolver is a mock implementation of KeyResolver for testing.
type MockKeyResolver struct {
	mock.Mock
}

// PublicKey mocks the PublicKey method of KeyResolver.
func (m *MockKeyResolver) PublicKey(ctx context.Context, id string) (*rsa.PublicKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsa.PublicKey), args.Error(1)
}

// PrivateKey mocks the PrivateKey method of KeyResolver.
func (m *MockKeyResolver) PrivateKey(ctx context.Context, id string) (*rsa.PrivateKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsa.PrivateKey), args.Error(1)
}
