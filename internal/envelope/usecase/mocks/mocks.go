// Package mocks provides mock implementations of the envelope use case for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase for testing.
type MockEnvelopeUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Encrypt(ctx context.Context, plaintext, keySetID string) (string, error) {
	args := m.Called(ctx, plaintext, keySetID)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) Decrypt(ctx context.Context, envelope string) (string, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Error(1)
}

// IdentifierOf mocks the IdentifierOf method of EnvelopeUseCase.
func (m *MockEnvelopeUseCase) IdentifierOf(ctx context.Context, envelope string) (string, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Error(1)
}
