package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	envelopeDomain "github.com/allisson/keyrotator/internal/envelope/domain"
	"github.com/allisson/keyrotator/internal/envelope/usecase"
	usecaseMocks "github.com/allisson/keyrotator/internal/envelope/usecase/mocks"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func TestEnvelopeUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		operation string
		status    string
		setup     func(next *usecaseMocks.MockEnvelopeUseCase)
		call      func(uc usecase.EnvelopeUseCase) (string, error)
		expected  string
	}{
		{
			name:      "Encrypt_Success",
			operation: "encrypt",
			status:    "success",
			setup: func(next *usecaseMocks.MockEnvelopeUseCase) {
				next.On("Encrypt", ctx, "value", "AbCd1234").Return("dmFsdWU=::a2V5.AbCd1234", nil).Once()
			},
			call: func(uc usecase.EnvelopeUseCase) (string, error) {
				return uc.Encrypt(ctx, "value", "AbCd1234")
			},
			expected: "dmFsdWU=::a2V5.AbCd1234",
		},
		{
			name:      "Encrypt_Error",
			operation: "encrypt",
			status:    "error",
			setup: func(next *usecaseMocks.MockEnvelopeUseCase) {
				next.On("Encrypt", ctx, "value", "bad.name").Return("", keysetDomain.ErrInvalidIdentifier).Once()
			},
			call: func(uc usecase.EnvelopeUseCase) (string, error) {
				return uc.Encrypt(ctx, "value", "bad.name")
			},
		},
		{
			name:      "Decrypt_Success",
			operation: "decrypt",
			status:    "success",
			setup: func(next *usecaseMocks.MockEnvelopeUseCase) {
				next.On("Decrypt", ctx, "dmFsdWU=::a2V5.AbCd1234").Return("value", nil).Once()
			},
			call: func(uc usecase.EnvelopeUseCase) (string, error) {
				return uc.Decrypt(ctx, "dmFsdWU=::a2V5.AbCd1234")
			},
			expected: "value",
		},
		{
			name:      "IdentifierOf_Error",
			operation: "identifier_of",
			status:    "error",
			setup: func(next *usecaseMocks.MockEnvelopeUseCase) {
				next.On("IdentifierOf", ctx, "garbage").Return("", envelopeDomain.ErrMissingIdentifier).Once()
			},
			call: func(uc usecase.EnvelopeUseCase) (string, error) {
				return uc.IdentifierOf(ctx, "garbage")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockNext := &usecaseMocks.MockEnvelopeUseCase{}
			mockMetrics := &mockBusinessMetrics{}
			uc := usecase.NewEnvelopeUseCaseWithMetrics(mockNext, mockMetrics)

			tt.setup(mockNext)
			mockMetrics.On("RecordOperation", ctx, "envelope", tt.operation, tt.status).Return().Once()
			mockMetrics.On("RecordDuration", ctx, "envelope", tt.operation, mock.AnythingOfType("time.Duration"), tt.status).
				Return().
				Once()

			result, err := tt.call(uc)

			if tt.status == "success" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.expected, result)
			mockNext.AssertExpectations(t)
			mockMetrics.AssertExpectations(t)
		})
	}
}
