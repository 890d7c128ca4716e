package usecase

import (
	"context"
	"time"

	"github.com/allisson/keyrotator/internal/metrics"
)

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for envelope encryption.
func (e *envelopeUseCaseWithMetrics) Encrypt(ctx context.Context, plaintext, keySetID string) (string, error) {
	start := time.Now()
	envelope, err := e.next.Encrypt(ctx, plaintext, keySetID)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "envelope", "encrypt", status)
	e.metrics.RecordDuration(ctx, "envelope", "encrypt", time.Since(start), status)

	return envelope, err
}

// Decrypt records metrics for envelope decryption.
func (e *envelopeUseCaseWithMetrics) Decrypt(ctx context.Context, envelope string) (string, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "envelope", "decrypt", status)
	e.metrics.RecordDuration(ctx, "envelope", "decrypt", time.Since(start), status)

	return plaintext, err
}

// IdentifierOf records metrics for identifier extraction.
func (e *envelopeUseCaseWithMetrics) IdentifierOf(ctx context.Context, envelope string) (string, error) {
	start := time.Now()
	keySetID, err := e.next.IdentifierOf(ctx, envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "envelope", "identifier_of", status)
	e.metrics.RecordDuration(ctx, "envelope", "identifier_of", time.Since(start), status)

	return keySetID, err
}
