package usecase

import (
	"context"
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	"github.com/allisson/keyrotator/internal/metrics"
)

// keySetUseCaseWithMetrics decorates KeySetUseCase with metrics instrumentation.
type keySetUseCaseWithMetrics struct {
	next    KeySetUseCase
	metrics metrics.BusinessMetrics
}

// NewKeySetUseCaseWithMetrics wraps a KeySetUseCase with metrics recording.
func NewKeySetUseCaseWithMetrics(useCase KeySetUseCase, m metrics.BusinessMetrics) KeySetUseCase {
	return &keySetUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (k *keySetUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "keyset", operation, status)
	k.metrics.RecordDuration(ctx, "keyset", operation, time.Since(start), status)
}

// Generate records metrics for key set generation.
func (k *keySetUseCaseWithMetrics) Generate(ctx context.Context) (*keysetDomain.KeySet, error) {
	start := time.Now()
	keySet, err := k.next.Generate(ctx)
	k.record(ctx, "generate", start, err)
	return keySet, err
}

// RotatePending records metrics for the rotation run and one "promote"
// operation per candidate.
func (k *keySetUseCaseWithMetrics) RotatePending(ctx context.Context) (*keysetDomain.RotationReport, error) {
	start := time.Now()
	report, err := k.next.RotatePending(ctx)
	k.record(ctx, "rotate", start, err)

	if report != nil {
		for _, outcome := range report.Outcomes {
			status := "success"
			if !outcome.Promoted {
				status = "error"
			}
			k.metrics.RecordOperation(ctx, "keyset", "promote", status)
		}
	}

	return report, err
}

// CurrentActiveIdentifier records metrics for active identifier lookups.
func (k *keySetUseCaseWithMetrics) CurrentActiveIdentifier(ctx context.Context) (string, error) {
	start := time.Now()
	id, err := k.next.CurrentActiveIdentifier(ctx)
	k.record(ctx, "active_identifier", start, err)
	return id, err
}

// ListKeySets records metrics for key set listing.
func (k *keySetUseCaseWithMetrics) ListKeySets(
	ctx context.Context,
	stage keysetDomain.Stage,
) ([]keysetDomain.KeySet, error) {
	start := time.Now()
	keySets, err := k.next.ListKeySets(ctx, stage)
	k.record(ctx, "list", start, err)
	return keySets, err
}
