package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
	"github.com/allisson/keyrotator/internal/metrics"
)

// customerUseCaseWithMetrics decorates CustomerUseCase with metrics instrumentation.
type customerUseCaseWithMetrics struct {
	next    CustomerUseCase
	metrics metrics.BusinessMetrics
}

// NewCustomerUseCaseWithMetrics wraps a CustomerUseCase with metrics recording.
func NewCustomerUseCaseWithMetrics(useCase CustomerUseCase, m metrics.BusinessMetrics) CustomerUseCase {
	return &customerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *customerUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "customer", operation, status)
	c.metrics.RecordDuration(ctx, "customer", operation, time.Since(start), status)
}

// Create records metrics for customer creation.
func (c *customerUseCaseWithMetrics) Create(
	ctx context.Context,
	name, email string,
) (*customerDomain.Profile, error) {
	start := time.Now()
	profile, err := c.next.Create(ctx, name, email)
	c.record(ctx, "create", start, err)
	return profile, err
}

// Get records metrics for customer retrieval.
func (c *customerUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Profile, error) {
	start := time.Now()
	profile, err := c.next.Get(ctx, id)
	c.record(ctx, "get", start, err)
	return profile, err
}

// List records metrics for customer listing.
func (c *customerUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.Profile, error) {
	start := time.Now()
	profiles, err := c.next.List(ctx, offset, limit)
	c.record(ctx, "list", start, err)
	return profiles, err
}

// Update records metrics for customer updates.
func (c *customerUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	name, email string,
) (*customerDomain.Profile, error) {
	start := time.Now()
	profile, err := c.next.Update(ctx, id, name, email)
	c.record(ctx, "update", start, err)
	return profile, err
}

// Delete records metrics for customer deletion.
func (c *customerUseCaseWithMetrics) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, id)
	c.record(ctx, "delete", start, err)
	return err
}

// ReEncrypt records metrics for a re-encryption run.
func (c *customerUseCaseWithMetrics) ReEncrypt(
	ctx context.Context,
	batchSize int,
) (*customerDomain.ReEncryptReport, error) {
	start := time.Now()
	report, err := c.next.ReEncrypt(ctx, batchSize)
	c.record(ctx, "reencrypt", start, err)
	return report, err
}
