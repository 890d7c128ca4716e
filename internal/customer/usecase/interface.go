// Package usecase implements customer management on top of envelope encryption.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
)

// CustomerRepository defines the interface for customer persistence operations.
type CustomerRepository interface {
	Create(ctx context.Context, customer *customerDomain.Customer) error
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error)
	// GetForUpdate reads a customer and locks its row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error)
	List(ctx context.Context, offset, limit int) ([]*customerDomain.Customer, error)
	// ListAfter returns up to limit customers with an id greater than afterID,
	// ordered by id.
	ListAfter(ctx context.Context, afterID uuid.UUID, limit int) ([]*customerDomain.Customer, error)
	UpdateEmail(ctx context.Context, id uuid.UUID, email string, updatedAt time.Time) error
	Update(ctx context.Context, customer *customerDomain.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerUseCase defines the interface for customer business logic.
type CustomerUseCase interface {
	Create(ctx context.Context, name, email string) (*customerDomain.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*customerDomain.Profile, error)
	List(ctx context.Context, offset, limit int) ([]*customerDomain.Profile, error)
	// Update replaces name and email. The email is encrypted under the current
	// active key set.
	Update(ctx context.Context, id uuid.UUID, name, email string) (*customerDomain.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ReEncrypt moves every stored email onto the current active key set.
	ReEncrypt(ctx context.Context, batchSize int) (*customerDomain.ReEncryptReport, error)
}
