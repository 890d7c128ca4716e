// Package domain defines the customer model. The email address is persisted
// only as an envelope produced by the envelope use case.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/keyrotator/internal/errors"
)

// Customer is a stored customer row. Email holds the envelope, never plaintext.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is a customer with its email decrypted, plus the key set the stored
// envelope is bound to.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	KeySetID  string    `json:"key_set_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReEncryptReport summarises one re-encryption run over the customers table.
type ReEncryptReport struct {
	ActiveID    string `json:"active_id"`
	Scanned     int    `json:"scanned"`
	ReEncrypted int    `json:"re_encrypted"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
}

// Customer error definitions.
var (
	// ErrCustomerNotFound indicates no customer exists with the given id.
	ErrCustomerNotFound = errors.Wrap(errors.ErrNotFound, "customer not found")

	// ErrInvalidBatchSize indicates a re-encryption batch size below one.
	ErrInvalidBatchSize = errors.Wrap(errors.ErrInvalidInput, "batch size must be positive")
)
