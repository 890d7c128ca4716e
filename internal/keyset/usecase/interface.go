package usecase

import (
	"context"
	"crypto/rsa"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// KeyStore defines the key directory operations used by the use cases.
// *repository.FileKeyStore satisfies it.
type KeyStore interface {
	Dir(stage keysetDomain.Stage) string
	EnsureLayout() error
	List(stage keysetDomain.Stage) ([]keysetDomain.FileEntry, error)
	FindKeySet(id string, stage keysetDomain.Stage) (*keysetDomain.KeySet, error)
	FindKeySetIn(id string, stages ...keysetDomain.Stage) (*keysetDomain.KeySet, error)
	ListKeySets(stage keysetDomain.Stage) ([]keysetDomain.KeySet, []keysetDomain.RejectedGroup, error)
	ReadFile(stage keysetDomain.Stage, name string) ([]byte, error)
	WriteFile(stage keysetDomain.Stage, name string, data []byte) error
	Move(move keysetDomain.Move) error
	Remove(stage keysetDomain.Stage, name string) error
}

// KeySetUseCase defines the key set lifecycle operations.
type KeySetUseCase interface {
	// Generate writes a new verified key set into the staging stage.
	Generate(ctx context.Context) (*keysetDomain.KeySet, error)

	// RotatePending promotes every complete staged key set, oldest first.
	// Per-candidate failures are recorded in the report rather than returned.
	RotatePending(ctx context.Context) (*keysetDomain.RotationReport, error)

	// CurrentActiveIdentifier returns the newest complete key set in the
	// active stage, or ErrNoActiveKeySet.
	CurrentActiveIdentifier(ctx context.Context) (string, error)

	// ListKeySets returns the complete key sets in stage sorted by creation time.
	ListKeySets(ctx context.Context, stage keysetDomain.Stage) ([]keysetDomain.KeySet, error)
}

// KeyResolver loads the RSA key material of a named key set.
type KeyResolver interface {
	// PublicKey resolves id in the active stage only.
	PublicKey(ctx context.Context, id string) (*rsa.PublicKey, error)

	// PrivateKey resolves id in the active stage, then the retired stage.
	PrivateKey(ctx context.Context, id string) (*rsa.PrivateKey, error)
}

// Rotator is the subset of KeySetUseCase driven by the scheduler.
type Rotator interface {
	RotatePending(ctx context.Context) (*keysetDomain.RotationReport, error)
}
