package usecase

import (
	"context"
	"crypto/rsa"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetService "github.com/allisson/keyrotator/internal/keyset/service"
)

// keyResolver reads and decodes PEM files for a key set identifier.
type keyResolver struct {
	store KeyStore
	codec keysetService.KeyCodec
}

// NewKeyResolver creates a KeyResolver over store.
func NewKeyResolver(store KeyStore, codec keysetService.KeyCodec) KeyResolver {
	return &keyResolver{store: store, codec: codec}
}

// PublicKey returns the RSA public key of the active key set id.
func (r *keyResolver) PublicKey(ctx context.Context, id string) (*rsa.PublicKey, error) {
	keySet, err := r.store.FindKeySet(id, keysetDomain.StageActive)
	if err != nil {
		return nil, err
	}

	data, err := r.store.ReadFile(keySet.Stage, keySet.PublicKeyFile)
	if err != nil {
		return nil, err
	}
	return r.codec.DecodePublicKey(data)
}

// PrivateKey returns the RSA private key of id, preferring the active stage and
// falling back to the retired stage.
func (r *keyResolver) PrivateKey(ctx context.Context, id string) (*rsa.PrivateKey, error) {
	keySet, err := r.store.FindKeySetIn(id, keysetDomain.StageActive, keysetDomain.StageRetired)
	if err != nil {
		return nil, err
	}

	data, err := r.store.ReadFile(keySet.Stage, keySet.PrivateKeyFile)
	if err != nil {
		return nil, err
	}
	defer keysetDomain.Zero(data)

	return r.codec.DecodePrivateKey(ctx, data)
}
