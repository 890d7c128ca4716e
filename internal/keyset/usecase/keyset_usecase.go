// Package usecase orchestrates the key set lifecycle: generation into staging,
// promotion of staged sets into the active stage, retirement of the previous
// active set, and lookup of RSA key material for envelope operations.
//
// # Lifecycle
//
//	Generate        -> update/{id}.der.pending, verified, renamed to update/{id}.der
//	RotatePending   -> update/ -> current/, previous current/ -> history/
//	KeyResolver     -> current/ (encrypt), current/ then history/ (decrypt)
//
// Key set metadata is never cached. Every call rescans the stage directories.
//
// # Concurrency
//
// RotatePending runs behind a mutex owned by the use case. Generation and key
// resolution take no lock. A resolver call that overlaps a rotation may observe
// a half-moved key set and fail with a not-found or storage error.
package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	apperrors "github.com/allisson/keyrotator/internal/errors"
	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetService "github.com/allisson/keyrotator/internal/keyset/service"
)

// keySetUseCase implements KeySetUseCase over a KeyStore.
type keySetUseCase struct {
	store      KeyStore
	asymmetric keysetService.AsymmetricCipher
	symmetric  keysetService.SymmetricCipher
	codec      keysetService.KeyCodec
	idGen      keysetService.IdentifierGenerator
	rsaKeyBits int
	logger     *slog.Logger
	now        func() time.Time

	rotationMu sync.Mutex
}

// Generate creates one key set in the staging stage and verifies that the
// wrapped symmetric key read back from disk unwraps to the generated key.
//
// The PEM files are written first and the wrapped key is staged as
// {id}.der.pending, which keeps the group incomplete. Only after verification
// succeeds is it renamed to {id}.der. When any step after the first write
// fails, the files already written are removed.
func (k *keySetUseCase) Generate(ctx context.Context) (*keysetDomain.KeySet, error) {
	if err := k.store.EnsureLayout(); err != nil {
		return nil, err
	}

	id, err := k.idGen.Generate()
	if err != nil {
		return nil, err
	}

	privateKey, err := k.asymmetric.GenerateKeyPair(k.rsaKeyBits)
	if err != nil {
		return nil, err
	}

	symmetricKey, err := k.symmetric.GenerateKey()
	if err != nil {
		return nil, err
	}
	defer symmetricKey.Zero()

	payload := symmetricKey.Serialize()
	wrapped, err := k.asymmetric.Wrap(&privateKey.PublicKey, payload)
	keysetDomain.Zero(payload)
	if err != nil {
		return nil, err
	}

	publicPEM, err := k.codec.EncodePublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}

	privatePEM, err := k.codec.EncodePrivateKey(ctx, privateKey)
	if err != nil {
		return nil, err
	}
	defer keysetDomain.Zero(privatePEM)

	wrappedName, publicName, privateName := keysetDomain.CanonicalFiles(id)
	pendingName := wrappedName + keysetDomain.PendingSuffix
	files := []struct {
		name string
		data []byte
	}{
		{publicName, publicPEM},
		{privateName, privatePEM},
		{pendingName, wrapped},
	}

	var written []string
	for _, f := range files {
		if err := k.store.WriteFile(keysetDomain.StageStaging, f.name, f.data); err != nil {
			k.discard(id, written)
			return nil, err
		}
		written = append(written, f.name)
	}

	if err := k.verify(ctx, id, pendingName, symmetricKey); err != nil {
		k.discard(id, written)
		return nil, err
	}

	err = k.store.Move(keysetDomain.Move{
		From:   keysetDomain.StageStaging,
		To:     keysetDomain.StageStaging,
		Name:   pendingName,
		Target: wrappedName,
	})
	if err != nil {
		k.discard(id, written)
		return nil, err
	}

	// A rotation may promote the set as soon as the rename lands.
	keySet, err := k.store.FindKeySetIn(id, keysetDomain.StageStaging, keysetDomain.StageActive, keysetDomain.StageRetired)
	if err != nil {
		return nil, err
	}

	k.logger.Info("key set generated",
		slog.String("key_set_id", id),
		slog.String("algorithm", string(k.symmetric.Algorithm())),
		slog.Int("rsa_key_bits", k.rsaKeyBits),
	)

	return keySet, nil
}

// verify re-reads the staged private key of id and the wrapped key stored as
// wrappedName and checks that they reproduce expected.
func (k *keySetUseCase) verify(
	ctx context.Context,
	id, wrappedName string,
	expected keysetDomain.SymmetricKey,
) error {
	_, _, privateName := keysetDomain.CanonicalFiles(id)

	privatePEM, err := k.store.ReadFile(keysetDomain.StageStaging, privateName)
	if err != nil {
		return err
	}
	defer keysetDomain.Zero(privatePEM)

	privateKey, err := k.codec.DecodePrivateKey(ctx, privatePEM)
	if err != nil {
		return apperrors.Join(keysetDomain.ErrRoundTripMismatch, err)
	}

	wrapped, err := k.store.ReadFile(keysetDomain.StageStaging, wrappedName)
	if err != nil {
		return err
	}

	payload, err := k.asymmetric.Unwrap(privateKey, wrapped)
	if err != nil {
		return apperrors.Join(keysetDomain.ErrRoundTripMismatch, err)
	}
	defer keysetDomain.Zero(payload)

	recovered, err := keysetDomain.ParseSymmetricKey(payload)
	if err != nil {
		return apperrors.Join(keysetDomain.ErrRoundTripMismatch, err)
	}
	defer recovered.Zero()

	if !recovered.Equal(expected) {
		return keysetDomain.ErrRoundTripMismatch
	}
	return nil
}

// discard removes files written for a failed generation. Failures are logged.
func (k *keySetUseCase) discard(id string, names []string) {
	for _, name := range names {
		if err := k.store.Remove(keysetDomain.StageStaging, name); err != nil {
			k.logger.Warn("failed to remove file of discarded key set",
				slog.String("key_set_id", id),
				slog.String("file", name),
				slog.Any("error", err),
			)
		}
	}
}

// CurrentActiveIdentifier returns the identifier of the newest complete key set
// in the active stage.
func (k *keySetUseCase) CurrentActiveIdentifier(ctx context.Context) (string, error) {
	keySets, err := k.ListKeySets(ctx, keysetDomain.StageActive)
	if err != nil {
		return "", err
	}

	latest, ok := keysetDomain.Latest(keySets)
	if !ok {
		return "", keysetDomain.ErrNoActiveKeySet
	}
	return latest.ID, nil
}

// ListKeySets returns the complete key sets in stage. Incomplete groups are
// logged at debug level and left out.
func (k *keySetUseCase) ListKeySets(
	ctx context.Context,
	stage keysetDomain.Stage,
) ([]keysetDomain.KeySet, error) {
	keySets, rejected, err := k.store.ListKeySets(stage)
	if err != nil {
		return nil, err
	}

	for _, group := range rejected {
		k.logger.Debug("ignoring incomplete key set",
			slog.String("stage", string(stage)),
			slog.String("token", group.Token),
			slog.String("reason", group.Reason),
		)
	}

	if keySets == nil {
		keySets = []keysetDomain.KeySet{}
	}
	return keySets, nil
}

// NewKeySetUseCase creates a KeySetUseCase. rsaKeyBits is the modulus size of
// generated key pairs.
func NewKeySetUseCase(
	store KeyStore,
	asymmetric keysetService.AsymmetricCipher,
	symmetric keysetService.SymmetricCipher,
	codec keysetService.KeyCodec,
	idGen keysetService.IdentifierGenerator,
	rsaKeyBits int,
	logger *slog.Logger,
) KeySetUseCase {
	return &keySetUseCase{
		store:      store,
		asymmetric: asymmetric,
		symmetric:  symmetric,
		codec:      codec,
		idGen:      idGen,
		rsaKeyBits: rsaKeyBits,
		logger:     logger,
		now:        time.Now,
	}
}
