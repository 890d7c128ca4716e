package app

import (
	"context"
	"fmt"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
	keysetHTTP "github.com/allisson/keyrotator/internal/keyset/http"
	keysetRepository "github.com/allisson/keyrotator/internal/keyset/repository"
	keysetService "github.com/allisson/keyrotator/internal/keyset/service"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
	"github.com/allisson/keyrotator/internal/metrics"
)

// KeyStore returns the key directory rooted at KEY_DIRECTORY.
func (c *Container) KeyStore() *keysetRepository.FileKeyStore {
	c.keyStoreInit.Do(func() {
		c.keyStore = keysetRepository.NewFileKeyStore(keysetRepository.NewOSFileSystem(), c.config.KeyDirectory)
	})
	return c.keyStore
}

// KeyCodec returns the PEM codec, sealing private keys with the KMS keeper when
// KMS_KEY_URI is set.
func (c *Container) KeyCodec() (keysetService.KeyCodec, error) {
	c.keyCodecInit.Do(func() {
		codec, err := c.initKeyCodec()
		if err != nil {
			c.setInitError("keyCodec", err)
			return
		}
		c.keyCodec = codec
	})
	if err := c.initError("keyCodec"); err != nil {
		return nil, err
	}
	return c.keyCodec, nil
}

// AsymmetricCipher returns the RSA-OAEP key wrapper.
func (c *Container) AsymmetricCipher() keysetService.AsymmetricCipher {
	c.asymmetricCipherInit.Do(func() {
		c.asymmetricCipher = keysetService.NewRSAOAEPCipher()
	})
	return c.asymmetricCipher
}

// SymmetricCipher returns the payload cipher selected by SYMMETRIC_ALGORITHM.
func (c *Container) SymmetricCipher() (keysetService.SymmetricCipher, error) {
	c.symmetricCipherInit.Do(func() {
		cipher, err := keysetService.NewSymmetricCipher(c.config.Algorithm())
		if err != nil {
			c.setInitError("symmetricCipher", fmt.Errorf("failed to create symmetric cipher: %w", err))
			return
		}
		c.symmetricCipher = cipher
	})
	if err := c.initError("symmetricCipher"); err != nil {
		return nil, err
	}
	return c.symmetricCipher, nil
}

// KeySetUseCase returns the key set lifecycle use case wrapped with metrics.
func (c *Container) KeySetUseCase() (keysetUseCase.KeySetUseCase, error) {
	c.keySetUseCaseInit.Do(func() {
		useCase, err := c.initKeySetUseCase()
		if err != nil {
			c.setInitError("keySetUseCase", err)
			return
		}
		c.keySetUseCase = useCase
	})
	if err := c.initError("keySetUseCase"); err != nil {
		return nil, err
	}
	return c.keySetUseCase, nil
}

// KeyResolver returns the resolver used by envelope decryption.
func (c *Container) KeyResolver() (keysetUseCase.KeyResolver, error) {
	c.keyResolverInit.Do(func() {
		codec, err := c.KeyCodec()
		if err != nil {
			c.setInitError("keyResolver", fmt.Errorf("failed to get key codec for key resolver: %w", err))
			return
		}
		c.keyResolver = keysetUseCase.NewKeyResolver(c.KeyStore(), codec)
	})
	if err := c.initError("keyResolver"); err != nil {
		return nil, err
	}
	return c.keyResolver, nil
}

// RotationScheduler returns the periodic rotation loop. It is nil when
// ROTATION_INTERVAL_SECONDS is zero.
func (c *Container) RotationScheduler() (*keysetUseCase.RotationScheduler, error) {
	c.rotationSchedulerInit.Do(func() {
		if c.config.RotationInterval <= 0 {
			return
		}
		useCase, err := c.KeySetUseCase()
		if err != nil {
			c.setInitError(
				"rotationScheduler",
				fmt.Errorf("failed to get key set use case for rotation scheduler: %w", err),
			)
			return
		}
		c.rotationScheduler = keysetUseCase.NewRotationScheduler(useCase, c.config.RotationInterval, c.Logger())
	})
	if err := c.initError("rotationScheduler"); err != nil {
		return nil, err
	}
	return c.rotationScheduler, nil
}

// KeySetHandler returns the HTTP handler for key set routes.
func (c *Container) KeySetHandler() (*keysetHTTP.KeySetHandler, error) {
	c.keySetHandlerInit.Do(func() {
		useCase, err := c.KeySetUseCase()
		if err != nil {
			c.setInitError("keySetHandler", fmt.Errorf("failed to get key set use case for handler: %w", err))
			return
		}
		c.keySetHandler = keysetHTTP.NewKeySetHandler(useCase, c.Logger())
	})
	if err := c.initError("keySetHandler"); err != nil {
		return nil, err
	}
	return c.keySetHandler, nil
}

func (c *Container) initKeyCodec() (keysetService.KeyCodec, error) {
	if c.config.KMSKeyURI == "" {
		return keysetService.NewPEMCodec(nil), nil
	}

	keeper, err := keysetService.NewKMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keeper = keeper
	c.mu.Unlock()

	c.Logger().Info("private keys sealed with kms keeper")
	return keysetService.NewPEMCodec(keeper), nil
}

func (c *Container) initKeySetUseCase() (keysetUseCase.KeySetUseCase, error) {
	codec, err := c.KeyCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get key codec for key set use case: %w", err)
	}

	symmetric, err := c.SymmetricCipher()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for key set use case: %w", err)
	}

	useCase := keysetUseCase.NewKeySetUseCase(
		c.KeyStore(),
		c.AsymmetricCipher(),
		symmetric,
		codec,
		keysetService.NewIdentifierGenerator(),
		c.config.RSAKeyBits,
		c.Logger(),
	)

	return keysetUseCase.NewKeySetUseCaseWithMetrics(useCase, businessMetrics), nil
}

// keySetInventory counts complete key sets per stage straight from the store
// so scrapes do not show up in the operation metrics.
func keySetInventory(store keysetUseCase.KeyStore) metrics.InventoryFunc {
	return func(ctx context.Context) (map[string]int, error) {
		counts := make(map[string]int, len(keysetDomain.Stages))
		for _, stage := range keysetDomain.Stages {
			keySets, _, err := store.ListKeySets(stage)
			if err != nil {
				return nil, err
			}
			counts[string(stage)] = len(keySets)
		}
		return counts, nil
	}
}
