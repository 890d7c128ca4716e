package app

import (
	"fmt"

	envelopeHTTP "github.com/allisson/keyrotator/internal/envelope/http"
	envelopeUseCase "github.com/allisson/keyrotator/internal/envelope/usecase"
)

// EnvelopeUseCase returns the envelope encryption use case wrapped with metrics.
func (c *Container) EnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	c.envelopeUseCaseInit.Do(func() {
		useCase, err := c.initEnvelopeUseCase()
		if err != nil {
			c.setInitError("envelopeUseCase", err)
			return
		}
		c.envelopeUseCase = useCase
	})
	if err := c.initError("envelopeUseCase"); err != nil {
		return nil, err
	}
	return c.envelopeUseCase, nil
}

// EnvelopeHandler returns the HTTP handler for envelope routes.
func (c *Container) EnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	c.envelopeHandlerInit.Do(func() {
		handler, err := c.initEnvelopeHandler()
		if err != nil {
			c.setInitError("envelopeHandler", err)
			return
		}
		c.envelopeHandler = handler
	})
	if err := c.initError("envelopeHandler"); err != nil {
		return nil, err
	}
	return c.envelopeHandler, nil
}

func (c *Container) initEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	resolver, err := c.KeyResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key resolver for envelope use case: %w", err)
	}

	symmetric, err := c.SymmetricCipher()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
	}

	useCase := envelopeUseCase.NewEnvelopeUseCase(resolver, c.AsymmetricCipher(), symmetric)
	return envelopeUseCase.NewEnvelopeUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initEnvelopeHandler() (*envelopeHTTP.EnvelopeHandler, error) {
	envelopes, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for handler: %w", err)
	}

	keySets, err := c.KeySetUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key set use case for envelope handler: %w", err)
	}

	return envelopeHTTP.NewEnvelopeHandler(envelopes, keySets, c.Logger()), nil
}
