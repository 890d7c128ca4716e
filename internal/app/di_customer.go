package app

import (
	"fmt"

	customerHTTP "github.com/allisson/keyrotator/internal/customer/http"
	customerRepository "github.com/allisson/keyrotator/internal/customer/repository"
	customerUseCase "github.com/allisson/keyrotator/internal/customer/usecase"
)

// CustomerRepository returns the customer repository for DB_DRIVER.
func (c *Container) CustomerRepository() (customerUseCase.CustomerRepository, error) {
	c.customerRepoInit.Do(func() {
		repo, err := c.initCustomerRepository()
		if err != nil {
			c.setInitError("customerRepo", err)
			return
		}
		c.customerRepo = repo
	})
	if err := c.initError("customerRepo"); err != nil {
		return nil, err
	}
	return c.customerRepo, nil
}

// CustomerUseCase returns the customer use case wrapped with metrics.
func (c *Container) CustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	c.customerUseCaseInit.Do(func() {
		useCase, err := c.initCustomerUseCase()
		if err != nil {
			c.setInitError("customerUseCase", err)
			return
		}
		c.customerUseCase = useCase
	})
	if err := c.initError("customerUseCase"); err != nil {
		return nil, err
	}
	return c.customerUseCase, nil
}

// CustomerHandler returns the HTTP handler for customer routes.
func (c *Container) CustomerHandler() (*customerHTTP.CustomerHandler, error) {
	c.customerHandlerInit.Do(func() {
		useCase, err := c.CustomerUseCase()
		if err != nil {
			c.setInitError("customerHandler", fmt.Errorf("failed to get customer use case for handler: %w", err))
			return
		}
		c.customerHandler = customerHTTP.NewCustomerHandler(useCase, c.config.ReEncryptBatchSize, c.Logger())
	})
	if err := c.initError("customerHandler"); err != nil {
		return nil, err
	}
	return c.customerHandler, nil
}

func (c *Container) initCustomerRepository() (customerUseCase.CustomerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for customer repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return customerRepository.NewMySQLCustomerRepository(db), nil
	case "postgres":
		return customerRepository.NewPostgreSQLCustomerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for customer use case: %w", err)
	}

	repo, err := c.CustomerRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get customer repository for customer use case: %w", err)
	}

	envelopes, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for customer use case: %w", err)
	}

	keySets, err := c.KeySetUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get key set use case for customer use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for customer use case: %w", err)
	}

	useCase := customerUseCase.NewCustomerUseCase(
		txManager,
		repo,
		envelopes,
		keySets,
		c.config.ReEncryptConcurrency,
		c.Logger(),
	)
	return customerUseCase.NewCustomerUseCaseWithMetrics(useCase, businessMetrics), nil
}
