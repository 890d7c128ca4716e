package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
	"github.com/allisson/keyrotator/internal/database"
	envelopeUseCase "github.com/allisson/keyrotator/internal/envelope/usecase"
	apperrors "github.com/allisson/keyrotator/internal/errors"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
)

// errEmailChanged signals that a row was rewritten between the batch read and
// the locked re-read, so the prepared envelope is stale.
var errEmailChanged = errors.New("customer email changed concurrently")

type reEncryptOutcome int

const (
	outcomeSkipped reEncryptOutcome = iota
	outcomeReEncrypted
	outcomeFailed
)

type customerUseCase struct {
	txManager       database.TxManager
	customerRepo    CustomerRepository
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	keySetUseCase   keysetUseCase.KeySetUseCase
	concurrency     int
	logger          *slog.Logger
	now             func() time.Time
}

// NewCustomerUseCase creates a new CustomerUseCase. Concurrency bounds the
// number of rows re-encrypted in parallel and is raised to 1 when lower.
func NewCustomerUseCase(
	txManager database.TxManager,
	customerRepo CustomerRepository,
	envelopeUseCase envelopeUseCase.EnvelopeUseCase,
	keySetUseCase keysetUseCase.KeySetUseCase,
	concurrency int,
	logger *slog.Logger,
) CustomerUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &customerUseCase{
		txManager:       txManager,
		customerRepo:    customerRepo,
		envelopeUseCase: envelopeUseCase,
		keySetUseCase:   keySetUseCase,
		concurrency:     concurrency,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new customer with its email encrypted under the active key set.
func (c *customerUseCase) Create(ctx context.Context, name, email string) (*customerDomain.Profile, error) {
	activeID, err := c.keySetUseCase.CurrentActiveIdentifier(ctx)
	if err != nil {
		return nil, err
	}

	envelope, err := c.envelopeUseCase.Encrypt(ctx, email, activeID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate customer id")
	}

	now := c.now()
	customer := &customerDomain.Customer{
		ID:        id,
		Name:      name,
		Email:     envelope,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return &customerDomain.Profile{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     email,
		KeySetID:  activeID,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}, nil
}

// Get retrieves a customer and decrypts its email.
func (c *customerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Profile, error) {
	customer, err := c.customerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.toProfile(ctx, customer)
}

// List retrieves customers with pagination and decrypts their emails.
func (c *customerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Profile, error) {
	customers, err := c.customerRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	profiles := make([]*customerDomain.Profile, 0, len(customers))
	for _, customer := range customers {
		profile, err := c.toProfile(ctx, customer)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Update replaces the name and email of an existing customer. The email is
// always encrypted under the current active key set, so an update also moves
// the row off any older key set.
func (c *customerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	name, email string,
) (*customerDomain.Profile, error) {
	activeID, err := c.keySetUseCase.CurrentActiveIdentifier(ctx)
	if err != nil {
		return nil, err
	}

	envelope, err := c.envelopeUseCase.Encrypt(ctx, email, activeID)
	if err != nil {
		return nil, err
	}

	var customer *customerDomain.Customer
	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := c.customerRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		current.Name = name
		current.Email = envelope
		current.UpdatedAt = c.now()
		if err := c.customerRepo.Update(ctx, current); err != nil {
			return err
		}

		customer = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &customerDomain.Profile{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     email,
		KeySetID:  activeID,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}, nil
}

// Delete removes a customer.
func (c *customerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return c.customerRepo.Delete(ctx, id)
}

func (c *customerUseCase) toProfile(
	ctx context.Context,
	customer *customerDomain.Customer,
) (*customerDomain.Profile, error) {
	profile := &customerDomain.Profile{
		ID:        customer.ID,
		Name:      customer.Name,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}

	if customer.Email == "" {
		return profile, nil
	}

	keySetID, err := c.envelopeUseCase.IdentifierOf(ctx, customer.Email)
	if err != nil {
		return nil, err
	}

	email, err := c.envelopeUseCase.Decrypt(ctx, customer.Email)
	if err != nil {
		return nil, err
	}

	profile.Email = email
	profile.KeySetID = keySetID
	return profile, nil
}

// ReEncrypt walks the customers table in id order, batchSize rows at a time,
// and re-encrypts every email whose envelope is bound to a key set other than
// the current active one. Rows inside a batch are processed concurrently. A
// failing row is logged and counted; only listing errors and cancellation stop
// the run.
func (c *customerUseCase) ReEncrypt(ctx context.Context, batchSize int) (*customerDomain.ReEncryptReport, error) {
	if batchSize < 1 {
		return nil, customerDomain.ErrInvalidBatchSize
	}

	activeID, err := c.keySetUseCase.CurrentActiveIdentifier(ctx)
	if err != nil {
		return nil, err
	}

	report := &customerDomain.ReEncryptReport{ActiveID: activeID}
	var reEncrypted, skipped, failed atomic.Int64

	finish := func() *customerDomain.ReEncryptReport {
		report.ReEncrypted = int(reEncrypted.Load())
		report.Skipped = int(skipped.Load())
		report.Failed = int(failed.Load())
		return report
	}

	afterID := uuid.Nil
	for {
		batch, err := c.customerRepo.ListAfter(ctx, afterID, batchSize)
		if err != nil {
			return finish(), err
		}
		if len(batch) == 0 {
			break
		}

		var g errgroup.Group
		g.SetLimit(c.concurrency)

		for _, customer := range batch {
			g.Go(func() error {
				switch c.reEncryptOne(ctx, customer, activeID) {
				case outcomeReEncrypted:
					reEncrypted.Add(1)
				case outcomeFailed:
					failed.Add(1)
				default:
					skipped.Add(1)
				}
				return nil
			})
		}
		_ = g.Wait()

		report.Scanned += len(batch)
		afterID = batch[len(batch)-1].ID

		if err := ctx.Err(); err != nil {
			return finish(), err
		}
		if len(batch) < batchSize {
			break
		}
	}

	finish()
	c.logger.Info("customer re-encryption finished",
		slog.String("active_id", report.ActiveID),
		slog.Int("scanned", report.Scanned),
		slog.Int("re_encrypted", report.ReEncrypted),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

func (c *customerUseCase) reEncryptOne(
	ctx context.Context,
	customer *customerDomain.Customer,
	activeID string,
) reEncryptOutcome {
	if customer.Email == "" {
		return outcomeSkipped
	}

	logger := c.logger.With(slog.String("customer_id", customer.ID.String()))

	keySetID, err := c.envelopeUseCase.IdentifierOf(ctx, customer.Email)
	if err != nil {
		logger.Warn("stored email is not a valid envelope", slog.Any("error", err))
		return outcomeFailed
	}
	if keySetID == activeID {
		return outcomeSkipped
	}

	plaintext, err := c.envelopeUseCase.Decrypt(ctx, customer.Email)
	if err != nil {
		logger.Warn("failed to decrypt customer email",
			slog.String("key_set_id", keySetID),
			slog.Any("error", err),
		)
		return outcomeFailed
	}

	envelope, err := c.envelopeUseCase.Encrypt(ctx, plaintext, activeID)
	if err != nil {
		logger.Warn("failed to encrypt customer email", slog.Any("error", err))
		return outcomeFailed
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := c.customerRepo.GetForUpdate(ctx, customer.ID)
		if err != nil {
			return err
		}
		if current.Email != customer.Email {
			return errEmailChanged
		}
		return c.customerRepo.UpdateEmail(ctx, customer.ID, envelope, c.now())
	})
	switch {
	case errors.Is(err, errEmailChanged), errors.Is(err, customerDomain.ErrCustomerNotFound):
		logger.Debug("customer changed during re-encryption, skipping")
		return outcomeSkipped
	case err != nil:
		logger.Warn("failed to store re-encrypted customer email", slog.Any("error", err))
		return outcomeFailed
	}

	logger.Debug("customer email re-encrypted",
		slog.String("from_key_set_id", keySetID),
		slog.String("to_key_set_id", activeID),
	)
	return outcomeReEncrypted
}
