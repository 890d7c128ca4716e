// Package repository implements customer persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
	"github.com/allisson/keyrotator/internal/database"
	apperrors "github.com/allisson/keyrotator/internal/errors"
)

const customerColumns = `id, name, email, created_at, updated_at`

// PostgreSQLCustomerRepository implements Customer persistence for PostgreSQL databases.
type PostgreSQLCustomerRepository struct {
	db *sql.DB
}

// Create inserts a new customer into the PostgreSQL database.
func (p *PostgreSQLCustomerRepository) Create(ctx context.Context, customer *customerDomain.Customer) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO customers (id, name, email, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create customer")
	}
	return nil
}

// Get retrieves a customer by id.
func (p *PostgreSQLCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return p.getOne(ctx, query, id)
}

// GetForUpdate retrieves a customer by id and locks the row for the current transaction.
func (p *PostgreSQLCustomerRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	return p.getOne(ctx, query, id)
}

func (p *PostgreSQLCustomerRepository) getOne(
	ctx context.Context,
	query string,
	id uuid.UUID,
) (*customerDomain.Customer, error) {
	querier := database.GetTx(ctx, p.db)

	var customer customerDomain.Customer
	err := querier.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get customer")
	}

	return &customer, nil
}

// List retrieves customers ordered by id with pagination.
func (p *PostgreSQLCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC LIMIT $1 OFFSET $2`
	return p.query(ctx, query, limit, offset)
}

// ListAfter retrieves up to limit customers whose id is greater than afterID.
func (p *PostgreSQLCustomerRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id > $1 ORDER BY id ASC LIMIT $2`
	return p.query(ctx, query, afterID, limit)
}

func (p *PostgreSQLCustomerRepository) query(
	ctx context.Context,
	query string,
	args ...any,
) ([]*customerDomain.Customer, error) {
	querier := database.GetTx(ctx, p.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list customers")
	}
	defer func() { _ = rows.Close() }()

	customers := make([]*customerDomain.Customer, 0)
	for rows.Next() {
		var customer customerDomain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan customer")
		}
		customers = append(customers, &customer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate customers")
	}

	return customers, nil
}

// UpdateEmail replaces the stored email envelope of a customer.
func (p *PostgreSQLCustomerRepository) UpdateEmail(
	ctx context.Context,
	id uuid.UUID,
	email string,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE customers SET email = $1, updated_at = $2 WHERE id = $3`

	result, err := querier.ExecContext(ctx, query, email, updatedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update customer email")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return customerDomain.ErrCustomerNotFound
	}

	return nil
}

// Update replaces the name, email envelope and updated_at of a customer.
func (p *PostgreSQLCustomerRepository) Update(ctx context.Context, customer *customerDomain.Customer) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE customers
			  SET name = $1,
			      email = $2,
			      updated_at = $3
			  WHERE id = $4`

	result, err := querier.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update customer")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return customerDomain.ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer by id.
func (p *PostgreSQLCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM customers WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete customer")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return customerDomain.ErrCustomerNotFound
	}

	return nil
}

// NewPostgreSQLCustomerRepository creates a new PostgreSQL Customer repository instance.
func NewPostgreSQLCustomerRepository(db *sql.DB) *PostgreSQLCustomerRepository {
	return &PostgreSQLCustomerRepository{db: db}
}
