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

// MySQLCustomerRepository implements Customer persistence for MySQL databases.
// Ids are stored as BINARY(16).
type MySQLCustomerRepository struct {
	db *sql.DB
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLCustomer(row rowScanner) (*customerDomain.Customer, error) {
	var customer customerDomain.Customer
	var id []byte

	if err := row.Scan(
		&id,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := customer.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal customer id")
	}

	return &customer, nil
}

// Create inserts a new customer into the MySQL database.
func (m *MySQLCustomerRepository) Create(ctx context.Context, customer *customerDomain.Customer) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO customers (id, name, email, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := customer.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return m.getOne(ctx, query, id)
}

// GetForUpdate retrieves a customer by id and locks the row for the current transaction.
func (m *MySQLCustomerRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ? FOR UPDATE`
	return m.getOne(ctx, query, id)
}

func (m *MySQLCustomerRepository) getOne(
	ctx context.Context,
	query string,
	id uuid.UUID,
) (*customerDomain.Customer, error) {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	customer, err := scanMySQLCustomer(querier.QueryRowContext(ctx, query, binaryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customerDomain.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get customer")
	}

	return customer, nil
}

// List retrieves customers ordered by id with pagination.
func (m *MySQLCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC LIMIT ? OFFSET ?`
	return m.query(ctx, query, limit, offset)
}

// ListAfter retrieves up to limit customers whose id is greater than afterID.
func (m *MySQLCustomerRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*customerDomain.Customer, error) {
	binaryID, err := afterID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal customer id")
	}

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id > ? ORDER BY id ASC LIMIT ?`
	return m.query(ctx, query, binaryID, limit)
}

func (m *MySQLCustomerRepository) query(
	ctx context.Context,
	query string,
	args ...any,
) ([]*customerDomain.Customer, error) {
	querier := database.GetTx(ctx, m.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list customers")
	}
	defer func() { _ = rows.Close() }()

	customers := make([]*customerDomain.Customer, 0)
	for rows.Next() {
		customer, err := scanMySQLCustomer(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan customer")
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate customers")
	}

	return customers, nil
}

// UpdateEmail replaces the stored email envelope of a customer.
func (m *MySQLCustomerRepository) UpdateEmail(
	ctx context.Context,
	id uuid.UUID,
	email string,
	updatedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	query := `UPDATE customers SET email = ?, updated_at = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, email, updatedAt, binaryID)
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
func (m *MySQLCustomerRepository) Update(ctx context.Context, customer *customerDomain.Customer) error {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := customer.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	query := `UPDATE customers
			  SET name = ?,
			      email = ?,
			      updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Email,
		customer.UpdatedAt,
		binaryID,
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
func (m *MySQLCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	binaryID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal customer id")
	}

	query := `DELETE FROM customers WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, binaryID)
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

// NewMySQLCustomerRepository creates a new MySQL Customer repository instance.
func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}
