package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
	"github.com/allisson/keyrotator/internal/testutil"
)

func binaryID(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLCustomerRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)
		customer := newTestCustomer()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers (id, name, email, created_at, updated_at)")).
			WithArgs(binaryID(t, customer.ID), customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, customer))
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec("INSERT INTO customers").WillReturnError(errors.New("duplicate entry"))

		err := repo.Create(ctx, newTestCustomer())
		assert.ErrorContains(t, err, "failed to create customer")
	})
}

func TestMySQLCustomerRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)
		customer := newTestCustomer()

		mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = ?")).
			WithArgs(binaryID(t, customer.ID)).
			WillReturnRows(sqlmock.NewRows(customerRowColumns).AddRow(
				binaryID(t, customer.ID), customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt,
			))

		got, err := repo.Get(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectQuery("FROM customers WHERE id").WillReturnRows(sqlmock.NewRows(customerRowColumns))

		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
	})

	t.Run("InvalidStoredID", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)
		now := time.Now().UTC()

		mock.ExpectQuery("FROM customers WHERE id").
			WillReturnRows(sqlmock.NewRows(customerRowColumns).AddRow([]byte{1, 2, 3}, "Bob", "x", now, now))

		_, err := repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorContains(t, err, "failed to unmarshal customer id")
	})
}

func TestMySQLCustomerRepository_ListAfter(t *testing.T) {
	ctx := context.Background()
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLCustomerRepository(db)
	customer := newTestCustomer()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id > ? ORDER BY id ASC LIMIT ?")).
		WithArgs(binaryID(t, uuid.Nil), 2).
		WillReturnRows(sqlmock.NewRows(customerRowColumns).AddRow(
			binaryID(t, customer.ID), customer.Name, customer.Email, customer.CreatedAt, customer.UpdatedAt,
		))

	customers, err := repo.ListAfter(ctx, uuid.Nil, 2)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, customer.ID, customers[0].ID)
}

func TestMySQLCustomerRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock := testutil.NewSQLMock(t)
	repo := NewMySQLCustomerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC LIMIT ? OFFSET ?")).
		WithArgs(50, 0).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.List(ctx, 0, 50)
	assert.ErrorContains(t, err, "failed to list customers")
}

func TestMySQLCustomerRepository_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET email = ?, updated_at = ? WHERE id = ?")).
			WithArgs("bmV3::a2V5.Zz9Yy8Xx", now, binaryID(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateEmail(ctx, id, "bmV3::a2V5.Zz9Yy8Xx", now))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec("UPDATE customers").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateEmail(ctx, id, "x", now)
		assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
	})
}

func TestMySQLCustomerRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)
		customer := newTestCustomer()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE customers SET name = ?, email = ?, updated_at = ? WHERE id = ?")).
			WithArgs(customer.Name, customer.Email, customer.UpdatedAt, binaryID(t, customer.ID)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, customer))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec("UPDATE customers").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, newTestCustomer())
		assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
	})
}

func TestMySQLCustomerRepository_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = ?")).
			WithArgs(binaryID(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, id))
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec("DELETE FROM customers").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, customerDomain.ErrCustomerNotFound)
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := testutil.NewSQLMock(t)
		repo := NewMySQLCustomerRepository(db)

		mock.ExpectExec("DELETE FROM customers").WillReturnError(errors.New("lock wait timeout"))

		err := repo.Delete(ctx, id)
		assert.ErrorContains(t, err, "failed to delete customer")
	})
}
