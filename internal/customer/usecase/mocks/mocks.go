// Package mocks provides mock implementations of the customer use case
// interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
)

// MockCustomerRepository is a mock implementation of CustomerRepository for testing.
type MockCustomerRepository struct {
	mock.Mock
}

// Create mocks the Create method of CustomerRepository.
func (m *MockCustomerRepository) Create(ctx context.Context, customer *customerDomain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// Get mocks the Get method of CustomerRepository.
func (m *MockCustomerRepository) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Customer), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method of CustomerRepository.
func (m *MockCustomerRepository) GetForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*customerDomain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Customer), args.Error(1)
}

// List mocks the List method of CustomerRepository.
func (m *MockCustomerRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*customerDomain.Customer, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customerDomain.Customer), args.Error(1)
}

// ListAfter mocks the ListAfter method of CustomerRepository.
func (m *MockCustomerRepository) ListAfter(
	ctx context.Context,
	afterID uuid.UUID,
	limit int,
) ([]*customerDomain.Customer, error) {
	args := m.Called(ctx, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customerDomain.Customer), args.Error(1)
}

// UpdateEmail mocks the UpdateEmail method of CustomerRepository.
func (m *MockCustomerRepository) UpdateEmail(
	ctx context.Context,
	id uuid.UUID,
	email string,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, id, email, updatedAt)
	return args.Error(0)
}

// Update mocks the Update method of CustomerRepository.
func (m *MockCustomerRepository) Update(ctx context.Context, customer *customerDomain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// Delete mocks the Delete method of CustomerRepository.
func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerUseCase is a mock implementation of CustomerUseCase for testing.
type MockCustomerUseCase struct {
	mock.Mock
}

// Create mocks the Create method of CustomerUseCase.
func (m *MockCustomerUseCase) Create(ctx context.Context, name, email string) (*customerDomain.Profile, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Profile), args.Error(1)
}

// Get mocks the Get method of CustomerUseCase.
func (m *MockCustomerUseCase) Get(ctx context.Context, id uuid.UUID) (*customerDomain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Profile), args.Error(1)
}

// List mocks the List method of CustomerUseCase.
func (m *MockCustomerUseCase) List(ctx context.Context, offset, limit int) ([]*customerDomain.Profile, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*customerDomain.Profile), args.Error(1)
}

// Update mocks the Update method of CustomerUseCase.
func (m *MockCustomerUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	name, email string,
) (*customerDomain.Profile, error) {
	args := m.Called(ctx, id, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.Profile), args.Error(1)
}

// Delete mocks the Delete method of CustomerUseCase.
func (m *MockCustomerUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ReEncrypt mocks the ReEncrypt method of CustomerUseCase.
func (m *MockCustomerUseCase) ReEncrypt(
	ctx context.Context,
	batchSize int,
) (*customerDomain.ReEncryptReport, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerDomain.ReEncryptReport), args.Error(1)
}
