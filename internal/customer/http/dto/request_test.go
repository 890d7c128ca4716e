package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCustomerRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateCustomerRequest
		wantErr bool
	}{
		{
			name:    "valid",
			request: CreateCustomerRequest{Name: "Alice", Email: "alice@example.com"},
		},
		{
			name:    "missing name",
			request: CreateCustomerRequest{Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "blank name",
			request: CreateCustomerRequest{Name: "   ", Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "name too long",
			request: CreateCustomerRequest{Name: strings.Repeat("a", 256), Email: "alice@example.com"},
			wantErr: true,
		},
		{
			name:    "invalid email",
			request: CreateCustomerRequest{Name: "Alice", Email: "not-an-email"},
			wantErr: true,
		},
		{
			name:    "email with surrounding whitespace",
			request: CreateCustomerRequest{Name: "Alice", Email: " alice@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReEncryptRequest_Validate(t *testing.T) {
	assert.NoError(t, (&ReEncryptRequest{}).Validate())
	assert.NoError(t, (&ReEncryptRequest{BatchSize: 500}).Validate())
	assert.Error(t, (&ReEncryptRequest{BatchSize: -1}).Validate())
	assert.Error(t, (&ReEncryptRequest{BatchSize: 10001}).Validate())
}

func TestUpdateCustomerRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateCustomerRequest{Name: "Alice", Email: "alice@example.com"}).Validate())
	assert.Error(t, (&UpdateCustomerRequest{Name: "Alice"}).Validate())
	assert.Error(t, (&UpdateCustomerRequest{Name: " ", Email: "alice@example.com"}).Validate())
	assert.Error(t, (&UpdateCustomerRequest{Name: "Alice", Email: "alice@example.com "}).Validate())
}
