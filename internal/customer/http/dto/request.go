// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// CreateCustomerRequest contains the parameters for creating a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks if the create customer request is valid.
func (r *CreateCustomerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Email,
			validation.Length(3, 320),
		),
	)
}

// UpdateCustomerRequest contains the parameters for replacing a customer's
// name and email.
type UpdateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks if the update customer request is valid.
func (r *UpdateCustomerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Email,
			validation.Length(3, 320),
		),
	)
}

// ReEncryptRequest contains the optional parameters of a re-encryption run.
// A zero BatchSize selects the configured default.
type ReEncryptRequest struct {
	BatchSize int `json:"batch_size"`
}

// Validate checks if the re-encrypt request is valid.
func (r *ReEncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BatchSize, validation.Min(0), validation.Max(10000)),
	)
}
