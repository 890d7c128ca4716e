// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// EncryptRequest contains the parameters for encrypting a value.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"`
	// KeySetID selects an active key set. Empty means the current active one.
	KeySetID string `json:"key_set_id,omitempty"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
		),
		validation.Field(&r.KeySetID,
			customValidation.NoWhitespace,
		),
	)
}

// EnvelopeRequest carries one envelope string for decrypt and identifier lookups.
type EnvelopeRequest struct {
	Envelope string `json:"envelope"`
}

// Validate checks if the envelope request is valid.
func (r *EnvelopeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Envelope,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
