// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/keyrotator/internal/validation"
)

// ListKeySetsQuery holds the query parameters of the list endpoint.
type ListKeySetsQuery struct {
	Stage string `form:"stage,default=active"`
}

// Validate checks if the list query is valid.
func (q *ListKeySetsQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Stage,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.Stage,
		),
	)
}
