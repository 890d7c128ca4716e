package validation

import (
	validation "github.com/jellydator/validation"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// Stage validates that a string names a key set lifecycle stage, either as
// "staging|active|retired" or as its directory "update|current|history".
var Stage = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_stage_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := keysetDomain.ParseStage(s); err != nil {
		return validation.NewError("validation_stage", "must be one of staging, active or retired")
	}
	return nil
})
