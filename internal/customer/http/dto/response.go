package dto

import (
	"time"

	customerDomain "github.com/allisson/keyrotator/internal/customer/domain"
)

// CustomerResponse represents a customer with its decrypted email.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	KeySetID  string    `json:"key_set_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MapProfileToResponse converts a customer profile to an API response.
func MapProfileToResponse(profile *customerDomain.Profile) CustomerResponse {
	return CustomerResponse{
		ID:        profile.ID.String(),
		Name:      profile.Name,
		Email:     profile.Email,
		KeySetID:  profile.KeySetID,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// ListCustomersResponse represents a page of customers.
type ListCustomersResponse struct {
	Data []CustomerResponse `json:"data"`
}

// MapProfilesToListResponse converts customer profiles to a list response.
func MapProfilesToListResponse(profiles []*customerDomain.Profile) ListCustomersResponse {
	data := make([]CustomerResponse, 0, len(profiles))
	for _, profile := range profiles {
		data = append(data, MapProfileToResponse(profile))
	}
	return ListCustomersResponse{Data: data}
}
