package dto

import (
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// KeySetResponse represents a key set in API responses. Key material is never included.
type KeySetResponse struct {
	ID        string    `json:"id"`
	Stage     string    `json:"stage"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// MapKeySetToResponse converts a domain key set to an API response.
func MapKeySetToResponse(keySet *keysetDomain.KeySet) KeySetResponse {
	return KeySetResponse{
		ID:        keySet.ID,
		Stage:     string(keySet.Stage),
		Files:     keySet.Files(),
		CreatedAt: keySet.CreatedAt,
	}
}

// ListKeySetsResponse represents a list of key sets in API responses.
type ListKeySetsResponse struct {
	Data []KeySetResponse `json:"data"`
}

// MapKeySetsToListResponse converts domain key sets to a list response.
func MapKeySetsToListResponse(keySets []keysetDomain.KeySet) ListKeySetsResponse {
	data := make([]KeySetResponse, 0, len(keySets))
	for i := range keySets {
		data = append(data, MapKeySetToResponse(&keySets[i]))
	}
	return ListKeySetsResponse{Data: data}
}

// ActiveKeySetResponse is returned by the active key set endpoint.
type ActiveKeySetResponse struct {
	ID string `json:"id"`
}

// RotationResponse is returned by the rotate endpoint.
type RotationResponse struct {
	*keysetDomain.RotationReport
	Promoted []string `json:"promoted"`
	Degraded bool     `json:"degraded"`
}

// MapRotationReportToResponse converts a rotation report to an API response.
func MapRotationReportToResponse(report *keysetDomain.RotationReport) RotationResponse {
	promoted := report.Promoted()
	if promoted == nil {
		promoted = []string{}
	}
	return RotationResponse{
		RotationReport: report,
		Promoted:       promoted,
		Degraded:       report.Degraded(),
	}
}
