package dto

// EncryptResponse is returned by the encrypt endpoint.
type EncryptResponse struct {
	Envelope string `json:"envelope"`
	KeySetID string `json:"key_set_id"`
}

// DecryptResponse is returned by the decrypt endpoint.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
	KeySetID  string `json:"key_set_id"`
}

// IdentifierResponse is returned by the identifier endpoint.
type IdentifierResponse struct {
	KeySetID string `json:"key_set_id"`
}
