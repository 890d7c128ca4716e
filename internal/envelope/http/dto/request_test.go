package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   EncryptRequest
		shouldErr bool
	}{
		{name: "plaintext only", request: EncryptRequest{Plaintext: "alice@example.com"}},
		{name: "with key set", request: EncryptRequest{Plaintext: "x", KeySetID: "AbCd1234"}},
		{name: "delimiter is left to the use case", request: EncryptRequest{Plaintext: "x", KeySetID: "bad.name"}},
		{name: "missing plaintext", request: EncryptRequest{KeySetID: "AbCd1234"}, shouldErr: true},
		{name: "padded key set", request: EncryptRequest{Plaintext: "x", KeySetID: " AbCd1234"}, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvelopeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&EnvelopeRequest{Envelope: "aGk=::a2V5.AbCd1234"}).Validate())
	assert.Error(t, (&EnvelopeRequest{}).Validate())
	assert.Error(t, (&EnvelopeRequest{Envelope: "   "}).Validate())
}
