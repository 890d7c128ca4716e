package commands

import (
	"context"
	"fmt"
	"io"

	envelopeDTO "github.com/allisson/keyrotator/internal/envelope/http/dto"
	envelopeUseCase "github.com/allisson/keyrotator/internal/envelope/usecase"
	keysetUseCase "github.com/allisson/keyrotator/internal/keyset/usecase"
)

// RunEncrypt encrypts plaintext into an envelope. An empty keySetID selects
// the active key set.
func RunEncrypt(
	ctx context.Context,
	envelopes envelopeUseCase.EnvelopeUseCase,
	keySets keysetUseCase.KeySetUseCase,
	writer io.Writer,
	plaintext, keySetID, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if keySetID == "" {
		activeID, err := keySets.CurrentActiveIdentifier(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve active key set: %w", err)
		}
		keySetID = activeID
	}

	envelope, err := envelopes.Encrypt(ctx, plaintext, keySetID)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, envelopeDTO.EncryptResponse{Envelope: envelope, KeySetID: keySetID})
	}

	_, err = fmt.Fprintln(writer, envelope)
	return err
}

// RunDecrypt decrypts an envelope produced by RunEncrypt or the API.
func RunDecrypt(
	ctx context.Context,
	envelopes envelopeUseCase.EnvelopeUseCase,
	writer io.Writer,
	envelope, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plaintext, err := envelopes.Decrypt(ctx, envelope)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}

	if format == "json" {
		keySetID, err := envelopes.IdentifierOf(ctx, envelope)
		if err != nil {
			return fmt.Errorf("failed to read key set identifier: %w", err)
		}
		return writeJSON(writer, envelopeDTO.DecryptResponse{Plaintext: plaintext, KeySetID: keySetID})
	}

	_, err = fmt.Fprintln(writer, plaintext)
	return err
}
