package service

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

// PEM block types written to key files.
const (
	PublicKeyBlockType        = "RSA PUBLIC KEY"
	PrivateKeyBlockType       = "RSA PRIVATE KEY"
	SealedPrivateKeyBlockType = "SEALED RSA PRIVATE KEY"
)

// pemCodec encodes RSA keys as PKCS#1 PEM. When a keeper is configured, private
// keys are written as a SEALED RSA PRIVATE KEY block holding the keeper
// ciphertext of the PKCS#1 DER. Both private forms are accepted on read.
type pemCodec struct {
	keeper Keeper
}

// NewPEMCodec creates a KeyCodec. keeper may be nil to store private keys in
// plain PKCS#1 PEM.
func NewPEMCodec(keeper Keeper) KeyCodec {
	return &pemCodec{keeper: keeper}
}

// EncodePublicKey returns the PKCS#1 PEM encoding of publicKey.
func (c *pemCodec) EncodePublicKey(publicKey *rsa.PublicKey) ([]byte, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: nil public key", keysetDomain.ErrInvalidKeyMaterial)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  PublicKeyBlockType,
		Bytes: x509.MarshalPKCS1PublicKey(publicKey),
	}), nil
}

// EncodePrivateKey returns the PEM encoding of privateKey, sealed when a keeper
// is configured.
func (c *pemCodec) EncodePrivateKey(ctx context.Context, privateKey *rsa.PrivateKey) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: nil private key", keysetDomain.ErrInvalidKeyMaterial)
	}

	der := x509.MarshalPKCS1PrivateKey(privateKey)
	defer keysetDomain.Zero(der)

	if c.keeper == nil {
		return pem.EncodeToMemory(&pem.Block{Type: PrivateKeyBlockType, Bytes: der}), nil
	}

	sealed, err := c.keeper.Encrypt(ctx, der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to seal private key: %v", keysetDomain.ErrEncryptionFailed, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: SealedPrivateKeyBlockType, Bytes: sealed}), nil
}

// DecodePublicKey parses a PKCS#1 or PKIX public key PEM.
func (c *pemCodec) DecodePublicKey(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", keysetDomain.ErrInvalidKeyMaterial)
	}

	switch block.Type {
	case PublicKeyBlockType:
		publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", keysetDomain.ErrInvalidKeyMaterial, err)
		}
		return publicKey, nil
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", keysetDomain.ErrInvalidKeyMaterial, err)
		}
		publicKey, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: not an RSA public key", keysetDomain.ErrInvalidKeyMaterial)
		}
		return publicKey, nil
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", keysetDomain.ErrInvalidKeyMaterial, block.Type)
	}
}

// DecodePrivateKey parses a plain or sealed private key PEM.
func (c *pemCodec) DecodePrivateKey(ctx context.Context, data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", keysetDomain.ErrInvalidKeyMaterial)
	}

	der := block.Bytes
	switch block.Type {
	case PrivateKeyBlockType:
	case SealedPrivateKeyBlockType:
		if c.keeper == nil {
			return nil, fmt.Errorf("%w: private key is sealed but no KMS key is configured",
				keysetDomain.ErrInvalidKeyMaterial)
		}
		unsealed, err := c.keeper.Decrypt(ctx, block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to unseal private key: %v", keysetDomain.ErrDecryptionFailed, err)
		}
		defer keysetDomain.Zero(unsealed)
		der = unsealed
	default:
		return nil, fmt.Errorf("%w: unexpected PEM block %q", keysetDomain.ErrInvalidKeyMaterial, block.Type)
	}

	privateKey, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", keysetDomain.ErrInvalidKeyMaterial, err)
	}
	return privateKey, nil
}
