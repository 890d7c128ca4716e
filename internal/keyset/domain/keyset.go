// Package domain defines the key set model, its lifecycle stages and the pure
// functions that decide how staged key sets are grouped and promoted.
//
// A key set is one RSA key pair plus an RSA-wrapped symmetric key and IV, named
// by an 8-character identifier and stored as three files:
//
//	{id}.der          RSA-wrapped "base64(key).base64(iv)"
//	{id}.public.pem   RSA public key
//	{id}.private.pem  RSA private key
//
// Key sets move staging (update/) -> active (current/) -> retired (history/).
// Nothing in this package touches the filesystem; callers pass directory
// listings in as FileEntry slices.
package domain

import (
	"path/filepath"
	"time"
)

// FileEntry is one regular file observed in a stage directory.
type FileEntry struct {
	Name    string
	ModTime time.Time
}

// KeySet is a complete key set found in one stage directory.
type KeySet struct {
	ID             string    `json:"id"`
	Stage          Stage     `json:"stage"`
	Dir            string    `json:"-"`
	WrappedKeyFile string    `json:"wrapped_key_file"`
	PublicKeyFile  string    `json:"public_key_file"`
	PrivateKeyFile string    `json:"private_key_file"`
	CreatedAt      time.Time `json:"created_at"`
}

// WrappedKeyPath returns the location of the wrapped symmetric key blob.
func (k KeySet) WrappedKeyPath() string {
	return filepath.Join(k.Dir, k.WrappedKeyFile)
}

// PublicKeyPath returns the location of the RSA public key PEM.
func (k KeySet) PublicKeyPath() string {
	return filepath.Join(k.Dir, k.PublicKeyFile)
}

// PrivateKeyPath returns the location of the RSA private key PEM.
func (k KeySet) PrivateKeyPath() string {
	return filepath.Join(k.Dir, k.PrivateKeyFile)
}

// Files returns the three file names in wrapped key, public, private order.
func (k KeySet) Files() []string {
	return []string{k.WrappedKeyFile, k.PublicKeyFile, k.PrivateKeyFile}
}

// CanonicalFiles returns the file names a key set with this identifier has once
// promoted: {id}.der, {id}.public.pem and {id}.private.pem.
func CanonicalFiles(id string) (wrappedKey, publicKey, privateKey string) {
	return id + WrappedKeyExtension, id + PublicKeySuffix, id + PrivateKeySuffix
}
