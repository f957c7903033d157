// Package seal encrypts signed tokens to an identity's registered public key
// using age x25519 recipients. Only the holder of the matching private key
// can recover the plaintext.
package seal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/vendor-auth/auth/auth"
)

// Sealer implements auth.TokenSealer with age x25519 encryption.
// Ciphertext is base64-encoded so it can travel in JSON fields.
type Sealer struct{}

// Seal implements auth.TokenSealer.
//
// The recipient key is parsed before any encryption: absent or malformed key
// material is an input-validation failure (auth.ErrSealingFailed), never a
// cryptographic error.
func (Sealer) Seal(plaintext []byte, publicKey string) (string, error) {
	if publicKey == "" {
		return "", fmt.Errorf("%w: missing public key", auth.ErrSealingFailed)
	}

	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", auth.ErrSealingFailed, err)
	}

	var ciphertext bytes.Buffer

	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return "", fmt.Errorf("sealing token: %w", err)
	}

	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("sealing token: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("sealing token: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext.Bytes()), nil
}

// Open decrypts a sealed token with the recipient's private key.
// It is the holder-side counterpart of Seal.
func Open(ciphertext string, privateKey string) ([]byte, error) {
	identity, err := age.ParseX25519Identity(privateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(raw), identity)
	if err != nil {
		return nil, fmt.Errorf("opening sealed token: %w", err)
	}

	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading sealed token: %w", err)
	}

	return plaintext, nil
}

// GenerateKeypair returns a new x25519 keypair in age string encoding.
// Provisioning stores the public half on the Identity; the private half
// never reaches this system.
func GenerateKeypair() (publicKey string, privateKey string, err error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", fmt.Errorf("generating keypair: %w", err)
	}

	return identity.Recipient().String(), identity.String(), nil
}
