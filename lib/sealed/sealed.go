// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
)

// Keypair is an age x25519 identity and its recipient.
type Keypair struct {
	// PrivateKey is the AGE-SECRET-KEY-1... string.
	PrivateKey string
	// PublicKey is the age1... recipient string.
	PublicKey string
}

// GenerateKeypair creates a new x25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}
	return &Keypair{
		PrivateKey: identity.String(),
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// WriteIdentityFile writes keypair in age-keygen format with mode 0600,
// creating the parent directory with mode 0700.
func WriteIdentityFile(path string, keypair *Keypair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}
	var content strings.Builder
	fmt.Fprintf(&content, "# created: %s\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&content, "# public key: %s\n", keypair.PublicKey)
	fmt.Fprintf(&content, "%s\n", keypair.PrivateKey)
	if err := os.WriteFile(path, []byte(content.String()), 0600); err != nil {
		return fmt.Errorf("writing identity file %s: %w", path, err)
	}
	return nil
}

// ReadIdentityFile reads an age-keygen style identity file.
func ReadIdentityFile(path string) (*Keypair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("parsing identity file %s: %w", path, err)
	}
	for _, identity := range identities {
		if x25519, ok := identity.(*age.X25519Identity); ok {
			return &Keypair{
				PrivateKey: x25519.String(),
				PublicKey:  x25519.Recipient().String(),
			}, nil
		}
	}
	return nil, fmt.Errorf("identity file %s holds no x25519 identity", path)
}

// Seal encrypts plaintext to every recipient and returns base64 text.
func Seal(plaintext []byte, recipientKeys ...string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, errors.New("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(ciphertext.Len()))
	base64.StdEncoding.Encode(encoded, ciphertext.Bytes())
	return encoded, nil
}

// Open decrypts base64 text produced by Seal with privateKey.
func Open(sealed []byte, privateKey string) ([]byte, error) {
	identity, err := age.ParseX25519Identity(privateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	raw := make([]byte, base64.StdEncoding.DecodedLen(len(sealed)))
	length, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(sealed))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 ciphertext: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(raw[:length]), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return plaintext, nil
}
