// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
	"gopkg.in/yaml.v3"
)

// Encrypted configuration files are stored as a small yaml envelope.
// The key is derived from the password using argon2id, the payload is
// sealed using XChaCha20-Poly1305.
type encryptedEnvelope struct {
	Encrypted bool   `yaml:"encrypted"`
	Salt      []byte `yaml:"salt"`
	Nonce     []byte `yaml:"nonce"`
	Data      []byte `yaml:"data"`
}

const envelopeSaltLength = 16

// Interactive argon2id parameters as recommended by RFC 9106.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var ErrPasswordRequired = errors.New("the configuration file is encrypted, a password is required")
var ErrInvalidPassword = errors.New("invalid password or corrupted configuration file")

func deriveEnvelopeKey(pw string, salt []byte) []byte {
	return argon2.IDKey([]byte(pw), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
}

func encryptEnvelope(pw string, plain []byte) ([]byte, error) {
	salt := make([]byte, envelopeSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate configuration salt: %v", err)
	}
	aead, err := chacha20poly1305.NewX(deriveEnvelopeKey(pw, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize configuration encryption: %v", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate configuration nonce: %v", err)
	}
	envelope := encryptedEnvelope{
		Encrypted: true,
		Salt:      salt,
		Nonce:     nonce,
		Data:      aead.Seal(nil, nonce, plain, nil),
	}
	return yaml.Marshal(&envelope)
}

// decryptEnvelope returns the plain configuration data.
// Files which are not wrapped in an envelope are returned unchanged.
func decryptEnvelope(pw string, file []byte) (plain []byte, wasEncrypted bool, err error) {
	var envelope encryptedEnvelope
	if err := yaml.Unmarshal(file, &envelope); err != nil || !envelope.Encrypted {
		return file, false, nil
	}
	if len(pw) == 0 {
		return nil, true, ErrPasswordRequired
	}
	aead, err := chacha20poly1305.NewX(deriveEnvelopeKey(pw, envelope.Salt))
	if err != nil {
		return nil, true, fmt.Errorf("failed to initialize configuration decryption: %v", err)
	}
	if len(envelope.Nonce) != aead.NonceSize() {
		return nil, true, ErrInvalidPassword
	}
	plain, err = aead.Open(nil, envelope.Nonce, envelope.Data, nil)
	if err != nil {
		return nil, true, ErrInvalidPassword
	}
	return plain, true, nil
}
