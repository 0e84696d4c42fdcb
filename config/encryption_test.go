// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	plain := []byte("fileversion: 1\nsymbol: SPY\n")
	file, err := encryptEnvelope("secret password", plain)
	require.NoError(t, err)
	assert.NotContains(t, string(file), "SPY")

	decrypted, wasEncrypted, err := decryptEnvelope("secret password", file)
	require.NoError(t, err)
	assert.True(t, wasEncrypted)
	assert.Equal(t, plain, decrypted)
}

func TestEnvelopeWrongPassword(t *testing.T) {
	file, err := encryptEnvelope("secret password", []byte("symbol: SPY\n"))
	require.NoError(t, err)

	_, wasEncrypted, err := decryptEnvelope("wrong password", file)
	assert.True(t, wasEncrypted)
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEnvelopeMissingPassword(t *testing.T) {
	file, err := encryptEnvelope("secret password", []byte("symbol: SPY\n"))
	require.NoError(t, err)

	_, wasEncrypted, err := decryptEnvelope("", file)
	assert.True(t, wasEncrypted)
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestEnvelopePlainFilePassesThrough(t *testing.T) {
	plain := []byte("fileversion: 1\nsymbol: SPY\n")
	decrypted, wasEncrypted, err := decryptEnvelope("secret password", plain)
	require.NoError(t, err)
	assert.False(t, wasEncrypted)
	assert.Equal(t, plain, decrypted)
}

func TestEnvelopeUniqueSaltAndNonce(t *testing.T) {
	plain := []byte("symbol: SPY\n")
	first, err := encryptEnvelope("secret password", plain)
	require.NoError(t, err)
	second, err := encryptEnvelope("secret password", plain)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
