// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-crypto-backend.
//
// go-crypto-backend is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package algorithm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCipherSupportedMatrix(t *testing.T) {
	tests := []struct {
		mode    Mode
		keySize int
		bits    int
		ivSize  int
		display string
		kernel  string
	}{
		{ModeXTS, 32, 128, 16, "aes-128-xts", "xts(aes)"},
		{ModeXTS, 64, 256, 16, "aes-256-xts", "xts(aes)"},
		{ModeCBC, 16, 128, 16, "aes-128-cbc", "cbc(aes)"},
		{ModeCBC, 24, 192, 16, "aes-192-cbc", "cbc(aes)"},
		{ModeCBC, 32, 256, 16, "aes-256-cbc", "cbc(aes)"},
		{ModeECB, 16, 128, 0, "aes-128-ecb", "ecb(aes)"},
		{ModeECB, 24, 192, 0, "aes-192-ecb", "ecb(aes)"},
		{ModeECB, 32, 256, 0, "aes-256-ecb", "ecb(aes)"},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			suite, err := ResolveCipher("aes", tt.mode, tt.keySize)
			require.NoError(t, err)
			require.NotNil(t, suite)

			assert.Equal(t, "aes", suite.Name())
			assert.Equal(t, tt.mode, suite.Mode())
			assert.Equal(t, tt.keySize, suite.KeySize())
			assert.Equal(t, tt.bits, suite.Bits())
			assert.Equal(t, tt.ivSize, suite.IVSize())
			assert.Equal(t, 16, suite.BlockSize())
			assert.Equal(t, tt.display, suite.String())
			assert.Equal(t, tt.kernel, suite.KernelName())
		})
	}
}

func TestResolveCipherRejectsUnknownName(t *testing.T) {
	for _, name := range []string{"serpent", "twofish", "AES", ""} {
		_, err := ResolveCipher(name, ModeXTS, 64)
		assert.ErrorIs(t, err, ErrUnsupportedAlgorithm, "name %q", name)
	}
}

func TestResolveCipherRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name    string
		mode    Mode
		keySize int
	}{
		{"xts key 16", ModeXTS, 16},
		{"xts key 24", ModeXTS, 24},
		{"xts key 48", ModeXTS, 48},
		{"xts key 0", ModeXTS, 0},
		{"cbc key 0", ModeCBC, 0},
		{"cbc key 20", ModeCBC, 20},
		{"cbc key 64", ModeCBC, 64},
		{"ecb key 12", ModeECB, 12},
		{"ecb key 48", ModeECB, 48},
		{"unknown mode", Mode("gcm"), 32},
		{"empty mode", Mode(""), 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite, err := ResolveCipher("aes", tt.mode, tt.keySize)
			assert.Nil(t, suite)
			assert.ErrorIs(t, err, ErrUnsupportedParameters)
		})
	}
}
