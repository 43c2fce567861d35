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

package digest

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

func TestNewHMACUnknownAlgorithm(t *testing.T) {
	m, err := NewHMAC("whirlpool", []byte("key"))
	assert.Nil(t, m)
	assert.ErrorIs(t, err, algorithm.ErrUnknownAlgorithm)
}

// Vectors from RFC 4231.
func TestHMACKnownVectors(t *testing.T) {
	tests := []struct {
		name string
		alg  string
		key  []byte
		msg  string
		want string
	}{
		{
			"case 1 sha256", "sha256",
			bytes.Repeat([]byte{0x0b}, 20), "Hi There",
			"b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7",
		},
		{
			"case 1 sha512", "sha512",
			bytes.Repeat([]byte{0x0b}, 20), "Hi There",
			"87aa7cdea5ef619d4ff0b4241a1d6cb02379f4e2ce4ec2787ad0b30545e17cdedaa833b7d6b8a702038b274eaea3f4e4be9d914eeb61f1702e696c203a126854",
		},
		{
			"case 2 sha256", "sha256",
			[]byte("Jefe"), "what do ya want for nothing?",
			"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewHMAC(tt.alg, tt.key)
			require.NoError(t, err)
			defer m.Close()

			require.NoError(t, m.Write([]byte(tt.msg)))
			out := make([]byte, m.Size())
			require.NoError(t, m.Final(out))
			assert.Equal(t, tt.want, hex.EncodeToString(out))
		})
	}
}

func TestHMACFinalRetainsKey(t *testing.T) {
	key := []byte("0123456789abcdef")
	m, err := NewHMAC("sha256", key)
	require.NoError(t, err)
	defer m.Close()

	tag := func(msg string) []byte {
		t.Helper()
		require.NoError(t, m.Write([]byte(msg)))
		out := make([]byte, m.Size())
		require.NoError(t, m.Final(out))
		return out
	}

	first := tag("message one")
	second := tag("message one")
	assert.Equal(t, first, second, "restart must re-arm the original key")

	ref := hmac.New(sha256.New, key)
	ref.Write([]byte("message one"))
	assert.Equal(t, ref.Sum(nil), first)

	// A different message through the restarted context still matches a
	// fresh reference MAC under the same key.
	ref2 := hmac.New(sha256.New, key)
	ref2.Write([]byte("message two"))
	assert.Equal(t, ref2.Sum(nil), tag("message two"))
}

func TestHMACIndependentOfCallerKeyBuffer(t *testing.T) {
	key := []byte("throwaway key bytes")
	ref := hmac.New(sha256.New, key)
	ref.Write([]byte("payload"))
	want := ref.Sum(nil)

	m, err := NewHMAC("sha256", key)
	require.NoError(t, err)
	defer m.Close()

	// The caller is free to wipe its key once the context exists.
	for i := range key {
		key[i] = 0
	}

	require.NoError(t, m.Write([]byte("payload")))
	got := make([]byte, m.Size())
	require.NoError(t, m.Final(got))
	assert.Equal(t, want, got)
}

func TestHMACTruncatedOutput(t *testing.T) {
	key := []byte("trunc key")
	ref := hmac.New(sha256.New, key)
	ref.Write([]byte("data"))
	full := ref.Sum(nil)

	m, err := NewHMAC("sha256", key)
	require.NoError(t, err)
	defer m.Close()

	for _, n := range []int{0, 1, 12, 16, 31} {
		require.NoError(t, m.Write([]byte("data")))
		out := make([]byte, n)
		require.NoError(t, m.Final(out))
		assert.Equal(t, full[:n], out, "length %d", n)
	}
}

func TestHMACLengthExceeded(t *testing.T) {
	m, err := NewHMAC("sha256", []byte("key"))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Write([]byte("data")))
	assert.ErrorIs(t, m.Final(make([]byte, m.Size()+1)), ErrLength)

	// Still keyed and still holding the pending message.
	got := make([]byte, m.Size())
	require.NoError(t, m.Final(got))

	ref := hmac.New(sha256.New, []byte("key"))
	ref.Write([]byte("data"))
	assert.Equal(t, ref.Sum(nil), got)
}

func TestHMACScratchWipedAfterTruncatedFinal(t *testing.T) {
	m, err := NewHMAC("sha256", []byte("key"))
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Write([]byte("secret material")))
	out := make([]byte, 12)
	require.NoError(t, m.Final(out))
	assert.Equal(t, make([]byte, m.Size()), m.scratch, "scratch retains tag bytes")
}

func TestHMACUseAfterClose(t *testing.T) {
	m, err := NewHMAC("sha256", []byte("key"))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Write([]byte("x")), ErrDigestFailed)
	assert.ErrorIs(t, m.Final(make([]byte, 32)), ErrDigestFailed)
	assert.NoError(t, m.Close())
}
