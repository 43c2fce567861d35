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
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

func TestNewHashUnknownAlgorithm(t *testing.T) {
	h, err := NewHash("whirlpool")
	assert.Nil(t, h)
	assert.ErrorIs(t, err, algorithm.ErrUnknownAlgorithm)
}

func TestHashKnownVectors(t *testing.T) {
	tests := []struct {
		alg  string
		msg  string
		want string
	}{
		{"md5", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha1", "abc", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha512", "abc", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}

	for _, tt := range tests {
		t.Run(tt.alg, func(t *testing.T) {
			h, err := NewHash(tt.alg)
			require.NoError(t, err)
			defer h.Close()

			require.NoError(t, h.Write([]byte(tt.msg)))
			out := make([]byte, h.Size())
			require.NoError(t, h.Final(out))
			assert.Equal(t, tt.want, hex.EncodeToString(out))
		})
	}
}

func TestHashFinalRestartsContext(t *testing.T) {
	h, err := NewHash("sha256")
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Write([]byte("hello")))
	first := make([]byte, h.Size())
	require.NoError(t, h.Final(first))
	want := sha256.Sum256([]byte("hello"))
	assert.Equal(t, want[:], first)

	// The restart leaves an empty message behind, so an immediate second
	// Final matches the digest of no input.
	second := make([]byte, h.Size())
	require.NoError(t, h.Final(second))
	empty := sha256.Sum256(nil)
	assert.Equal(t, empty[:], second)

	// And the context keeps working afterwards.
	require.NoError(t, h.Write([]byte("hello")))
	third := make([]byte, h.Size())
	require.NoError(t, h.Final(third))
	assert.Equal(t, want[:], third)
}

func TestHashStreamingMatchesOneShot(t *testing.T) {
	h, err := NewHash("sha512")
	require.NoError(t, err)
	defer h.Close()

	msg := []byte("the quick brown fox jumps over the lazy dog")
	for _, chunk := range [][]byte{msg[:9], msg[9:10], msg[10:27], msg[27:]} {
		require.NoError(t, h.Write(chunk))
	}

	got := make([]byte, h.Size())
	require.NoError(t, h.Final(got))
	want := sha512.Sum512(msg)
	assert.Equal(t, want[:], got)
}

func TestHashTruncatedOutput(t *testing.T) {
	full := sha256.Sum256([]byte("truncate me"))

	h, err := NewHash("sha256")
	require.NoError(t, err)
	defer h.Close()

	for _, n := range []int{0, 1, 16, 20, 31} {
		require.NoError(t, h.Write([]byte("truncate me")))
		out := make([]byte, n)
		require.NoError(t, h.Final(out))
		assert.Equal(t, full[:n], out, "length %d", n)
	}
}

func TestHashLengthExceeded(t *testing.T) {
	for _, name := range algorithm.Digests() {
		t.Run(name, func(t *testing.T) {
			h, err := NewHash(name)
			require.NoError(t, err)
			defer h.Close()

			require.NoError(t, h.Write([]byte("data")))
			assert.ErrorIs(t, h.Final(make([]byte, h.Size()+1)), ErrLength)

			// The rejection is non-destructive: the bytes written above
			// are still pending.
			got := make([]byte, h.Size())
			require.NoError(t, h.Final(got))

			fresh, err := NewHash(name)
			require.NoError(t, err)
			defer fresh.Close()
			require.NoError(t, fresh.Write([]byte("data")))
			want := make([]byte, fresh.Size())
			require.NoError(t, fresh.Final(want))
			assert.Equal(t, want, got)
		})
	}
}

func TestHashScratchWipedAfterTruncatedFinal(t *testing.T) {
	h, err := NewHash("sha256")
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Write([]byte("secret material")))
	out := make([]byte, 16)
	require.NoError(t, h.Final(out))
	assert.Equal(t, make([]byte, h.Size()), h.scratch, "scratch retains tag bytes")
}

func TestHashUseAfterClose(t *testing.T) {
	h, err := NewHash("sha256")
	require.NoError(t, err)
	require.NoError(t, h.Close())

	assert.ErrorIs(t, h.Write([]byte("x")), ErrDigestFailed)
	assert.ErrorIs(t, h.Final(make([]byte, 32)), ErrDigestFailed)
	assert.NoError(t, h.Close())
}
