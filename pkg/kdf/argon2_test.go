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

package kdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

// Fast cost parameters for tests. Production parameters come from
// benchmark-driven calibration, not from here.
const (
	testArgonTime    = 2
	testArgonMemory  = 1024
	testArgonThreads = 4
)

func testArgonParams(family string) *Params {
	return &Params{
		Family:      family,
		Iterations:  testArgonTime,
		Memory:      testArgonMemory,
		Parallelism: testArgonThreads,
	}
}

func TestArgon2idMatchesReference(t *testing.T) {
	password := []byte("password")
	salt := []byte("somesalt")

	key := make([]byte, 32)
	require.NoError(t, Derive(testArgonParams(FamilyArgon2id), password, salt, key))

	want := argon2.IDKey(password, salt, testArgonTime, testArgonMemory, testArgonThreads, 32)
	assert.Equal(t, want, key)
}

func TestArgon2iMatchesReference(t *testing.T) {
	password := []byte("password")
	salt := []byte("somesalt")

	key := make([]byte, 32)
	require.NoError(t, Derive(testArgonParams(FamilyArgon2i), password, salt, key))

	want := argon2.Key(password, salt, testArgonTime, testArgonMemory, testArgonThreads, 32)
	assert.Equal(t, want, key)
}

func TestArgon2Deterministic(t *testing.T) {
	password := []byte("password")
	salt := []byte("somesalt")

	a := make([]byte, 64)
	b := make([]byte, 64)
	require.NoError(t, Derive(testArgonParams(FamilyArgon2id), password, salt, a))
	require.NoError(t, Derive(testArgonParams(FamilyArgon2id), password, salt, b))
	assert.Equal(t, a, b)
}

func TestArgon2VariantsDiffer(t *testing.T) {
	password := []byte("password")
	salt := []byte("somesalt")

	i := make([]byte, 32)
	id := make([]byte, 32)
	require.NoError(t, Derive(testArgonParams(FamilyArgon2i), password, salt, i))
	require.NoError(t, Derive(testArgonParams(FamilyArgon2id), password, salt, id))
	assert.NotEqual(t, i, id)
}

func TestArgon2CostSensitivity(t *testing.T) {
	password := []byte("password")
	salt := []byte("somesalt")

	base := make([]byte, 32)
	require.NoError(t, Derive(testArgonParams(FamilyArgon2id), password, salt, base))

	moreMemory := testArgonParams(FamilyArgon2id)
	moreMemory.Memory = testArgonMemory * 2
	other := make([]byte, 32)
	require.NoError(t, Derive(moreMemory, password, salt, other))
	assert.NotEqual(t, base, other)
}

func TestArgon2CostValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"zero time", func(p *Params) { p.Iterations = 0 }, ErrInvalidIterations},
		{"zero threads", func(p *Params) { p.Parallelism = 0 }, ErrInvalidThreads},
		{"threads beyond field", func(p *Params) { p.Parallelism = 256 }, ErrInvalidThreads},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testArgonParams(FamilyArgon2id)
			tt.mutate(params)
			err := Derive(params, []byte("pw"), []byte("salt"), make([]byte, 32))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestArgon2UnimplementedVariants(t *testing.T) {
	for _, family := range []string{"argon2", "argon2d", "argon2x"} {
		params := testArgonParams(family)
		err := Derive(params, []byte("pw"), []byte("salt"), make([]byte, 32))
		assert.ErrorIs(t, err, ErrUnsupportedKdf, "family %q", family)
	}
}

func TestArgon2LowMemoryClamped(t *testing.T) {
	// x/crypto clamps memory below 8*threads instead of failing; the
	// dispatcher passes that behavior through.
	params := testArgonParams(FamilyArgon2id)
	params.Memory = 1

	key := make([]byte, 32)
	require.NoError(t, Derive(params, []byte("pw"), []byte("salt"), key))

	want := argon2.IDKey([]byte("pw"), []byte("salt"), testArgonTime, 1, testArgonThreads, 32)
	assert.Equal(t, want, key)
}
