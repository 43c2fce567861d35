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

// Package kdf dispatches password-based key derivation by family name.
//
// The family travels verbatim from volume metadata, so it stays a plain
// string rather than an enum: "pbkdf2" selects PBKDF2 with a configurable
// PRF digest, and names carrying the "argon2" prefix select the matching
// Argon2 variant. Derived key material is written into the caller's buffer;
// any intermediate staging buffer is wiped before Derive returns.
package kdf

import (
	"errors"
	"fmt"
	"strings"
)

// Derivation family names.
const (
	FamilyPBKDF2   = "pbkdf2"
	FamilyArgon2i  = "argon2i"
	FamilyArgon2id = "argon2id"
)

// Params carries the construction and cost parameters for one derivation.
type Params struct {
	// Family selects the derivation function: FamilyPBKDF2 or a name with
	// the "argon2" prefix.
	Family string

	// Hash names the PRF digest for pbkdf2. Ignored by argon2.
	Hash string

	// Iterations is the pbkdf2 iteration count or the argon2 time cost.
	Iterations uint32

	// Memory is the argon2 memory cost in KiB. Ignored by pbkdf2.
	Memory uint32

	// Parallelism is the argon2 lane count, at most 255. Ignored by pbkdf2.
	Parallelism uint32
}

var (
	// ErrUnsupportedKdf is returned when the family names no derivation
	// function this backend implements.
	ErrUnsupportedKdf = errors.New("kdf: unsupported key derivation function")

	// ErrInvalidIterations is returned for a zero iteration or time cost.
	ErrInvalidIterations = errors.New("kdf: invalid iteration count")

	// ErrInvalidThreads is returned when the argon2 lane count is zero or
	// does not fit the algorithm's 8-bit parallelism field.
	ErrInvalidThreads = errors.New("kdf: invalid thread count")

	// ErrInvalidKeyLength is returned for an empty output buffer.
	ErrInvalidKeyLength = errors.New("kdf: invalid key length")
)

// Derive fills key with material derived from password and salt according
// to params. The output length is len(key).
//
// Unknown families fail with ErrUnsupportedKdf. A pbkdf2 derivation with an
// unknown PRF digest fails with algorithm.ErrUnknownAlgorithm. Cost
// parameters are validated up front so an invalid request can never panic
// the underlying implementation.
func Derive(params *Params, password, salt, key []byte) error {
	if params == nil {
		return fmt.Errorf("%w: nil parameters", ErrUnsupportedKdf)
	}

	var derive func(*Params, []byte, []byte, []byte) error
	switch {
	case params.Family == FamilyPBKDF2:
		derive = derivePBKDF2
	case strings.HasPrefix(params.Family, "argon2"):
		derive = deriveArgon2
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKdf, params.Family)
	}

	if len(key) == 0 {
		return ErrInvalidKeyLength
	}
	return derive(params, password, salt, key)
}
