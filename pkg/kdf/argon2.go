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
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
)

// maxArgon2Threads is the largest lane count the algorithm's 8-bit
// parallelism field can carry.
const maxArgon2Threads = 255

// deriveArgon2 runs the Argon2 variant selected by the exact family name.
// The generic "argon2" prefix reaches this function, but only the "argon2i"
// and "argon2id" variants are implemented; anything else fails with
// ErrUnsupportedKdf, matching the dispatcher's contract for unknown names.
func deriveArgon2(params *Params, password, salt, key []byte) error {
	if params.Iterations < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, params.Iterations)
	}
	if params.Parallelism < 1 || params.Parallelism > maxArgon2Threads {
		return fmt.Errorf("%w: %d", ErrInvalidThreads, params.Parallelism)
	}

	var dk []byte
	switch params.Family {
	case FamilyArgon2i:
		dk = argon2.Key(password, salt, params.Iterations, params.Memory,
			uint8(params.Parallelism), uint32(len(key)))
	case FamilyArgon2id:
		dk = argon2.IDKey(password, salt, params.Iterations, params.Memory,
			uint8(params.Parallelism), uint32(len(key)))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKdf, params.Family)
	}

	copy(key, dk)
	zeroize.Bytes(dk)
	return nil
}
