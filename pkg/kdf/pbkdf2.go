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

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// derivePBKDF2 runs PBKDF2 (RFC 2898) with the PRF digest named in
// params.Hash. Memory and Parallelism are ignored.
func derivePBKDF2(params *Params, password, salt, key []byte) error {
	alg, err := algorithm.ResolveDigest(params.Hash)
	if err != nil {
		return err
	}
	if params.Iterations < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, params.Iterations)
	}

	dk := pbkdf2.Key(password, salt, int(params.Iterations), len(key), alg.New)
	copy(key, dk)
	zeroize.Bytes(dk)
	return nil
}
