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

// Package zeroize wipes secret material from memory.
//
// Engines in this library stage secrets in transient buffers: full digest
// tags before truncation, key copies handed to backend constructions,
// derived key material in flight. Every such buffer must be wiped on all
// exit paths, including error paths, before the buffer goes out of scope.
package zeroize

import "crypto/subtle"

// Bytes overwrites b with zeros.
//
// The trailing constant-time copy keeps the compiler from eliding the wipe
// as a dead store.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
