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

// Package algorithm resolves cipher and digest names to concrete
// constructions. Resolution is pure: it validates names and parameters and
// returns immutable descriptors without allocating backend state.
//
// Cipher resolution follows the disk-encryption convention of dispatching on
// the raw key length. XTS keys carry two AES subkeys back to back, so a
// 64-byte key selects AES-256-XTS while a 32-byte CBC key selects
// AES-256-CBC.
package algorithm

// Mode identifies a block cipher mode of operation.
type Mode string

const (
	// ModeXTS is the tweakable XTS mode used for sector encryption.
	ModeXTS Mode = "xts"

	// ModeCBC is cipher block chaining with a caller supplied IV.
	ModeCBC Mode = "cbc"

	// ModeECB is the raw codebook mode. It consumes no IV and exists for
	// key material processing, not data encryption.
	ModeECB Mode = "ecb"
)
