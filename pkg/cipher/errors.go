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

package cipher

import "errors"

var (
	// ErrInitFailed is returned when a backend rejects the construction or
	// key at session setup. Partially built state is released before the
	// error surfaces.
	ErrInitFailed = errors.New("cipher: session initialization failed")

	// ErrTransformFailed is returned for bad call geometry or a backend
	// failure during an encrypt or decrypt call.
	ErrTransformFailed = errors.New("cipher: transform failed")

	// ErrUnknownBackend is returned when the config names no backend this
	// library implements.
	ErrUnknownBackend = errors.New("cipher: unknown backend")
)
