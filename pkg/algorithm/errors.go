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

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when a cipher name has no
	// implementation in this library.
	ErrUnsupportedAlgorithm = errors.New("algorithm: unsupported cipher algorithm")

	// ErrUnknownAlgorithm is returned when a digest name cannot be resolved.
	ErrUnknownAlgorithm = errors.New("algorithm: unknown digest algorithm")

	// ErrUnsupportedParameters is returned when a cipher name resolves but
	// the requested mode or key size has no supported construction.
	ErrUnsupportedParameters = errors.New("algorithm: unsupported cipher parameters")
)
