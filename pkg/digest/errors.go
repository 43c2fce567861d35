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

import "errors"

var (
	// ErrLength is returned when Final is asked for more bytes than the
	// digest produces. The running state is left untouched.
	ErrLength = errors.New("digest: requested output exceeds digest size")

	// ErrDigestFailed is returned when the underlying digest state fails
	// or a closed context is used. The context is undefined afterwards;
	// callers should close it and construct a fresh one.
	ErrDigestFailed = errors.New("digest: digest operation failed")
)
