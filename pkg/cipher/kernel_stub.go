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

//go:build !linux

package cipher

import (
	"fmt"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// newKernelSession fails on platforms without the Linux kernel crypto API.
func newKernelSession(_ *algorithm.CipherSuite, _ []byte) (Session, error) {
	return nil, fmt.Errorf("%w: kernel crypto API is only available on linux", ErrInitFailed)
}

// KernelAvailable reports whether the kernel crypto API accepts skcipher
// sockets on this system.
func KernelAvailable() bool { return false }
