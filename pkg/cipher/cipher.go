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

// Package cipher provides symmetric block cipher sessions for
// sector-granular encryption.
//
// A session binds one key to an encrypt and a decrypt context at
// construction. Every call supplies its own IV; no chaining state survives
// between calls and padding is never applied, so inputs must be whole
// multiples of the cipher block size.
//
// Two backends are available. The software backend computes in process and
// is always present. The kernel backend drives the Linux kernel crypto API
// through an AF_ALG skcipher socket and must be selected explicitly.
//
// Buffers passed to Encrypt and Decrypt may alias exactly (dst == src) for
// in-place operation. Partially overlapping buffers are undefined.
//
// Sessions are single-owner and not safe for concurrent use.
package cipher

import (
	"fmt"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// Backend selects a cipher session implementation.
type Backend string

const (
	// BackendAuto resolves to the software backend.
	BackendAuto Backend = "auto"

	// BackendSoftware computes in process.
	BackendSoftware Backend = "software"

	// BackendKernel drives the Linux kernel crypto API.
	BackendKernel Backend = "kernel"
)

// Config controls session construction.
type Config struct {
	// Backend selects the implementation. Empty behaves as BackendAuto.
	Backend Backend
}

// DefaultConfig returns the configuration New uses.
func DefaultConfig() *Config {
	return &Config{Backend: BackendAuto}
}

// Session is a symmetric cipher context pair bound to one key. Both
// directions stay available for the session's lifetime without re-keying.
//
// XTS sessions on the software backend read the sector number from the
// first 8 IV bytes, little endian, and require the remaining 8 bytes to be
// zero. The kernel backend consumes all 16 tweak bytes.
type Session interface {
	// Encrypt transforms src into dst under the IV supplied for this call.
	Encrypt(dst, src, iv []byte) error

	// Decrypt is the inverse of Encrypt under the same IV.
	Decrypt(dst, src, iv []byte) error

	// Suite returns the resolved construction the session was built for.
	Suite() *algorithm.CipherSuite

	// Close releases both directions. Close is idempotent and safe on a
	// partially built session.
	Close() error
}

// New builds a session on the default backend. The construction is resolved
// from the cipher name, mode and raw key length.
func New(name string, mode algorithm.Mode, key []byte) (Session, error) {
	return NewWithConfig(nil, name, mode, key)
}

// NewWithConfig builds a session with explicit backend selection. A nil
// config selects defaults. Resolution failures pass through from the
// algorithm package; backend setup failures wrap ErrInitFailed.
func NewWithConfig(cfg *Config, name string, mode algorithm.Mode, key []byte) (Session, error) {
	suite, err := algorithm.ResolveCipher(name, mode, len(key))
	if err != nil {
		return nil, err
	}

	backend := BackendAuto
	if cfg != nil && cfg.Backend != "" {
		backend = cfg.Backend
	}
	switch backend {
	case BackendAuto, BackendSoftware:
		return newSoftwareSession(suite, key)
	case BackendKernel:
		return newKernelSession(suite, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// checkGeometry enforces the call contract shared by all backends: equal
// buffer lengths, whole blocks only, and an exact-size IV for modes that
// consume one.
func checkGeometry(suite *algorithm.CipherSuite, dst, src, iv []byte) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: destination length %d does not match source %d",
			ErrTransformFailed, len(dst), len(src))
	}
	if len(src)%suite.BlockSize() != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of the %d byte block",
			ErrTransformFailed, len(src), suite.BlockSize())
	}
	if n := suite.IVSize(); n > 0 && len(iv) != n {
		return fmt.Errorf("%w: iv length %d, need %d", ErrTransformFailed, len(iv), n)
	}
	return nil
}
