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

import (
	"crypto/aes"
	"fmt"
)

// CipherSuite describes a fully resolved symmetric cipher construction.
// Suites are immutable; sessions built from one never change construction
// parameters for their lifetime.
type CipherSuite struct {
	name    string
	mode    Mode
	keySize int
}

// ResolveCipher validates a cipher name, mode and raw key length and returns
// the matching suite.
//
// Supported constructions:
//
//	aes-xts  32 or 64 byte keys (two AES-128 or AES-256 subkeys)
//	aes-cbc  16, 24 or 32 byte keys
//	aes-ecb  16, 24 or 32 byte keys
//
// Unknown cipher names fail with ErrUnsupportedAlgorithm. Known names with
// an unsupported mode or key size fail with ErrUnsupportedParameters.
func ResolveCipher(name string, mode Mode, keySize int) (*CipherSuite, error) {
	if name != "aes" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
	}
	switch mode {
	case ModeXTS:
		if keySize != 32 && keySize != 64 {
			return nil, fmt.Errorf("%w: %s key size %d", ErrUnsupportedParameters, mode, keySize)
		}
	case ModeCBC, ModeECB:
		if keySize != 16 && keySize != 24 && keySize != 32 {
			return nil, fmt.Errorf("%w: %s key size %d", ErrUnsupportedParameters, mode, keySize)
		}
	default:
		return nil, fmt.Errorf("%w: mode %s", ErrUnsupportedParameters, mode)
	}
	return &CipherSuite{name: name, mode: mode, keySize: keySize}, nil
}

// Name returns the cipher name, always "aes" in this release.
func (s *CipherSuite) Name() string { return s.name }

// Mode returns the block mode.
func (s *CipherSuite) Mode() Mode { return s.mode }

// KeySize returns the raw key length in bytes the suite was resolved for.
// For XTS this covers both subkeys.
func (s *CipherSuite) KeySize() int { return s.keySize }

// Bits returns the AES strength in bits of a single direction subkey.
func (s *CipherSuite) Bits() int {
	if s.mode == ModeXTS {
		return s.keySize * 4
	}
	return s.keySize * 8
}

// BlockSize returns the cipher block size in bytes. Encrypt and Decrypt
// operate on whole multiples of this size.
func (s *CipherSuite) BlockSize() int { return aes.BlockSize }

// IVSize returns the IV length in bytes expected per call. ECB consumes
// no IV.
func (s *CipherSuite) IVSize() int {
	if s.mode == ModeECB {
		return 0
	}
	return aes.BlockSize
}

// KernelName returns the Linux crypto API template for the suite,
// e.g. "xts(aes)".
func (s *CipherSuite) KernelName() string {
	return fmt.Sprintf("%s(%s)", s.mode, s.name)
}

// String returns the conventional construction name, e.g. "aes-256-xts".
func (s *CipherSuite) String() string {
	return fmt.Sprintf("%s-%d-%s", s.name, s.Bits(), s.mode)
}
