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

import (
	"crypto/hmac"
	"fmt"
	"hash"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// HMAC is a streaming keyed MAC context. The key is bound exactly once at
// construction; the restart performed by Final re-arms the MAC with the
// same key, so one context can authenticate a sequence of messages without
// the caller retaining key material.
//
// The engine holds no plaintext copy of the key. crypto/hmac consumes it
// into its padded schedules at construction and Reset restores those
// schedules.
type HMAC struct {
	alg     *algorithm.Digest
	state   hash.Hash
	scratch []byte
}

// NewHMAC constructs a keyed MAC context for the named digest. Unknown
// names fail with algorithm.ErrUnknownAlgorithm. The caller keeps ownership
// of key and may wipe it as soon as NewHMAC returns.
func NewHMAC(name string, key []byte) (*HMAC, error) {
	alg, err := algorithm.ResolveDigest(name)
	if err != nil {
		return nil, err
	}
	return &HMAC{
		alg:     alg,
		state:   hmac.New(alg.New, key),
		scratch: make([]byte, alg.Size()),
	}, nil
}

// Algorithm returns the canonical name of the underlying digest.
func (m *HMAC) Algorithm() string { return m.alg.Name() }

// Size returns the full tag size in bytes.
func (m *HMAC) Size() int { return m.alg.Size() }

// Write adds message bytes to the running MAC.
func (m *HMAC) Write(p []byte) error {
	if m.state == nil {
		return fmt.Errorf("%w: context closed", ErrDigestFailed)
	}
	if _, err := m.state.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrDigestFailed, err)
	}
	return nil
}

// Final writes the leading len(out) bytes of the tag into out and restarts
// the context, keyed as before, for a new message. Requests beyond Size
// fail with ErrLength and leave the running state untouched.
func (m *HMAC) Final(out []byte) error {
	if m.state == nil {
		return fmt.Errorf("%w: context closed", ErrDigestFailed)
	}
	if len(out) > m.alg.Size() {
		return fmt.Errorf("%w: %d > %d", ErrLength, len(out), m.alg.Size())
	}
	if len(out) == m.alg.Size() {
		m.state.Sum(out[:0])
		m.state.Reset()
		return nil
	}
	m.state.Sum(m.scratch[:0])
	copy(out, m.scratch)
	zeroize.Bytes(m.scratch)
	m.state.Reset()
	return nil
}

// Close releases the context and its key schedules. A closed context fails
// all further calls.
func (m *HMAC) Close() error {
	if m.state != nil {
		m.state.Reset()
		m.state = nil
	}
	zeroize.Bytes(m.scratch)
	return nil
}
