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

// Package digest implements streaming hash and HMAC engines with a
// finalize-and-restart contract.
//
// Final writes the leading bytes of the digest into the caller's buffer and
// atomically restarts the context for a new message, so a single engine can
// digest an unbounded sequence of messages. Asking for fewer bytes than the
// digest produces truncates; asking for more fails with ErrLength. The full
// tag is staged in an engine-owned scratch buffer that is wiped after every
// copy-out.
//
// Engines are single-owner and not safe for concurrent use.
package digest

import (
	"fmt"
	"hash"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
)

// Hash is a streaming digest context.
type Hash struct {
	alg     *algorithm.Digest
	state   hash.Hash
	scratch []byte
}

// NewHash constructs a digest context for the named algorithm. Unknown
// names fail with algorithm.ErrUnknownAlgorithm.
func NewHash(name string) (*Hash, error) {
	alg, err := algorithm.ResolveDigest(name)
	if err != nil {
		return nil, err
	}
	return &Hash{
		alg:     alg,
		state:   alg.New(),
		scratch: make([]byte, alg.Size()),
	}, nil
}

// Algorithm returns the canonical digest name.
func (h *Hash) Algorithm() string { return h.alg.Name() }

// Size returns the full digest size in bytes.
func (h *Hash) Size() int { return h.alg.Size() }

// Write adds message bytes to the running digest.
func (h *Hash) Write(p []byte) error {
	if h.state == nil {
		return fmt.Errorf("%w: context closed", ErrDigestFailed)
	}
	if _, err := h.state.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrDigestFailed, err)
	}
	return nil
}

// Final writes the leading len(out) bytes of the digest into out and
// restarts the context for a new message. Requests beyond Size fail with
// ErrLength and leave the running state untouched.
func (h *Hash) Final(out []byte) error {
	if h.state == nil {
		return fmt.Errorf("%w: context closed", ErrDigestFailed)
	}
	if len(out) > h.alg.Size() {
		return fmt.Errorf("%w: %d > %d", ErrLength, len(out), h.alg.Size())
	}
	if len(out) == h.alg.Size() {
		h.state.Sum(out[:0])
		h.state.Reset()
		return nil
	}
	h.state.Sum(h.scratch[:0])
	copy(out, h.scratch)
	zeroize.Bytes(h.scratch)
	h.state.Reset()
	return nil
}

// Close releases the context. A closed context fails all further calls.
func (h *Hash) Close() error {
	if h.state != nil {
		h.state.Reset()
		h.state = nil
	}
	zeroize.Bytes(h.scratch)
	return nil
}
