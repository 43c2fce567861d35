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

// Package af implements an anti-forensic information splitter.
//
// Split inflates key material across a configurable number of
// pseudorandom stripes, each the size of the original. Every stripe is
// required to reconstruct the key, so overwriting any single stripe on
// disk destroys the key beyond recovery. Merge reverses the transform
// given the same stripe count and diffusion hash.
//
// The diffusion step hashes each digest-sized block of the accumulator
// under a big-endian 32-bit block counter, truncating the final block's
// digest to the remaining length. Stripe randomness comes from the
// process entropy facade.
package af

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/digest"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

// Stripes is the stripe count used by LUKS1 key material.
const Stripes = 4000

var (
	// ErrStripes is returned when the stripe count is less than one.
	ErrStripes = errors.New("af: stripe count must be at least one")

	// ErrSize is returned when the source and destination lengths do
	// not match the stripe layout.
	ErrSize = errors.New("af: buffer length does not match stripe layout")
)

// diffuse spreads every bit of buf across the whole buffer by hashing
// digest-sized blocks in place under a running block counter. The final
// partial block truncates the digest to the bytes that remain.
func diffuse(h *digest.Hash, buf []byte) error {
	size := h.Size()
	var counter [4]byte

	block := uint32(0)
	for off := 0; off < len(buf); off += size {
		end := off + size
		if end > len(buf) {
			end = len(buf)
		}

		binary.BigEndian.PutUint32(counter[:], block)
		if err := h.Write(counter[:]); err != nil {
			return err
		}
		if err := h.Write(buf[off:end]); err != nil {
			return err
		}
		if err := h.Final(buf[off:end]); err != nil {
			return err
		}
		block++
	}
	return nil
}

// Split diffuses the key material in src across stripes pseudorandom
// blocks written to dst. len(dst) must equal len(src)*stripes. The
// same stripe count and hash must be supplied to Merge to recover the
// material.
func Split(src, dst []byte, stripes int, hashName string) error {
	if stripes < 1 {
		return ErrStripes
	}
	if len(dst) != len(src)*stripes {
		return fmt.Errorf("%w: have %d, want %d", ErrSize, len(dst), len(src)*stripes)
	}

	h, err := digest.NewHash(hashName)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	bs := len(src)
	buf := make([]byte, bs)
	defer zeroize.Bytes(buf)

	// Every stripe except the last is random; the accumulator folds
	// them together with a diffusion pass after each one.
	for i := 0; i < stripes-1; i++ {
		stripe := dst[i*bs : (i+1)*bs]
		if err := rand.Fill(stripe, rand.QualityNormal); err != nil {
			return err
		}
		subtle.XORBytes(buf, stripe, buf)
		if err := diffuse(h, buf); err != nil {
			return err
		}
	}

	// The last stripe closes the XOR chain over the key itself.
	subtle.XORBytes(dst[(stripes-1)*bs:], src, buf)
	return nil
}

// Merge recovers key material produced by Split from the stripes in
// src, writing the original material to dst. len(src) must equal
// len(dst)*stripes.
func Merge(src, dst []byte, stripes int, hashName string) error {
	if stripes < 1 {
		return ErrStripes
	}
	if len(src) != len(dst)*stripes {
		return fmt.Errorf("%w: have %d, want %d", ErrSize, len(src), len(dst)*stripes)
	}

	h, err := digest.NewHash(hashName)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	bs := len(dst)
	buf := make([]byte, bs)
	defer zeroize.Bytes(buf)

	for i := 0; i < stripes-1; i++ {
		subtle.XORBytes(buf, src[i*bs:(i+1)*bs], buf)
		if err := diffuse(h, buf); err != nil {
			return err
		}
	}

	subtle.XORBytes(dst, src[(stripes-1)*bs:], buf)
	return nil
}
