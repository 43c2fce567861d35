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
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Digest describes a resolved digest algorithm. Descriptors are immutable;
// New allocates a fresh streaming state on every call.
type Digest struct {
	name    string
	size    int
	newHash func() hash.Hash
}

// digests holds every algorithm this backend can construct, keyed by the
// canonical name stored in volume metadata.
var digests = map[string]*Digest{
	"md5":         {name: "md5", size: md5.Size, newHash: md5.New},
	"sha1":        {name: "sha1", size: sha1.Size, newHash: sha1.New},
	"sha224":      {name: "sha224", size: sha256.Size224, newHash: sha256.New224},
	"sha256":      {name: "sha256", size: sha256.Size, newHash: sha256.New},
	"sha384":      {name: "sha384", size: sha512.Size384, newHash: sha512.New384},
	"sha512":      {name: "sha512", size: sha512.Size, newHash: sha512.New},
	"sha3-256":    {name: "sha3-256", size: 32, newHash: sha3.New256},
	"sha3-512":    {name: "sha3-512", size: 64, newHash: sha3.New512},
	"ripemd160":   {name: "ripemd160", size: ripemd160.Size, newHash: ripemd160.New},
	"blake2b-256": {name: "blake2b-256", size: blake2b.Size256, newHash: newBlake2b256},
	"blake2b-512": {name: "blake2b-512", size: blake2b.Size, newHash: newBlake2b512},
	"blake2s-256": {name: "blake2s-256", size: blake2s.Size, newHash: newBlake2s256},
}

// The blake2 constructors only fail when given an oversized key. Unkeyed
// use never errors.

func newBlake2b256() hash.Hash {
	h, _ := blake2b.New256(nil)
	return h
}

func newBlake2b512() hash.Hash {
	h, _ := blake2b.New512(nil)
	return h
}

func newBlake2s256() hash.Hash {
	h, _ := blake2s.New256(nil)
	return h
}

// ResolveDigest resolves a digest name to its descriptor. Unknown names
// fail with ErrUnknownAlgorithm.
func ResolveDigest(name string) (*Digest, error) {
	d, ok := digests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return d, nil
}

// DigestSize returns the output size in bytes of the named digest without
// allocating any state.
func DigestSize(name string) (int, error) {
	d, err := ResolveDigest(name)
	if err != nil {
		return 0, err
	}
	return d.size, nil
}

// Digests returns the names of all registered digest algorithms, sorted.
func Digests() []string {
	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the canonical digest name.
func (d *Digest) Name() string { return d.name }

// Size returns the digest output size in bytes.
func (d *Digest) Size() int { return d.size }

// New allocates a fresh hash state.
func (d *Digest) New() hash.Hash { return d.newHash() }
