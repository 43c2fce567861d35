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
	"errors"
	"sort"
	"testing"
)

func TestResolveDigest(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"md5", 16},
		{"sha1", 20},
		{"sha224", 28},
		{"sha256", 32},
		{"sha384", 48},
		{"sha512", 64},
		{"sha3-256", 32},
		{"sha3-512", 64},
		{"ripemd160", 20},
		{"blake2b-256", 32},
		{"blake2b-512", 64},
		{"blake2s-256", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ResolveDigest(tt.name)
			if err != nil {
				t.Fatalf("ResolveDigest(%q): %v", tt.name, err)
			}
			if d.Name() != tt.name {
				t.Errorf("name = %q, want %q", d.Name(), tt.name)
			}
			if d.Size() != tt.size {
				t.Errorf("size = %d, want %d", d.Size(), tt.size)
			}

			h := d.New()
			if h == nil {
				t.Fatal("New returned nil state")
			}
			if h.Size() != tt.size {
				t.Errorf("state size = %d, want %d", h.Size(), tt.size)
			}

			got, err := DigestSize(tt.name)
			if err != nil || got != tt.size {
				t.Errorf("DigestSize(%q) = %d, %v, want %d, nil", tt.name, got, err, tt.size)
			}
		})
	}
}

func TestResolveDigestUnknown(t *testing.T) {
	for _, name := range []string{"", "whirlpool", "SHA256", "sha-256", "gost"} {
		if _, err := ResolveDigest(name); !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("ResolveDigest(%q) = %v, want ErrUnknownAlgorithm", name, err)
		}
		if _, err := DigestSize(name); !errors.Is(err, ErrUnknownAlgorithm) {
			t.Errorf("DigestSize(%q) = %v, want ErrUnknownAlgorithm", name, err)
		}
	}
}

func TestDigestsListsAllRegistered(t *testing.T) {
	names := Digests()
	if len(names) != len(digests) {
		t.Fatalf("Digests returned %d names, registry holds %d", len(names), len(digests))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	for _, name := range names {
		if _, err := ResolveDigest(name); err != nil {
			t.Errorf("listed digest %q does not resolve: %v", name, err)
		}
	}
}
