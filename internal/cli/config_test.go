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

package cli

import (
	"testing"

	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.RandomSource != "auto" {
		t.Errorf("RandomSource = %v, want auto", cfg.RandomSource)
	}
	if cfg.OutputFormat != "text" {
		t.Errorf("OutputFormat = %v, want text", cfg.OutputFormat)
	}
	if cfg.Verbose {
		t.Error("Verbose should be false by default")
	}
	if cfg.Metrics {
		t.Error("Metrics should be false by default")
	}
}

func TestConfig_CreateEntropyResolver_Software(t *testing.T) {
	cfg := NewConfig()
	cfg.RandomSource = "software"

	resolver, err := cfg.CreateEntropyResolver()
	if err != nil {
		t.Fatalf("CreateEntropyResolver() returned error: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	buf := make([]byte, 16)
	if err := resolver.Fill(buf, rand.QualityNormal); err != nil {
		t.Errorf("Fill() returned error: %v", err)
	}
}

func TestConfig_CreateEntropyResolver_Auto(t *testing.T) {
	cfg := NewConfig()
	cfg.RandomSource = "auto"

	resolver, err := cfg.CreateEntropyResolver()
	if err != nil {
		t.Fatalf("CreateEntropyResolver() returned error: %v", err)
	}
	defer func() { _ = resolver.Close() }()

	if !resolver.Available() {
		t.Error("auto resolver should always be available")
	}
}

func TestConfig_CreateEntropyResolver_Unknown(t *testing.T) {
	cfg := NewConfig()
	cfg.RandomSource = "hsm9000"

	if _, err := cfg.CreateEntropyResolver(); err == nil {
		t.Error("expected error for unknown entropy source")
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		name    string
		want    rand.Quality
		wantErr bool
	}{
		{"normal", rand.QualityNormal, false},
		{"salt", rand.QualitySalt, false},
		{"key", rand.QualityKey, false},
		{"high", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseQuality(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseQuality(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseQuality(%q) returned error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseQuality(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestApplyCostDefaults(t *testing.T) {
	tests := []struct {
		family     string
		iterations uint32
		want       uint32
	}{
		{kdf.FamilyPBKDF2, 0, 600000},
		{kdf.FamilyPBKDF2, 1000, 1000},
		{kdf.FamilyArgon2id, 0, 4},
		{kdf.FamilyArgon2i, 0, 4},
		{kdf.FamilyArgon2id, 10, 10},
	}

	for _, tt := range tests {
		params := &kdf.Params{Family: tt.family, Iterations: tt.iterations}
		applyCostDefaults(params)
		if params.Iterations != tt.want {
			t.Errorf("applyCostDefaults(%s, %d): Iterations = %d, want %d",
				tt.family, tt.iterations, params.Iterations, tt.want)
		}
	}
}

func TestResolveSalt_Hex(t *testing.T) {
	cfg := NewConfig()

	salt, err := resolveSalt(cfg, "00112233445566778899aabbccddeeff")
	if err != nil {
		t.Fatalf("resolveSalt() returned error: %v", err)
	}
	if len(salt) != 16 {
		t.Errorf("salt length = %d, want 16", len(salt))
	}
	if salt[0] != 0x00 || salt[15] != 0xff {
		t.Error("salt bytes do not match input")
	}
}

func TestResolveSalt_InvalidHex(t *testing.T) {
	cfg := NewConfig()

	if _, err := resolveSalt(cfg, "not-hex"); err == nil {
		t.Error("expected error for invalid hex salt")
	}
}

func TestResolveSalt_Random(t *testing.T) {
	cfg := NewConfig()
	cfg.RandomSource = "software"

	salt, err := resolveSalt(cfg, "")
	if err != nil {
		t.Fatalf("resolveSalt() returned error: %v", err)
	}
	if len(salt) != 16 {
		t.Errorf("salt length = %d, want 16", len(salt))
	}

	second, err := resolveSalt(cfg, "")
	if err != nil {
		t.Fatalf("resolveSalt() returned error: %v", err)
	}
	if string(salt) == string(second) {
		t.Error("two random salts should differ")
	}
}
