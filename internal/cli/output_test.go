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
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jeremyhahn/go-crypto-backend/pkg/benchmark"
	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
)

func TestPrinter_PrintDigest_Text(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	sum := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := printer.PrintDigest("sha256", "disk.img", sum); err != nil {
		t.Fatalf("PrintDigest() returned error: %v", err)
	}

	got := buf.String()
	if got != "deadbeef  disk.img\n" {
		t.Errorf("output = %q, want %q", got, "deadbeef  disk.img\n")
	}
}

func TestPrinter_PrintDigest_JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	sum := []byte{0xde, 0xad, 0xbe, 0xef}
	if err := printer.PrintDigest("sha256", "-", sum); err != nil {
		t.Fatalf("PrintDigest() returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["algorithm"] != "sha256" {
		t.Errorf("algorithm = %v, want sha256", decoded["algorithm"])
	}
	if decoded["digest"] != "deadbeef" {
		t.Errorf("digest = %v, want deadbeef", decoded["digest"])
	}
	if decoded["source"] != "-" {
		t.Errorf("source = %v, want -", decoded["source"])
	}
}

func TestPrinter_PrintRandom_Text(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	if err := printer.PrintRandom("cafef00d", "hex", "software"); err != nil {
		t.Fatalf("PrintRandom() returned error: %v", err)
	}
	if buf.String() != "cafef00d\n" {
		t.Errorf("output = %q, want %q", buf.String(), "cafef00d\n")
	}
}

func TestPrinter_PrintRandom_JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	if err := printer.PrintRandom("cafef00d", "hex", "software"); err != nil {
		t.Fatalf("PrintRandom() returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["random"] != "cafef00d" {
		t.Errorf("random = %v, want cafef00d", decoded["random"])
	}
	if decoded["source"] != "software" {
		t.Errorf("source = %v, want software", decoded["source"])
	}
}

func TestPrinter_PrintDerivedKey_PBKDF2(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	params := &kdf.Params{
		Family:     kdf.FamilyPBKDF2,
		Hash:       "sha256",
		Iterations: 600000,
	}
	key := []byte{0x01, 0x02}
	salt := []byte{0x03, 0x04}

	if err := printer.PrintDerivedKey(params, key, salt); err != nil {
		t.Fatalf("PrintDerivedKey() returned error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "Key:  0102") {
		t.Errorf("output missing key hex: %q", got)
	}
	if !strings.Contains(got, "Salt: 0304") {
		t.Errorf("output missing salt hex: %q", got)
	}
	if !strings.Contains(got, "600000 iterations") {
		t.Errorf("output missing iteration count: %q", got)
	}
}

func TestPrinter_PrintDerivedKey_Argon2JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	params := &kdf.Params{
		Family:      kdf.FamilyArgon2id,
		Iterations:  4,
		Memory:      65536,
		Parallelism: 4,
	}

	if err := printer.PrintDerivedKey(params, []byte{0xaa}, []byte{0xbb}); err != nil {
		t.Fatalf("PrintDerivedKey() returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["kdf"] != "argon2id" {
		t.Errorf("kdf = %v, want argon2id", decoded["kdf"])
	}
	if decoded["memory"] != float64(65536) {
		t.Errorf("memory = %v, want 65536", decoded["memory"])
	}
}

func TestPrinter_PrintCapabilities_Text(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("text", &buf)

	report := &CapabilityReport{
		Version:      "go-crypto-backend (go1.25)",
		Capabilities: "kernel-cipher",
		FIPSMode:     false,
		KernelCipher: true,
		Digests:      []string{"sha1", "sha256"},
	}

	if err := printer.PrintCapabilities(report); err != nil {
		t.Fatalf("PrintCapabilities() returned error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "go-crypto-backend") {
		t.Errorf("output missing version: %q", got)
	}
	if !strings.Contains(got, "sha1, sha256") {
		t.Errorf("output missing digest list: %q", got)
	}
}

func TestPrinter_PrintBenchmarkReport_Table(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("table", &buf)

	report := &benchmark.Report{
		ID:      "11111111-2222-3333-4444-555555555555",
		Backend: "go-crypto-backend (go1.25)",
		Ciphers: []benchmark.CipherResult{
			{Suite: "aes-256-xts", Backend: "software", EncryptMiBs: 1000.5, DecryptMiBs: 2000.5},
		},
		KDFs: []benchmark.KDFResult{
			{Family: "pbkdf2", Hash: "sha256", Iterations: 100000, PerSecond: 50000},
		},
	}

	if err := printer.PrintBenchmarkReport(report); err != nil {
		t.Fatalf("PrintBenchmarkReport() returned error: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "aes-256-xts") {
		t.Errorf("output missing cipher suite: %q", got)
	}
	if !strings.Contains(got, "100000") {
		t.Errorf("output missing iteration count: %q", got)
	}
}

func TestPrinter_PrintError_JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("json", &buf)

	if err := printer.PrintError(errors.New("boom")); err != nil {
		t.Fatalf("PrintError() returned error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["status"] != "error" {
		t.Errorf("status = %v, want error", decoded["status"])
	}
	if decoded["error"] != "boom" {
		t.Errorf("error = %v, want boom", decoded["error"])
	}
}

func TestPrinter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter("xml", &buf)

	if err := printer.PrintSuccess("ok"); err == nil {
		t.Error("expected error for unknown format")
	}
}
