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

package benchmark

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
	"github.com/jeremyhahn/go-crypto-backend/pkg/backend"
	"github.com/jeremyhahn/go-crypto-backend/pkg/cipher"
	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
	"github.com/jeremyhahn/go-crypto-backend/pkg/logging"
)

// CipherCase is one cipher configuration in a suite.
type CipherCase struct {
	Name    string `yaml:"name" json:"name"`
	Mode    string `yaml:"mode" json:"mode"`
	KeySize int    `yaml:"key_size" json:"key_size"`
}

// KDFCase is one KDF configuration in a suite. Hash applies to pbkdf2,
// Memory and Parallelism to argon2.
type KDFCase struct {
	Family      string `yaml:"family" json:"family"`
	Hash        string `yaml:"hash,omitempty" json:"hash,omitempty"`
	Memory      uint32 `yaml:"memory,omitempty" json:"memory,omitempty"`
	Parallelism uint32 `yaml:"parallelism,omitempty" json:"parallelism,omitempty"`
}

// Suite describes a full benchmark run. Suites are typically loaded
// from a YAML file or built by DefaultSuite.
type Suite struct {
	// KDFTargetMS is the wall time in milliseconds one derivation
	// should take after calibration. Defaults to 2000.
	KDFTargetMS int `yaml:"kdf_target_ms,omitempty" json:"kdf_target_ms,omitempty"`

	// CipherDurationMS bounds each measured cipher direction in
	// milliseconds. Defaults to 1000.
	CipherDurationMS int `yaml:"cipher_duration_ms,omitempty" json:"cipher_duration_ms,omitempty"`

	// BufferKiB is the cipher payload per call in KiB. Defaults to 1024.
	BufferKiB int `yaml:"buffer_kib,omitempty" json:"buffer_kib,omitempty"`

	// Backend selects the cipher backend for all cipher cases. Empty
	// selects the default.
	Backend string `yaml:"backend,omitempty" json:"backend,omitempty"`

	Ciphers []CipherCase `yaml:"ciphers" json:"ciphers"`
	KDFs    []KDFCase    `yaml:"kdfs" json:"kdfs"`

	// Logger is the logger instance to use (optional). If nil, a
	// default logger is used.
	Logger *logging.Logger `yaml:"-" json:"-"`
}

// Report is the outcome of one suite run.
type Report struct {
	ID        string         `yaml:"id" json:"id"`
	Timestamp time.Time      `yaml:"timestamp" json:"timestamp"`
	Backend   string         `yaml:"backend" json:"backend"`
	Ciphers   []CipherResult `yaml:"ciphers,omitempty" json:"ciphers,omitempty"`
	KDFs      []KDFResult    `yaml:"kdfs,omitempty" json:"kdfs,omitempty"`
}

// DefaultSuite returns the stock benchmark set: PBKDF2 across the
// common PRFs, both Argon2 variants, and the AES constructions used for
// volume keys and sectors.
func DefaultSuite() *Suite {
	return &Suite{
		KDFTargetMS:      2000,
		CipherDurationMS: 1000,
		BufferKiB:        1024,
		Ciphers: []CipherCase{
			{Name: "aes", Mode: string(algorithm.ModeCBC), KeySize: 16},
			{Name: "aes", Mode: string(algorithm.ModeCBC), KeySize: 32},
			{Name: "aes", Mode: string(algorithm.ModeXTS), KeySize: 32},
			{Name: "aes", Mode: string(algorithm.ModeXTS), KeySize: 64},
		},
		KDFs: []KDFCase{
			{Family: kdf.FamilyPBKDF2, Hash: "sha1"},
			{Family: kdf.FamilyPBKDF2, Hash: "sha256"},
			{Family: kdf.FamilyPBKDF2, Hash: "sha512"},
			{Family: kdf.FamilyPBKDF2, Hash: "ripemd160"},
			{Family: kdf.FamilyArgon2i},
			{Family: kdf.FamilyArgon2id},
		},
	}
}

// LoadSuite reads a suite description from a YAML file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmark suite: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark suite: %w", err)
	}
	return &suite, nil
}

// Run executes every case in the suite and returns the collected
// report. The first failing case aborts the run.
func (s *Suite) Run() (*Report, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	kdfTarget := time.Duration(s.KDFTargetMS) * time.Millisecond
	if kdfTarget <= 0 {
		kdfTarget = 2 * time.Second
	}
	cipherDuration := time.Duration(s.CipherDurationMS) * time.Millisecond
	if cipherDuration <= 0 {
		cipherDuration = time.Second
	}
	bufferSize := s.BufferKiB * 1024
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	var cfg *cipher.Config
	if s.Backend != "" {
		cfg = &cipher.Config{Backend: cipher.Backend(s.Backend)}
	}

	report := &Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Backend:   backend.Version(),
	}

	for _, c := range s.Ciphers {
		logger.Debugf("benchmark: cipher case %s-%s-%d", c.Name, c.Mode, c.KeySize)
		result, err := Cipher(CipherOptions{
			Cipher:     c.Name,
			Mode:       algorithm.Mode(c.Mode),
			KeySize:    c.KeySize,
			BufferSize: bufferSize,
			Duration:   cipherDuration,
			Config:     cfg,
		})
		if err != nil {
			return nil, fmt.Errorf("cipher case %s-%s-%d: %w", c.Name, c.Mode, c.KeySize, err)
		}
		logger.Debugf("benchmark: %s encrypt %.1f MiB/s decrypt %.1f MiB/s",
			result.Suite, result.EncryptMiBs, result.DecryptMiBs)
		report.Ciphers = append(report.Ciphers, *result)
	}

	for _, k := range s.KDFs {
		logger.Debugf("benchmark: kdf case %s", k.Family)
		result, err := runKDFCase(k, kdfTarget)
		if err != nil {
			return nil, fmt.Errorf("kdf case %s: %w", k.Family, err)
		}
		report.KDFs = append(report.KDFs, *result)
	}

	return report, nil
}

func runKDFCase(k KDFCase, target time.Duration) (*KDFResult, error) {
	if k.Family == kdf.FamilyPBKDF2 {
		return PBKDF2(PBKDF2Options{Hash: k.Hash, Target: target})
	}
	return Argon2(Argon2Options{
		Family:      k.Family,
		Target:      target,
		Memory:      k.Memory,
		Parallelism: k.Parallelism,
	})
}
