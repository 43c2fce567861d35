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

// Package benchmark measures cipher throughput and calibrates KDF costs
// on the current machine.
//
// KDF calibration answers the question volume managers ask at format
// time: what cost parameters make one derivation take a target wall
// time on this hardware. Cipher measurements report sustained MiB/s per
// direction so operators can compare the software and kernel paths.
// Results are machine-dependent and never cached by this package.
package benchmark

import (
	"errors"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
	"github.com/jeremyhahn/go-crypto-backend/pkg/cipher"
	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

const (
	// minPBKDF2Iterations is the floor for calibrated PBKDF2 counts.
	minPBKDF2Iterations = 1000

	// minArgon2Iterations is the floor for calibrated Argon2 time cost.
	minArgon2Iterations = 4

	// defaultArgon2Memory is the memory cost in KiB used when the
	// caller does not set one.
	defaultArgon2Memory = 64 * 1024

	// defaultBufferSize is the cipher payload per call.
	defaultBufferSize = 1024 * 1024

	// defaultDuration bounds each measured run.
	defaultDuration = 1 * time.Second

	// benchmarkKeyLength is the derived key size used for KDF timing.
	benchmarkKeyLength = 32
)

// ErrTarget is returned when a KDF calibration target is not positive.
var ErrTarget = errors.New("benchmark: target duration must be positive")

// benchmarkPassword is the fixed input used for KDF timing runs.
var benchmarkPassword = []byte("benchmark-passphrase")

// CipherOptions configures one cipher throughput measurement.
type CipherOptions struct {
	// Cipher is the cipher family name, e.g. "aes".
	Cipher string

	// Mode selects the block mode.
	Mode algorithm.Mode

	// KeySize is the session key length in bytes.
	KeySize int

	// BufferSize is the payload passed per call. Defaults to 1 MiB.
	BufferSize int

	// Duration bounds each measured direction. Defaults to 1 second.
	Duration time.Duration

	// Config selects the cipher backend. Nil uses the default.
	Config *cipher.Config
}

// CipherResult reports sustained throughput for one configuration.
type CipherResult struct {
	Suite       string  `json:"suite" yaml:"suite"`
	Backend     string  `json:"backend" yaml:"backend"`
	EncryptMiBs float64 `json:"encrypt_mib_s" yaml:"encrypt_mib_s"`
	DecryptMiBs float64 `json:"decrypt_mib_s" yaml:"decrypt_mib_s"`
}

// Cipher measures encrypt and decrypt throughput for one cipher
// configuration using a random key over an in-memory buffer.
func Cipher(opts CipherOptions) (*CipherResult, error) {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.Duration <= 0 {
		opts.Duration = defaultDuration
	}

	suite, err := algorithm.ResolveCipher(opts.Cipher, opts.Mode, opts.KeySize)
	if err != nil {
		return nil, err
	}

	key := make([]byte, opts.KeySize)
	if err := rand.Fill(key, rand.QualityKey); err != nil {
		return nil, err
	}
	defer zeroize.Bytes(key)

	session, err := cipher.NewWithConfig(opts.Config, opts.Cipher, opts.Mode, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = session.Close() }()

	// Round the payload down to the block size so every call is valid.
	size := opts.BufferSize - opts.BufferSize%suite.BlockSize()
	if size == 0 {
		size = suite.BlockSize()
	}
	buf := make([]byte, size)
	if err := rand.Fill(buf, rand.QualityNormal); err != nil {
		return nil, err
	}

	iv := make([]byte, suite.IVSize())

	encrypt := func(b []byte) error { return session.Encrypt(b, b, iv) }
	decrypt := func(b []byte) error { return session.Decrypt(b, b, iv) }

	encMiBs, err := measureThroughput(buf, opts.Duration, encrypt)
	if err != nil {
		return nil, err
	}
	decMiBs, err := measureThroughput(buf, opts.Duration, decrypt)
	if err != nil {
		return nil, err
	}

	backendName := string(cipher.BackendSoftware)
	if opts.Config != nil && opts.Config.Backend != "" {
		backendName = string(opts.Config.Backend)
	}

	return &CipherResult{
		Suite:       suite.String(),
		Backend:     backendName,
		EncryptMiBs: encMiBs,
		DecryptMiBs: decMiBs,
	}, nil
}

// measureThroughput drives fn over buf until the duration elapses and
// returns MiB per second.
func measureThroughput(buf []byte, d time.Duration, fn func([]byte) error) (float64, error) {
	var processed int64

	start := time.Now()
	for time.Since(start) < d {
		if err := fn(buf); err != nil {
			return 0, err
		}
		processed += int64(len(buf))
	}
	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, fmt.Errorf("benchmark: measured interval too short")
	}

	return float64(processed) / (1024 * 1024) / elapsed, nil
}

// PBKDF2Options configures a PBKDF2 calibration run.
type PBKDF2Options struct {
	// Hash is the PRF digest name, e.g. "sha256".
	Hash string

	// Target is the wall time one derivation should take.
	Target time.Duration
}

// KDFResult reports calibrated costs for one KDF configuration.
type KDFResult struct {
	Family      string  `json:"family" yaml:"family"`
	Hash        string  `json:"hash,omitempty" yaml:"hash,omitempty"`
	Iterations  uint32  `json:"iterations" yaml:"iterations"`
	Memory      uint32  `json:"memory,omitempty" yaml:"memory,omitempty"`
	Parallelism uint32  `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`
	PerSecond   float64 `json:"per_second,omitempty" yaml:"per_second,omitempty"`
}

// PBKDF2 measures PBKDF2 speed with the given PRF and returns the
// iteration count matching the target duration, floored at 1000.
func PBKDF2(opts PBKDF2Options) (*KDFResult, error) {
	if opts.Target <= 0 {
		return nil, ErrTarget
	}

	salt := make([]byte, 16)
	if err := rand.Fill(salt, rand.QualitySalt); err != nil {
		return nil, err
	}

	params := &kdf.Params{
		Family: kdf.FamilyPBKDF2,
		Hash:   opts.Hash,
	}

	// Double the iteration count until a run is long enough to time
	// reliably, then scale to the target.
	iterations := uint32(minPBKDF2Iterations)
	floor := measureFloor(opts.Target)
	key := make([]byte, benchmarkKeyLength)
	defer zeroize.Bytes(key)

	var elapsed time.Duration
	for {
		params.Iterations = iterations

		start := time.Now()
		if err := kdf.Derive(params, benchmarkPassword, salt, key); err != nil {
			return nil, err
		}
		elapsed = time.Since(start)

		if elapsed >= floor {
			break
		}
		iterations *= 2
	}

	perSecond := float64(iterations) / elapsed.Seconds()
	calibrated := uint32(perSecond * opts.Target.Seconds())
	if calibrated < minPBKDF2Iterations {
		calibrated = minPBKDF2Iterations
	}

	return &KDFResult{
		Family:     kdf.FamilyPBKDF2,
		Hash:       opts.Hash,
		Iterations: calibrated,
		PerSecond:  perSecond,
	}, nil
}

// Argon2Options configures an Argon2 calibration run.
type Argon2Options struct {
	// Family is "argon2i" or "argon2id".
	Family string

	// Target is the wall time one derivation should take.
	Target time.Duration

	// Memory is the memory cost in KiB, held fixed during calibration.
	// Defaults to 64 MiB.
	Memory uint32

	// Parallelism is the lane count, held fixed during calibration.
	// Defaults to 4.
	Parallelism uint32
}

// Argon2 measures one derivation at the fixed memory cost and scales
// the time cost to the target duration, floored at 4 passes.
func Argon2(opts Argon2Options) (*KDFResult, error) {
	if opts.Target <= 0 {
		return nil, ErrTarget
	}
	if opts.Memory == 0 {
		opts.Memory = defaultArgon2Memory
	}
	if opts.Parallelism == 0 {
		opts.Parallelism = 4
	}

	salt := make([]byte, 16)
	if err := rand.Fill(salt, rand.QualitySalt); err != nil {
		return nil, err
	}

	params := &kdf.Params{
		Family:      opts.Family,
		Iterations:  1,
		Memory:      opts.Memory,
		Parallelism: opts.Parallelism,
	}
	key := make([]byte, benchmarkKeyLength)
	defer zeroize.Bytes(key)

	start := time.Now()
	if err := kdf.Derive(params, benchmarkPassword, salt, key); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	if elapsed <= 0 {
		return nil, fmt.Errorf("benchmark: measured interval too short")
	}

	// Passes scale near-linearly at fixed memory.
	calibrated := uint32(opts.Target.Seconds() / elapsed.Seconds())
	if calibrated < minArgon2Iterations {
		calibrated = minArgon2Iterations
	}

	return &KDFResult{
		Family:      opts.Family,
		Iterations:  calibrated,
		Memory:      opts.Memory,
		Parallelism: opts.Parallelism,
	}, nil
}

// measureFloor picks the minimum elapsed time a calibration sample must
// run to be trusted. Short targets use a proportional floor so quick
// calibrations stay quick.
func measureFloor(target time.Duration) time.Duration {
	const floor = 250 * time.Millisecond
	if target < 2*floor {
		return target / 2
	}
	return floor
}
