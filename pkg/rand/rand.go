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

// Package rand provides random number generation for key material, salts
// and nonces, with support for multiple entropy sources including
// hardware-backed RNG from TPM2 and PKCS#11 modules.
//
// # Sources
//
// The package supports four source modes:
//   - Auto: selects the best available source (hardware > software)
//   - Software: the kernel CSPRNG via crypto/rand (always available)
//   - TPM2: Trusted Platform Module 2.0 hardware RNG (build tag "tpm2")
//   - PKCS11: PKCS#11 hardware security module RNG (build tag "pkcs11")
//
// Hardware sources are compiled in behind build tags; in a default build
// auto mode resolves to software.
//
// # Quality
//
// Every request carries a Quality hint declaring what the bytes are for:
// general-purpose randomness, salts, or long-lived key material. All
// current sources serve every quality from the same pool, so the hint
// does not change the output, but callers must pass an accurate value:
// a request with an unknown quality is rejected, and future hardware
// routing keys off the hint.
//
// # Usage
//
// Most callers use the package-level facade, which draws from a shared
// software resolver:
//
//	salt := make([]byte, 32)
//	if err := rand.Fill(salt, rand.QualitySalt); err != nil {
//	    return err
//	}
//
// Applications that want hardware entropy construct a Resolver at
// startup and reuse it:
//
//	rng, err := rand.NewResolver(&rand.Config{
//	    Mode:         rand.ModeAuto,
//	    FallbackMode: rand.ModeSoftware,
//	})
//
// # Error Handling
//
// Source failures surface as errors wrapping ErrEntropy. There is no
// retry loop inside this package; callers decide whether an entropy
// failure is fatal.
//
// # Thread Safety
//
// The package-level facade and all Resolver implementations are safe for
// concurrent use.
package rand

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-crypto-backend/pkg/logging"
)

// Quality declares the intended use of requested random bytes.
type Quality int

const (
	// QualityNormal is general-purpose randomness such as nonces and IVs.
	QualityNormal Quality = iota

	// QualityKey is long-lived cryptographic key material.
	QualityKey

	// QualitySalt is KDF salt material.
	QualitySalt
)

// String returns the lower-case name of the quality.
func (q Quality) String() string {
	switch q {
	case QualityNormal:
		return "normal"
	case QualityKey:
		return "key"
	case QualitySalt:
		return "salt"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

var (
	// ErrEntropy is returned when no entropy source can satisfy a request.
	ErrEntropy = errors.New("rand: entropy source failure")

	// ErrQuality is returned when a request carries a quality value
	// outside the known set.
	ErrQuality = errors.New("rand: unknown random quality")
)

// checkQuality validates a caller-supplied quality hint.
func checkQuality(q Quality) error {
	switch q {
	case QualityNormal, QualityKey, QualitySalt:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQuality, q)
	}
}

// Mode specifies which entropy source to use.
type Mode string

const (
	// ModeAuto automatically selects the best available source.
	// Preference order: PKCS#11 > TPM2 > Software
	ModeAuto Mode = "auto"

	// ModeSoftware uses crypto/rand (kernel CSPRNG)
	ModeSoftware Mode = "software"

	// ModeTPM2 uses Trusted Platform Module 2.0 hardware RNG
	ModeTPM2 Mode = "tpm2"

	// ModePKCS11 uses PKCS#11 hardware security module RNG
	ModePKCS11 Mode = "pkcs11"
)

// Config contains entropy source configuration.
type Config struct {
	// Mode specifies the primary entropy source to use.
	// Defaults to ModeAuto if not specified.
	Mode Mode

	// FallbackMode specifies the source to use if the primary mode fails.
	// If not specified, failures are returned as errors.
	// Typical usage: Mode=ModeTPM2, FallbackMode=ModeSoftware
	FallbackMode Mode

	// TPM2Config contains TPM2-specific configuration (if Mode=ModeTPM2).
	// If nil, defaults are used.
	TPM2Config *TPM2Config

	// PKCS11Config contains PKCS#11-specific configuration
	// (if Mode=ModePKCS11). If nil, defaults are used.
	PKCS11Config *PKCS11Config

	// Logger is the logger instance to use (optional). If nil, a
	// default logger is used.
	Logger *logging.Logger
}

// TPM2Config contains configuration for the TPM2 entropy source.
type TPM2Config struct {
	// Device path to the TPM device (default: "/dev/tpm0")
	// Ignored when UseSimulator is true
	Device string

	// MaxRequestSize limits the maximum bytes to request per GetRandom
	// call. TPM2 limits how much entropy a single request may return.
	// Default: 32 bytes
	MaxRequestSize int

	// UseSimulator indicates whether to connect to a TPM simulator
	// instead of a hardware device. When true, SimulatorHost and
	// SimulatorPort are used to establish the TCP connection.
	UseSimulator bool

	// SimulatorHost is the hostname or IP address of the TPM simulator.
	// Default: "localhost"
	SimulatorHost string

	// SimulatorPort is the TCP command port of the TPM simulator.
	// Default: 2321 (standard SWTPM port)
	SimulatorPort int
}

// PKCS11Config contains configuration for the PKCS#11 entropy source.
type PKCS11Config struct {
	// Module path to the PKCS#11 library (e.g., /usr/lib/libsofthsm2.so)
	Module string

	// SlotID specifies the PKCS#11 slot containing the RNG
	SlotID uint

	// PINRequired indicates if the slot requires PIN authentication
	PINRequired bool

	// PIN is the authentication PIN (if PINRequired is true)
	PIN string
}

// Source is a low-level entropy source.
type Source interface {
	// Fill fills b with random bytes.
	// Returns an error if the source is unavailable or fails.
	Fill(b []byte) error

	// Available returns true if this source is available and ready.
	Available() bool

	// Close closes the source and releases any resources.
	Close() error
}

// Resolver provides the main interface for generating random bytes.
// Applications should create a Resolver at startup and reuse it.
//
// Resolver implements io.Reader, making it compatible with
// crypto/rand.Reader and usable anywhere an io.Reader is expected for
// random number generation.
type Resolver interface {
	// Fill fills b with random bytes from the configured source.
	// If the primary source fails and a fallback is configured, the
	// fallback serves the request. Failures wrap ErrEntropy.
	Fill(b []byte, quality Quality) error

	// Read implements io.Reader over QualityNormal bytes, making this
	// Resolver usable as a drop-in replacement for crypto/rand.Reader
	// with standard library functions such as rsa.GenerateKey and
	// ecdsa.GenerateKey.
	Read(p []byte) (n int, err error)

	// Source returns the underlying entropy Source being used.
	// Useful for testing and debugging.
	Source() Source

	// Available returns true if at least one source is available.
	Available() bool

	// Close closes the resolver and releases any resources.
	Close() error
}

var (
	defaultOnce     sync.Once
	defaultResolver Resolver
)

// Fill fills b with random bytes of the given quality from the shared
// software resolver. It is the package-level facade most callers want;
// applications with hardware entropy requirements construct their own
// Resolver instead.
func Fill(b []byte, quality Quality) error {
	defaultOnce.Do(func() {
		defaultResolver, _ = newSoftwareResolver()
	})
	return defaultResolver.Fill(b, quality)
}

// NewResolver creates a new entropy resolver with the given
// configuration. Accepts a Mode, a *Config, or nil; nil selects auto
// mode.
//
// Returns an error if the primary mode is unavailable and no fallback
// is configured.
func NewResolver(config interface{}) (Resolver, error) {
	cfg := normalizeConfig(config)
	return newResolver(cfg)
}

// normalizeConfig converts various config types to *Config.
func normalizeConfig(config interface{}) *Config {
	if config == nil {
		return &Config{Mode: ModeAuto}
	}

	switch v := config.(type) {
	case Mode:
		return &Config{Mode: v}
	case *Config:
		if v == nil {
			return &Config{Mode: ModeAuto}
		}
		if v.Mode == "" {
			v.Mode = ModeAuto
		}
		return v
	default:
		return &Config{Mode: ModeAuto}
	}
}

// newResolver creates the actual resolver implementation.
func newResolver(cfg *Config) (Resolver, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeAuto
	}

	switch mode {
	case ModeAuto:
		return newAutoResolver(cfg)
	case ModeSoftware:
		return newSoftwareResolver()
	case ModeTPM2:
		return newTPM2Resolver(cfg.TPM2Config)
	case ModePKCS11:
		return newPKCS11Resolver(cfg.PKCS11Config)
	default:
		return nil, fmt.Errorf("unknown RNG mode: %s", mode)
	}
}

// SoftwareResolver uses crypto/rand from the Go standard library.
type SoftwareResolver struct{}

var _ Resolver = (*SoftwareResolver)(nil)

func newSoftwareResolver() (Resolver, error) {
	return &SoftwareResolver{}, nil
}

func (s *SoftwareResolver) Fill(b []byte, quality Quality) error {
	if err := checkQuality(quality); err != nil {
		return err
	}
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return nil
}

// Read implements io.Reader for compatibility with crypto/rand.Reader.
func (s *SoftwareResolver) Read(p []byte) (n int, err error) {
	return rand.Read(p)
}

func (s *SoftwareResolver) Source() Source {
	return &softwareSource{}
}

func (s *SoftwareResolver) Available() bool {
	return true // crypto/rand always available
}

func (s *SoftwareResolver) Close() error {
	return nil // Nothing to close
}

type softwareSource struct{}

func (s *softwareSource) Fill(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return nil
}

func (s *softwareSource) Available() bool {
	return true
}

func (s *softwareSource) Close() error {
	return nil
}
