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

// Package backend tracks process-wide lifecycle state for the crypto
// provider: one-time initialization, teardown, provider identity and
// compiled-in capability flags.
//
// Initialization is idempotent. Multiple goroutines may race to call
// Init at startup; exactly one performs the work and the rest observe
// success. Destroy resets the initialized flag only; engines already
// constructed remain valid because the Go provider holds no global
// resources on their behalf.
//
// Most programs use the package-level functions, which proxy a shared
// Default state. Tests construct their own State values.
package backend

import (
	"crypto/fips140"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

// providerName identifies this crypto provider in version strings.
const providerName = "go-crypto-backend"

// entropyProbeSize is the number of bytes drawn from the entropy source
// during Init to verify the random path works before the backend is
// declared ready.
const entropyProbeSize = 16

// Flags is a bitmask of optional capabilities compiled into the backend.
type Flags uint32

const (
	// FlagKernelCipher indicates the Linux kernel crypto API cipher
	// path is compiled in.
	FlagKernelCipher Flags = 1 << iota

	// FlagTPM2RNG indicates the TPM2 entropy source is compiled in.
	FlagTPM2RNG

	// FlagPKCS11RNG indicates the PKCS#11 entropy source is compiled in.
	FlagPKCS11RNG
)

// Has reports whether every bit of flag is set in f.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// String returns a comma-separated list of set capability names.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	if f.Has(FlagKernelCipher) {
		names = append(names, "kernel-cipher")
	}
	if f.Has(FlagTPM2RNG) {
		names = append(names, "tpm2-rng")
	}
	if f.Has(FlagPKCS11RNG) {
		names = append(names, "pkcs11-rng")
	}
	return strings.Join(names, ",")
}

// State holds the lifecycle flag for one backend instance.
//
// The zero value is ready to use and reports uninitialized.
type State struct {
	mu          sync.Mutex
	initialized atomic.Bool
}

// Init initializes the backend. The first successful call primes the
// entropy path; subsequent calls are no-ops returning nil. Concurrent
// callers serialize, so no caller observes success before the first
// initialization completed.
func (s *State) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized.Load() {
		return nil
	}

	probe := make([]byte, entropyProbeSize)
	if err := rand.Fill(probe, rand.QualityNormal); err != nil {
		return fmt.Errorf("backend: entropy self-check failed: %w", err)
	}
	zeroize.Bytes(probe)

	s.initialized.Store(true)
	return nil
}

// Destroy resets the initialized flag. It releases no per-engine
// resources; engines own their state and are destroyed individually.
func (s *State) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized.Store(false)
}

// Initialized reports whether Init has completed since the last Destroy.
func (s *State) Initialized() bool {
	return s.initialized.Load()
}

// Version returns the provider identity for diagnostics, including the
// Go runtime the backend was built with.
func (s *State) Version() string {
	return fmt.Sprintf("%s (%s)", providerName, runtime.Version())
}

// Capabilities returns the capability flags compiled into this build.
func (s *State) Capabilities() Flags {
	return platformFlags | tpm2Flags | pkcs11Flags
}

// FIPSMode reports whether the Go runtime is operating in FIPS 140-3
// mode (GODEBUG=fips140=on).
func (s *State) FIPSMode() bool {
	return fips140.Enabled()
}

// Default is the process-wide backend state used by the package-level
// functions.
var Default State

// Init initializes the default backend state.
func Init() error { return Default.Init() }

// Destroy resets the default backend state.
func Destroy() { Default.Destroy() }

// Initialized reports whether the default backend state is initialized.
func Initialized() bool { return Default.Initialized() }

// Version returns the provider identity of the default backend state.
func Version() string { return Default.Version() }

// Capabilities returns the capability flags of the default backend state.
func Capabilities() Flags { return Default.Capabilities() }

// FIPSMode reports whether the default backend state is in FIPS mode.
func FIPSMode() bool { return Default.FIPSMode() }
