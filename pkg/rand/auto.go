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

package rand

import (
	"sync"

	"github.com/jeremyhahn/go-crypto-backend/pkg/logging"
)

// autoResolver automatically selects the best available entropy source.
// Preference order: PKCS#11 > TPM2 > Software
type autoResolver struct {
	resolver Resolver
	fallback Resolver
	logger   *logging.Logger
	mu       sync.RWMutex
}

var _ Resolver = (*autoResolver)(nil)

func newAutoResolver(cfg *Config) (Resolver, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	var resolver Resolver
	var fallback Resolver

	// Try PKCS#11 first (highest priority)
	if pkcs11Available() {
		if pkcs11Resolver, pkcs11Err := newPKCS11Resolver(cfg.PKCS11Config); pkcs11Err == nil {
			if pkcs11Resolver.Available() {
				logger.Debug("rand: selected PKCS#11 entropy source")
				resolver = pkcs11Resolver
			} else {
				_ = pkcs11Resolver.Close()
			}
		}
	}

	// Try TPM2 if PKCS#11 not available
	if resolver == nil && tpm2Available() {
		if tpm2Resolver, tpm2Err := newTPM2Resolver(cfg.TPM2Config); tpm2Err == nil {
			if tpm2Resolver.Available() {
				logger.Debug("rand: selected TPM2 entropy source")
				resolver = tpm2Resolver
			} else {
				_ = tpm2Resolver.Close()
			}
		}
	}

	// Fall back to software if no hardware available
	if resolver == nil {
		var err error
		resolver, err = newSoftwareResolver()
		if err != nil {
			return nil, err
		}
		logger.Debug("rand: selected software entropy source")
	}

	// Set up fallback if configured
	if cfg.FallbackMode != "" {
		fallback, _ = newResolver(&Config{Mode: cfg.FallbackMode})
	}

	return &autoResolver{
		resolver: resolver,
		fallback: fallback,
		logger:   logger,
	}, nil
}

func (a *autoResolver) Fill(b []byte, quality Quality) error {
	a.mu.RLock()
	resolver := a.resolver
	fallback := a.fallback
	a.mu.RUnlock()

	err := resolver.Fill(b, quality)
	if err != nil && fallback != nil {
		a.logger.Warnf("rand: primary entropy source failed, using fallback: %v", err)
		err = fallback.Fill(b, quality)
	}
	return err
}

// Read implements io.Reader for compatibility with crypto/rand.Reader.
func (a *autoResolver) Read(p []byte) (n int, err error) {
	if err := a.Fill(p, QualityNormal); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *autoResolver) Source() Source {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolver.Source()
}

func (a *autoResolver) Available() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.resolver.Available() || (a.fallback != nil && a.fallback.Available())
}

func (a *autoResolver) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolver != nil {
		_ = a.resolver.Close()
	}
	if a.fallback != nil {
		_ = a.fallback.Close()
	}
	return nil
}
