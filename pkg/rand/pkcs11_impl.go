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

//go:build pkcs11

package rand

import (
	"fmt"
	"sync"

	"github.com/miekg/pkcs11"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
)

// pkcs11Resolver uses a PKCS#11 hardware security module RNG. PKCS#11
// provides access to certified random number generation from HSM
// devices.
type pkcs11Resolver struct {
	ctx     *pkcs11.Ctx
	session pkcs11.SessionHandle
	config  *PKCS11Config
	mu      sync.RWMutex
}

var _ Resolver = (*pkcs11Resolver)(nil)

func newPKCS11Resolver(config *PKCS11Config) (Resolver, error) {
	if config == nil {
		return nil, fmt.Errorf("PKCS#11 configuration required")
	}

	if config.Module == "" {
		return nil, fmt.Errorf("PKCS#11 module path is required")
	}

	ctx := pkcs11.New(config.Module)
	if ctx == nil {
		return nil, fmt.Errorf("failed to load PKCS#11 module: %s", config.Module)
	}

	err := ctx.Initialize()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PKCS#11: %w", err)
	}

	// GetSlotList activates slots in this context. Some implementations
	// (e.g. YubiKey) require the call before OpenSession.
	_, err = ctx.GetSlotList(true)
	if err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("failed to get PKCS#11 slot list: %w", err)
	}

	session, err := ctx.OpenSession(config.SlotID, pkcs11.CKF_SERIAL_SESSION|pkcs11.CKF_RW_SESSION)
	if err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("failed to open PKCS#11 session: %w", err)
	}

	if config.PINRequired && config.PIN != "" {
		err = ctx.Login(session, pkcs11.CKU_USER, config.PIN)
		if err != nil {
			ctx.CloseSession(session)
			ctx.Finalize()
			ctx.Destroy()
			return nil, fmt.Errorf("failed to authenticate with PKCS#11: %w", err)
		}
	}

	return &pkcs11Resolver{
		ctx:     ctx,
		session: session,
		config:  config,
	}, nil
}

func pkcs11Available() bool {
	return true
}

func (p *pkcs11Resolver) Fill(b []byte, quality Quality) error {
	if err := checkQuality(quality); err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.ctx == nil {
		return fmt.Errorf("%w: PKCS#11 resolver closed", ErrEntropy)
	}

	result, err := p.ctx.GenerateRandom(p.session, len(b))
	if err != nil {
		return fmt.Errorf("%w: PKCS#11 GenerateRandom: %v", ErrEntropy, err)
	}
	if len(result) != len(b) {
		zeroize.Bytes(result)
		return fmt.Errorf("%w: PKCS#11 returned %d of %d bytes", ErrEntropy, len(result), len(b))
	}
	copy(b, result)
	zeroize.Bytes(result)
	return nil
}

// Read implements io.Reader for compatibility with crypto/rand.Reader.
func (p *pkcs11Resolver) Read(b []byte) (n int, err error) {
	if err := p.Fill(b, QualityNormal); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (p *pkcs11Resolver) Source() Source {
	return &pkcs11Source{resolver: p}
}

func (p *pkcs11Resolver) Available() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx != nil
}

func (p *pkcs11Resolver) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != nil {
		if p.config.PINRequired {
			p.ctx.Logout(p.session)
		}
		p.ctx.CloseSession(p.session)
		p.ctx.Finalize()
		p.ctx.Destroy()
		p.ctx = nil
	}
	return nil
}

type pkcs11Source struct {
	resolver *pkcs11Resolver
}

func (s *pkcs11Source) Fill(b []byte) error {
	return s.resolver.Fill(b, QualityNormal)
}

func (s *pkcs11Source) Available() bool {
	return s.resolver.Available()
}

func (s *pkcs11Source) Close() error {
	return s.resolver.Close()
}
