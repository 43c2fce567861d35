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

//go:build tpm2

package rand

import (
	"fmt"
	"sync"

	"github.com/google/go-tpm/tpm2"
	"github.com/google/go-tpm/tpm2/transport"
	"github.com/google/go-tpm/tpm2/transport/tcp"
	"github.com/google/go-tpm/tpmutil"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
)

// tpm2Resolver uses the TPM2 hardware RNG. TPM2 provides certified
// random number generation suitable for key material.
type tpm2Resolver struct {
	rwc    transport.TPMCloser
	config *TPM2Config
	mu     sync.RWMutex
}

var _ Resolver = (*tpm2Resolver)(nil)

func newTPM2Resolver(config *TPM2Config) (Resolver, error) {
	if config == nil {
		config = &TPM2Config{}
	}

	if config.UseSimulator {
		if config.SimulatorHost == "" {
			config.SimulatorHost = "localhost"
		}
		if config.SimulatorPort <= 0 {
			config.SimulatorPort = 2321
		}
	} else {
		if config.Device == "" {
			config.Device = "/dev/tpm0"
		}
	}

	if config.MaxRequestSize <= 0 {
		config.MaxRequestSize = 32
	}

	var rwc transport.TPMCloser

	if config.UseSimulator {
		// SWTPM requires both command and platform (ctrl) ports
		cmdAddr := fmt.Sprintf("%s:%d", config.SimulatorHost, config.SimulatorPort)
		platAddr := fmt.Sprintf("%s:%d", config.SimulatorHost, config.SimulatorPort+1)

		var err error
		rwc, err = tcp.Open(tcp.Config{
			CommandAddress:  cmdAddr,
			PlatformAddress: platAddr,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to TPM simulator at %s (platform: %s): %w", cmdAddr, platAddr, err)
		}
	} else {
		dev, err := tpmutil.OpenTPM(config.Device)
		if err != nil {
			return nil, fmt.Errorf("failed to open TPM2 device %s: %w", config.Device, err)
		}
		rwc = transport.FromReadWriteCloser(dev)
	}

	return &tpm2Resolver{
		rwc:    rwc,
		config: config,
	}, nil
}

func tpm2Available() bool {
	return true
}

func (t *tpm2Resolver) Fill(b []byte, quality Quality) error {
	if err := checkQuality(quality); err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.rwc == nil {
		return fmt.Errorf("%w: TPM2 resolver closed", ErrEntropy)
	}

	// A single GetRandom is capped by the TPM, so large requests are
	// served in chunks written straight into the caller's buffer.
	for off := 0; off < len(b); {
		chunk := len(b) - off
		if chunk > t.config.MaxRequestSize {
			chunk = t.config.MaxRequestSize
		}

		getRandom := tpm2.GetRandom{
			BytesRequested: uint16(chunk),
		}

		rsp, err := getRandom.Execute(t.rwc)
		if err != nil {
			return fmt.Errorf("%w: TPM2 GetRandom: %v", ErrEntropy, err)
		}
		got := rsp.RandomBytes.Buffer
		if len(got) == 0 {
			return fmt.Errorf("%w: TPM2 GetRandom returned no bytes", ErrEntropy)
		}

		off += copy(b[off:], got)
		zeroize.Bytes(got)
	}
	return nil
}

// Read implements io.Reader for compatibility with crypto/rand.Reader.
func (t *tpm2Resolver) Read(p []byte) (n int, err error) {
	if err := t.Fill(p, QualityNormal); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (t *tpm2Resolver) Source() Source {
	return &tpm2Source{resolver: t}
}

func (t *tpm2Resolver) Available() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rwc != nil
}

func (t *tpm2Resolver) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rwc != nil {
		err := t.rwc.Close()
		t.rwc = nil
		return err
	}
	return nil
}

type tpm2Source struct {
	resolver *tpm2Resolver
}

func (s *tpm2Source) Fill(b []byte) error {
	return s.resolver.Fill(b, QualityNormal)
}

func (s *tpm2Source) Available() bool {
	return s.resolver.Available()
}

func (s *tpm2Source) Close() error {
	return s.resolver.Close()
}
