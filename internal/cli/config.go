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
	"fmt"

	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// RandomSource is the entropy source to use (auto, software, tpm2, pkcs11)
	RandomSource string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool

	// Metrics enables Prometheus metric recording for operations
	Metrics bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RandomSource: "auto",
		OutputFormat: "text",
		Verbose:      false,
		Metrics:      false,
	}
}

// CreateEntropyResolver creates an entropy resolver based on the
// configuration. The caller owns the resolver and must close it.
func (c *Config) CreateEntropyResolver() (rand.Resolver, error) {
	switch c.RandomSource {
	case "auto":
		return rand.NewResolver(rand.ModeAuto)
	case "software":
		return rand.NewResolver(rand.ModeSoftware)
	case "tpm2":
		return rand.NewResolver(rand.ModeTPM2)
	case "pkcs11":
		return rand.NewResolver(rand.ModePKCS11)
	default:
		return nil, fmt.Errorf("unknown entropy source: %s", c.RandomSource)
	}
}
