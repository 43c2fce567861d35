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
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-crypto-backend/pkg/algorithm"
	"github.com/jeremyhahn/go-crypto-backend/pkg/backend"
	"github.com/jeremyhahn/go-crypto-backend/pkg/cipher"
)

// CapabilityReport describes the provider as built and as running on
// this host. Capabilities lists the compiled-in flags; KernelCipher
// reports whether the kernel crypto API actually accepts sockets here.
type CapabilityReport struct {
	Version      string   `json:"version"`
	Capabilities string   `json:"capabilities"`
	FIPSMode     bool     `json:"fips_mode"`
	KernelCipher bool     `json:"kernel_cipher"`
	Digests      []string `json:"digests"`
}

// capabilitiesCmd represents the capabilities command
var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show provider capabilities",
	Long: `Display the provider version, compiled capability flags, FIPS status,
kernel crypto availability, and the digest algorithms in this build`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)

		report := &CapabilityReport{
			Version:      backend.Version(),
			Capabilities: backend.Capabilities().String(),
			FIPSMode:     backend.FIPSMode(),
			KernelCipher: cipher.KernelAvailable(),
			Digests:      algorithm.Digests(),
		}

		if err := printer.PrintCapabilities(report); err != nil {
			handleError(err)
		}
	},
}
