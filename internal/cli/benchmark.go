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

	"github.com/jeremyhahn/go-crypto-backend/pkg/benchmark"
	"github.com/jeremyhahn/go-crypto-backend/pkg/logging"
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Benchmark ciphers and calibrate KDF costs",
	Long: `Measure cipher throughput and calibrate KDF cost parameters on this
machine.

Without --suite the stock benchmark set runs: PBKDF2 across the common
PRFs, both Argon2 variants, and the AES constructions used for volume
keys and sectors. A suite file is YAML with the same fields the stock
set uses.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		suitePath, _ := cmd.Flags().GetString("suite")
		kdfTargetMS, _ := cmd.Flags().GetInt("kdf-target-ms")
		cipherDurationMS, _ := cmd.Flags().GetInt("cipher-duration-ms")
		bufferKiB, _ := cmd.Flags().GetInt("buffer-kib")
		cipherBackend, _ := cmd.Flags().GetString("cipher-backend")

		suite := benchmark.DefaultSuite()
		if suitePath != "" {
			loaded, err := benchmark.LoadSuite(suitePath)
			if err != nil {
				handleError(err)
				return
			}
			suite = loaded
		}

		// Command line overrides win over the suite file.
		if cmd.Flags().Changed("kdf-target-ms") {
			suite.KDFTargetMS = kdfTargetMS
		}
		if cmd.Flags().Changed("cipher-duration-ms") {
			suite.CipherDurationMS = cipherDurationMS
		}
		if cmd.Flags().Changed("buffer-kib") {
			suite.BufferKiB = bufferKiB
		}
		if cmd.Flags().Changed("cipher-backend") {
			suite.Backend = cipherBackend
		}
		suite.Logger = logging.NewLogger(cfg.Verbose)

		printVerbose("Running %d cipher and %d KDF cases",
			len(suite.Ciphers), len(suite.KDFs))

		report, err := suite.Run()
		if err != nil {
			handleError(err)
			return
		}

		if err := printer.PrintBenchmarkReport(report); err != nil {
			handleError(err)
		}
	},
}

func init() {
	benchmarkCmd.Flags().String("suite", "", "YAML benchmark suite file (empty = stock set)")
	benchmarkCmd.Flags().Int("kdf-target-ms", 2000, "Target wall time per derivation in milliseconds")
	benchmarkCmd.Flags().Int("cipher-duration-ms", 1000, "Measured time per cipher direction in milliseconds")
	benchmarkCmd.Flags().Int("buffer-kib", 1024, "Cipher payload per call in KiB")
	benchmarkCmd.Flags().String("cipher-backend", "", "Cipher backend (auto, software, kernel)")
}
