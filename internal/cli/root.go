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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-crypto-backend/pkg/backend"
	"github.com/jeremyhahn/go-crypto-backend/pkg/metrics"
)

var (
	// Global configuration
	globalConfig *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cryptobackend",
	Short: "go-crypto-backend CLI - Disk encryption crypto primitives tool",
	Long: `go-crypto-backend CLI exposes the cryptographic primitives used by
disk encryption tooling: message digests and HMACs, password-based
key derivation, entropy gathering, and cipher benchmarking.

Entropy sources:
  - auto:     prefer hardware sources, fall back to software
  - software: the operating system CSPRNG
  - tpm2:     TPM 2.0 hardware RNG (requires tpm2 build tag)
  - pkcs11:   PKCS#11 HSM RNG (requires pkcs11 build tag)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !globalConfig.Metrics {
			metrics.Disable()
		}
		if err := backend.Init(); err != nil {
			return err
		}
		printVerbose("Backend initialized: %s", backend.Version())
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Initialize global config
	globalConfig = NewConfig()

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&globalConfig.ConfigFile, "config", "",
		"config file (default is $HOME/.cryptobackend.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalConfig.RandomSource, "random-source", "auto",
		"entropy source (auto, software, tpm2, pkcs11)")
	rootCmd.PersistentFlags().StringVarP(&globalConfig.OutputFormat, "output", "o", "text",
		"output format (text, json, table)")
	rootCmd.PersistentFlags().BoolVarP(&globalConfig.Verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVar(&globalConfig.Metrics, "metrics", false,
		"record Prometheus metrics for operations")

	// Config file and environment can supply the same settings
	_ = viper.BindPFlag("random_source", rootCmd.PersistentFlags().Lookup("random-source"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("metrics", rootCmd.PersistentFlags().Lookup("metrics"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(benchmarkCmd)
}

// initConfig reads the config file and environment variables. Values
// from either only apply where the matching flag was not set on the
// command line.
func initConfig() {
	if globalConfig.ConfigFile != "" {
		viper.SetConfigFile(globalConfig.ConfigFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".cryptobackend")
		}
	}

	viper.SetEnvPrefix("CRYPTOBACKEND")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		printVerbose("Using config file: %s", viper.ConfigFileUsed())
	}

	globalConfig.RandomSource = viper.GetString("random_source")
	globalConfig.OutputFormat = viper.GetString("output")
	globalConfig.Metrics = viper.GetBool("metrics")
}

// getConfig returns the global configuration
func getConfig() *Config {
	return globalConfig
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(globalConfig.OutputFormat, os.Stderr)
	_ = printer.PrintError(err) // Error printing to stderr is best-effort
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if globalConfig.Verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
