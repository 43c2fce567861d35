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
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-crypto-backend/internal/password"
	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
	"github.com/jeremyhahn/go-crypto-backend/pkg/metrics"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

// deriveCmd represents the derive command
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a key from a passphrase",
	Long: `Derive key material from a passphrase using PBKDF2 or Argon2.

The passphrase is read from the terminal without echo, or from standard
input when not attached to a terminal. Without --salt-hex a random salt
is drawn from the configured entropy source and printed alongside the
key so the derivation can be repeated.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		family, _ := cmd.Flags().GetString("kdf")
		hashName, _ := cmd.Flags().GetString("hash")
		iterations, _ := cmd.Flags().GetUint32("iterations")
		memory, _ := cmd.Flags().GetUint32("memory")
		parallelism, _ := cmd.Flags().GetUint32("parallelism")
		saltHex, _ := cmd.Flags().GetString("salt-hex")
		length, _ := cmd.Flags().GetInt("length")

		params := &kdf.Params{
			Family:      family,
			Hash:        hashName,
			Iterations:  iterations,
			Memory:      memory,
			Parallelism: parallelism,
		}
		applyCostDefaults(params)

		salt, err := resolveSalt(cfg, saltHex)
		if err != nil {
			handleError(err)
			return
		}

		passphrase, err := password.Read("Enter passphrase: ")
		if err != nil {
			handleError(err)
			return
		}
		defer zeroize.Bytes(passphrase)

		printVerbose("Deriving %d byte key with %s", length, family)

		key := make([]byte, length)
		start := time.Now()
		if err := kdf.Derive(params, passphrase, salt, key); err != nil {
			metrics.RecordOperation(metrics.OpDerive, family, metrics.StatusError, time.Since(start).Seconds())
			handleError(err)
			return
		}
		metrics.RecordOperation(metrics.OpDerive, family, metrics.StatusSuccess, time.Since(start).Seconds())

		if err := printer.PrintDerivedKey(params, key, salt); err != nil {
			handleError(err)
		}
		zeroize.Bytes(key)
	},
}

func init() {
	deriveCmd.Flags().String("kdf", kdf.FamilyPBKDF2, "KDF family (pbkdf2, argon2i, argon2id)")
	deriveCmd.Flags().String("hash", "sha256", "PRF digest for pbkdf2")
	deriveCmd.Flags().Uint32("iterations", 0, "Iteration count or argon2 time cost (0 = family default)")
	deriveCmd.Flags().Uint32("memory", 65536, "Argon2 memory cost in KiB")
	deriveCmd.Flags().Uint32("parallelism", 4, "Argon2 lane count")
	deriveCmd.Flags().String("salt-hex", "", "Hex-encoded salt (empty = random 16 bytes)")
	deriveCmd.Flags().Int("length", 32, "Derived key length in bytes")
}

// applyCostDefaults fills in the family default cost when the caller
// left iterations at zero.
func applyCostDefaults(params *kdf.Params) {
	if params.Iterations != 0 {
		return
	}
	if params.Family == kdf.FamilyPBKDF2 {
		params.Iterations = 600000
	} else {
		params.Iterations = 4
	}
}

// resolveSalt decodes the provided salt or draws a random one from the
// configured entropy source.
func resolveSalt(cfg *Config, saltHex string) ([]byte, error) {
	if saltHex != "" {
		salt, err := hex.DecodeString(saltHex)
		if err != nil {
			return nil, fmt.Errorf("invalid salt: %w", err)
		}
		return salt, nil
	}

	resolver, err := cfg.CreateEntropyResolver()
	if err != nil {
		return nil, err
	}
	defer func() { _ = resolver.Close() }()

	salt := make([]byte, 16)
	if err := resolver.Fill(salt, rand.QualitySalt); err != nil {
		return nil, err
	}
	metrics.RecordEntropy(cfg.RandomSource, len(salt))
	return salt, nil
}
