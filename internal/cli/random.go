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
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-crypto-backend/pkg/metrics"
	"github.com/jeremyhahn/go-crypto-backend/pkg/rand"
)

// randomCmd represents the random command
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Generate random bytes",
	Long: `Generate random bytes from the configured entropy source.

The quality hint routes hardware sources: "key" marks the bytes as key
material, "salt" as salt, and "normal" as general purpose. Software
sources treat all three the same.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		count, _ := cmd.Flags().GetInt("bytes")
		qualityName, _ := cmd.Flags().GetString("quality")
		encoding, _ := cmd.Flags().GetString("encoding")

		quality, err := parseQuality(qualityName)
		if err != nil {
			handleError(err)
			return
		}

		resolver, err := cfg.CreateEntropyResolver()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = resolver.Close() }()

		printVerbose("Drawing %d bytes from %s source", count, cfg.RandomSource)

		buf := make([]byte, count)
		start := time.Now()
		if err := resolver.Fill(buf, quality); err != nil {
			metrics.RecordOperation(metrics.OpRandom, cfg.RandomSource, metrics.StatusError, time.Since(start).Seconds())
			handleError(err)
			return
		}
		metrics.RecordOperation(metrics.OpRandom, cfg.RandomSource, metrics.StatusSuccess, time.Since(start).Seconds())
		metrics.RecordEntropy(cfg.RandomSource, count)

		if encoding == "raw" {
			if _, err := os.Stdout.Write(buf); err != nil {
				handleError(err)
			}
			return
		}

		var encoded string
		switch encoding {
		case "hex":
			encoded = hex.EncodeToString(buf)
		case "base64":
			encoded = base64.StdEncoding.EncodeToString(buf)
		default:
			handleError(fmt.Errorf("unknown encoding: %s", encoding))
			return
		}

		if err := printer.PrintRandom(encoded, encoding, cfg.RandomSource); err != nil {
			handleError(err)
		}
	},
}

func init() {
	randomCmd.Flags().Int("bytes", 32, "Number of random bytes")
	randomCmd.Flags().String("quality", "normal", "Entropy quality hint (normal, salt, key)")
	randomCmd.Flags().String("encoding", "hex", "Output encoding (hex, base64, raw)")
}

// parseQuality maps a quality flag value to the resolver hint
func parseQuality(name string) (rand.Quality, error) {
	switch name {
	case "normal":
		return rand.QualityNormal, nil
	case "salt":
		return rand.QualitySalt, nil
	case "key":
		return rand.QualityKey, nil
	default:
		return 0, fmt.Errorf("unknown quality: %s", name)
	}
}
