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
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-crypto-backend/internal/zeroize"
	"github.com/jeremyhahn/go-crypto-backend/pkg/digest"
	"github.com/jeremyhahn/go-crypto-backend/pkg/metrics"
)

// digestEngine is the streaming surface shared by hash and HMAC contexts
type digestEngine interface {
	Write(p []byte) error
	Final(out []byte) error
	Size() int
	Close() error
}

// digestCmd represents the digest command
var digestCmd = &cobra.Command{
	Use:   "digest [file...]",
	Short: "Compute message digests and HMACs",
	Long: `Compute a message digest over one or more files, or over standard
input when no files are given.

With --hmac-key-hex the output is a keyed HMAC instead of a plain
digest. With --length the output is truncated to the leading bytes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		name, _ := cmd.Flags().GetString("algorithm")
		keyHex, _ := cmd.Flags().GetString("hmac-key-hex")
		length, _ := cmd.Flags().GetInt("length")

		engine, operation, err := newDigestEngine(name, keyHex)
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = engine.Close() }()

		if length <= 0 {
			length = engine.Size()
		}

		sources := args
		if len(sources) == 0 {
			sources = []string{"-"}
		}

		printVerbose("Computing %s over %d source(s)", name, len(sources))

		// One engine digests the whole sequence; finalizing restarts it
		// between sources.
		for _, source := range sources {
			start := time.Now()
			sum, n, err := digestSource(engine, source, length)
			if err != nil {
				metrics.RecordOperation(operation, name, metrics.StatusError, time.Since(start).Seconds())
				handleError(fmt.Errorf("failed to digest %s: %w", source, err))
				return
			}
			metrics.RecordOperation(operation, name, metrics.StatusSuccess, time.Since(start).Seconds())
			metrics.RecordBytes(operation, name, n)

			if err := printer.PrintDigest(name, source, sum); err != nil {
				handleError(err)
				return
			}
		}
	},
}

func init() {
	digestCmd.Flags().String("algorithm", "sha256", "Digest algorithm (see 'cryptobackend capabilities')")
	digestCmd.Flags().String("hmac-key-hex", "", "Hex-encoded HMAC key; switches to HMAC mode")
	digestCmd.Flags().Int("length", 0, "Output length in bytes (0 = full digest)")
}

// newDigestEngine builds a hash or HMAC context from the flag values
func newDigestEngine(name, keyHex string) (digestEngine, string, error) {
	if keyHex == "" {
		h, err := digest.NewHash(name)
		if err != nil {
			return nil, metrics.OpDigest, err
		}
		return h, metrics.OpDigest, nil
	}

	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, metrics.OpHMAC, fmt.Errorf("invalid HMAC key: %w", err)
	}
	defer zeroize.Bytes(key)

	m, err := digest.NewHMAC(name, key)
	if err != nil {
		return nil, metrics.OpHMAC, err
	}
	return m, metrics.OpHMAC, nil
}

// digestSource streams one file (or stdin for "-") through the engine
// and finalizes into a fresh buffer of the requested length. It returns
// the digest and the number of message bytes consumed.
func digestSource(engine digestEngine, source string, length int) ([]byte, int, error) {
	var in io.Reader
	if source == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, 0, err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	var total int
	buf := make([]byte, 64*1024)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if werr := engine.Write(buf[:n]); werr != nil {
				return nil, total, werr
			}
			total += n
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, total, err
		}
	}

	sum := make([]byte, length)
	if err := engine.Final(sum); err != nil {
		return nil, total, err
	}
	return sum, total, nil
}
