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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-crypto-backend/pkg/benchmark"
	"github.com/jeremyhahn/go-crypto-backend/pkg/kdf"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintDigest prints a computed digest for one input source
func (p *Printer) PrintDigest(algorithm, source string, sum []byte) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"algorithm": algorithm,
			"source":    source,
			"digest":    hex.EncodeToString(sum),
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-12s %-64s %s\n", algorithm, hex.EncodeToString(sum), source)
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "%s  %s\n", hex.EncodeToString(sum), source)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRandom prints encoded random data
func (p *Printer) PrintRandom(encoded, encoding, source string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"random":   encoded,
			"encoding": encoding,
			"source":   source,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, encoded)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDerivedKey prints a derived key together with the salt that
// produced it
func (p *Printer) PrintDerivedKey(params *kdf.Params, key, salt []byte) error {
	switch p.format {
	case OutputFormatJSON:
		info := map[string]interface{}{
			"kdf":  params.Family,
			"key":  hex.EncodeToString(key),
			"salt": hex.EncodeToString(salt),
		}
		if params.Family == kdf.FamilyPBKDF2 {
			info["hash"] = params.Hash
			info["iterations"] = params.Iterations
		} else {
			info["iterations"] = params.Iterations
			info["memory"] = params.Memory
			info["parallelism"] = params.Parallelism
		}
		return p.printJSON(info)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Key:  %s\n", hex.EncodeToString(key))
		fmt.Fprintf(p.writer, "Salt: %s\n", hex.EncodeToString(salt))
		if params.Family == kdf.FamilyPBKDF2 {
			fmt.Fprintf(p.writer, "KDF:  %s (%s, %d iterations)\n",
				params.Family, params.Hash, params.Iterations)
		} else {
			fmt.Fprintf(p.writer, "KDF:  %s (t=%d, m=%d KiB, p=%d)\n",
				params.Family, params.Iterations, params.Memory, params.Parallelism)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintCapabilities prints the provider capability report
func (p *Printer) PrintCapabilities(report *CapabilityReport) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(report)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Version:       %s\n", report.Version)
		fmt.Fprintf(p.writer, "Capabilities:  %s\n", report.Capabilities)
		fmt.Fprintf(p.writer, "FIPS Mode:     %t\n", report.FIPSMode)
		fmt.Fprintf(p.writer, "Kernel Cipher: %t\n", report.KernelCipher)
		fmt.Fprintf(p.writer, "Digests:       %s\n", strings.Join(report.Digests, ", "))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintBenchmarkReport prints a benchmark suite report
func (p *Printer) PrintBenchmarkReport(report *benchmark.Report) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(report)
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "Report: %s (%s)\n\n", report.ID, report.Backend)
		if len(report.Ciphers) > 0 {
			fmt.Fprintf(p.writer, "%-16s %-10s %14s %14s\n", "SUITE", "BACKEND", "ENCRYPT MiB/s", "DECRYPT MiB/s")
			fmt.Fprintln(p.writer, strings.Repeat("-", 58))
			for _, c := range report.Ciphers {
				fmt.Fprintf(p.writer, "%-16s %-10s %14.1f %14.1f\n",
					c.Suite, c.Backend, c.EncryptMiBs, c.DecryptMiBs)
			}
		}
		if len(report.KDFs) > 0 {
			fmt.Fprintf(p.writer, "\n%-10s %-10s %12s %12s %6s\n", "KDF", "HASH", "ITERATIONS", "MEMORY KiB", "LANES")
			fmt.Fprintln(p.writer, strings.Repeat("-", 56))
			for _, k := range report.KDFs {
				fmt.Fprintf(p.writer, "%-10s %-10s %12d %12d %6d\n",
					k.Family, k.Hash, k.Iterations, k.Memory, k.Parallelism)
			}
		}
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Benchmark report %s\n", report.ID)
		fmt.Fprintf(p.writer, "Backend: %s\n", report.Backend)
		for _, c := range report.Ciphers {
			fmt.Fprintf(p.writer, "  %s (%s): encrypt %.1f MiB/s, decrypt %.1f MiB/s\n",
				c.Suite, c.Backend, c.EncryptMiBs, c.DecryptMiBs)
		}
		for _, k := range report.KDFs {
			if k.Family == kdf.FamilyPBKDF2 {
				fmt.Fprintf(p.writer, "  %s (%s): %d iterations (%.0f/s)\n",
					k.Family, k.Hash, k.Iterations, k.PerSecond)
			} else {
				fmt.Fprintf(p.writer, "  %s: t=%d, m=%d KiB, p=%d\n",
					k.Family, k.Iterations, k.Memory, k.Parallelism)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
