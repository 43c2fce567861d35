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

// Package metrics provides Prometheus instrumentation for crypto backend
// operations. It exposes operation counters, latency histograms, error
// counters and throughput counters so embedding applications can monitor
// digest, cipher, KDF and entropy activity.
//
// The crypto engines themselves stay free of instrumentation; recording
// happens at the call sites that drive them (CLI commands, benchmark
// runs, embedding services).
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all crypto backend metrics
	Namespace = "cryptobackend"

	// Label names
	LabelOperation = "operation"
	LabelAlgorithm = "algorithm"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelSource    = "source"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpDigest  = "digest"
	OpHMAC    = "hmac"
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
	OpDerive  = "derive"
	OpRandom  = "random"
	OpAFSplit = "af_split"
	OpAFMerge = "af_merge"
)

var (
	// OperationsTotal tracks the total number of crypto operations by
	// type, algorithm, and status. Use RecordOperation to increment this
	// counter with the appropriate labels.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of crypto operations by type, algorithm, and status",
		},
		[]string{LabelOperation, LabelAlgorithm, LabelStatus},
	)

	// OperationDuration tracks the duration of crypto operations in
	// seconds. Buckets span sector-sized cipher calls (microseconds) up
	// to memory-hard KDF derivations (seconds).
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of crypto operations in seconds",
			Buckets:   []float64{.000005, .00005, .0005, .005, .05, .25, 1, 2.5, 5, 10},
		},
		[]string{LabelOperation, LabelAlgorithm},
	)

	// ErrorsTotal tracks the total number of errors by operation and
	// error type. Error types should be specific (e.g. "unknown_algorithm",
	// "length_exceeded", "entropy_failure").
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// BytesProcessedTotal tracks the bytes pushed through digest and
	// cipher operations, for throughput monitoring.
	BytesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bytes_processed_total",
			Help:      "Total bytes processed by digest and cipher operations",
		},
		[]string{LabelOperation, LabelAlgorithm},
	)

	// EntropyBytesTotal tracks the bytes drawn from each entropy source.
	EntropyBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "entropy_bytes_total",
			Help:      "Total bytes drawn from each entropy source",
		},
		[]string{LabelSource},
	)

	// Goroutines tracks the current number of goroutines.
	// Updated periodically by the resource collector.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	// Updated periodically by the resource collector.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// MemorySysBytes tracks the total bytes of memory obtained from the OS.
	// Updated periodically by the resource collector.
	MemorySysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_sys_bytes",
			Help:      "Total bytes of memory obtained from the OS",
		},
	)

	// GCPauseTotalSeconds tracks the cumulative time spent in GC
	// stop-the-world pauses. Updated periodically by the resource
	// collector.
	GCPauseTotalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gc_pause_total_seconds",
			Help:      "Cumulative time spent in GC stop-the-world pauses",
		},
	)

	// ProcessUptimeSeconds tracks seconds since the resource collector
	// started.
	ProcessUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "process_uptime_seconds",
			Help:      "Seconds since the resource collector started",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a crypto operation with its duration and status.
//
// Parameters:
//   - operation: The operation name (use Op* constants)
//   - algorithm: The algorithm identifier (e.g. "sha256", "aes-256-xts", "argon2id")
//   - status: The operation status (use Status* constants)
//   - duration: The operation duration in seconds
//
// Example:
//
//	start := time.Now()
//	err := session.Encrypt(dst, src, iv)
//	duration := time.Since(start).Seconds()
//	if err != nil {
//	    metrics.RecordOperation(metrics.OpEncrypt, "aes-256-xts", metrics.StatusError, duration)
//	} else {
//	    metrics.RecordOperation(metrics.OpEncrypt, "aes-256-xts", metrics.StatusSuccess, duration)
//	}
func RecordOperation(operation, algorithm, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, algorithm, status).Inc()
	OperationDuration.WithLabelValues(operation, algorithm).Observe(duration)
}

// RecordError records an error event with context about where it occurred.
//
// Parameters:
//   - operation: The operation during which the error occurred (use Op* constants)
//   - errorType: A specific error type identifier (e.g. "unknown_algorithm")
func RecordError(operation, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordBytes adds n to the processed-byte counter for an operation.
func RecordBytes(operation, algorithm string, n int) {
	if !enabled.Load() {
		return
	}
	BytesProcessedTotal.WithLabelValues(operation, algorithm).Add(float64(n))
}

// RecordEntropy adds n to the entropy-byte counter for a source.
func RecordEntropy(source string, n int) {
	if !enabled.Load() {
		return
	}
	EntropyBytesTotal.WithLabelValues(source).Add(float64(n))
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
