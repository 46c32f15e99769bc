// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptotoken.
//
// go-cryptotoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics exposes Prometheus metrics for token operations and
// backend calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all token metrics
	Namespace = "cryptotoken"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpSign        = "sign"
	OpDecrypt     = "decrypt"
	OpKeyExchange = "key_exchange"
	OpEnumerate   = "enumerate"
	OpHealthCheck = "health_check"
)

var (
	// OperationsTotal counts token operations by type and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of token operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// BackendCallDuration observes the latency of backend RPC calls.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Latency of remote signing backend calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelOperation},
	)
)

// RecordOperation increments the operation counter for the outcome.
func RecordOperation(operation string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveBackendCall records the duration of one backend call.
func ObserveBackendCall(operation string, start time.Time) {
	BackendCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
