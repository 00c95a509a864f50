// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package monitor

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	methodLabel = "method"
	errnoLabel  = "errno"
)

// FSMetrics holds the file system metrics of one server. Every instance
// registers its own collectors, so independent servers never share counts.
type FSMetrics struct {
	requests       *prometheus.CounterVec
	errors         *prometheus.CounterVec
	readBytes      prometheus.Counter
	injectedFaults prometheus.Counter
	readLatency    prometheus.Histogram
}

// NewFSMetrics creates the metrics and registers them with reg.
func NewFSMetrics(reg prometheus.Registerer) (*FSMetrics, error) {
	m := &FSMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failfs_fs_requests",
				Help: "Number of requests per file system API.",
			},
			[]string{methodLabel},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "failfs_fs_errors",
				Help: "Number of failed requests per file system API and errno.",
			},
			[]string{methodLabel, errnoLabel},
		),
		readBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "failfs_read_bytes",
				Help: "Number of bytes served by ReadFile.",
			},
		),
		injectedFaults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "failfs_injected_faults",
				Help: "Number of reads failed on purpose.",
			},
		),
		readLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "failfs_read_file_latency",
				Help:    "The latency of ReadFile file system requests in ms.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.errors, m.readBytes, m.injectedFaults, m.readLatency} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}

	return m, nil
}

func (m *FSMetrics) RequestReceived(method string) {
	m.requests.With(prometheus.Labels{methodLabel: method}).Inc()
}

func (m *FSMetrics) RequestFailed(method, errno string) {
	m.errors.With(prometheus.Labels{methodLabel: method, errnoLabel: errno}).Inc()
}

func (m *FSMetrics) BytesRead(n int) {
	m.readBytes.Add(float64(n))
}

func (m *FSMetrics) FaultInjected() {
	m.injectedFaults.Inc()
}

func (m *FSMetrics) RecordReadLatency(start time.Time) {
	latency := float64(time.Since(start).Microseconds()) / 1000
	m.readLatency.Observe(latency)
}
