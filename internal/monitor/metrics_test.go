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
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewFSMetrics(reg)
	require.NoError(t, err)

	m.RequestReceived("ReadFile")
	m.RequestReceived("ReadFile")
	m.RequestReceived("LookUpInode")
	m.RequestFailed("ReadFile", "EOWNERDEAD")
	m.BytesRead(100)
	m.BytesRead(28)
	m.FaultInjected()
	m.RecordReadLatency(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("ReadFile")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("LookUpInode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("ReadFile", "EOWNERDEAD")))
	assert.Equal(t, 128.0, testutil.ToFloat64(m.readBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.injectedFaults))
	assert.Equal(t, 1, testutil.CollectAndCount(m.readLatency))
}

func TestIndependentRegistries(t *testing.T) {
	first, err := NewFSMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	second, err := NewFSMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	first.FaultInjected()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.injectedFaults))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.injectedFaults))
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewFSMetrics(reg)
	require.NoError(t, err)

	_, err = NewFSMetrics(reg)

	assert.Error(t, err)
}

func TestStartPrometheusExporterDisabled(t *testing.T) {
	assert.Nil(t, StartPrometheusExporter(0, prometheus.NewRegistry()))
	assert.Nil(t, StartPrometheusExporter(-1, prometheus.NewRegistry()))
}

func TestPrometheusExporterServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewFSMetrics(reg)
	require.NoError(t, err)
	m.FaultInjected()
	server, err := enablePrometheusExporter("127.0.0.1:0", reg)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, closePrometheusExporter(context.Background(), server))
	}()

	resp, err := http.Get("http://" + server.Addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "failfs_injected_faults 1")
}
