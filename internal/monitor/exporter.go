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
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/googlecloudplatform/failfs/common"
	"github.com/googlecloudplatform/failfs/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartPrometheusExporter serves the metrics gathered by g on the given port
// under /metrics. It returns nil when the port is not positive or the
// exporter fails to start.
func StartPrometheusExporter(port int64, g prometheus.Gatherer) common.ShutdownFn {
	if port <= 0 {
		logger.Info("Not starting the Prometheus exporter since port is not specified")
		return nil
	}

	server, err := enablePrometheusExporter(fmt.Sprintf(":%d", port), g)
	if err != nil {
		logger.Errorf("Unable to start Prometheus exporter: %v", err)
		return nil
	}

	return func(ctx context.Context) error {
		return closePrometheusExporter(ctx, server)
	}
}

// enablePrometheusExporter listens on addr before returning, so that a port
// conflict is reported to the caller.
func enablePrometheusExporter(addr string, g prometheus.Gatherer) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog: logger.NewLegacyLogger(logger.LevelError, "prometheus: "),
	}))
	server := &http.Server{
		Addr:           listener.Addr().String(),
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Failed to serve Prometheus metrics: %v", err)
		}
	}()

	logger.Infof("Prometheus exporter started on %s", server.Addr)
	return server, nil
}

func closePrometheusExporter(ctx context.Context, server *http.Server) error {
	logger.Info("Stopping Prometheus exporter")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown Prometheus server: %w", err)
	}
	return nil
}
