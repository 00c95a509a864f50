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

package fs

import (
	"context"
	"fmt"

	"github.com/googlecloudplatform/failfs/internal/fs/wrappers"
	"github.com/googlecloudplatform/failfs/internal/monitor"
	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"
)

// Create a fuse file system server according to the supplied configuration.
func NewServer(ctx context.Context, cfg *ServerConfig) (fuse.Server, error) {
	fs, err := NewFileSystem(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create file system: %w", err)
	}

	fs, err = wrap(fs, cfg)
	if err != nil {
		return nil, err
	}

	return fuseutil.NewFileSystemServer(fs), nil
}

// wrap applies, from the inside out: debug logging of the raw errors, errno
// mapping, then monitoring of the mapped errnos.
func wrap(fs fuseutil.FileSystem, cfg *ServerConfig) (fuseutil.FileSystem, error) {
	if cfg.DebugFS {
		fs = wrappers.WithDebugLogging(fs)
	}

	fs = wrappers.WithErrorMapping(fs)

	if cfg.MetricsRegisterer != nil {
		metrics, err := monitor.NewFSMetrics(cfg.MetricsRegisterer)
		if err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
		fs = wrappers.WithMonitoring(fs, metrics)
	}

	return fs, nil
}
