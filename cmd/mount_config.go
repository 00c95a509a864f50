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

package cmd

import (
	"context"

	"github.com/googlecloudplatform/failfs/cfg"
	"github.com/googlecloudplatform/failfs/internal/logger"
	"github.com/googlecloudplatform/failfs/internal/mount"
	"github.com/jacobsa/fuse"
)

func getFuseMountConfig(ctx context.Context, c *cfg.Config) *fuse.MountConfig {
	mountCfg := &fuse.MountConfig{
		OpContext:   ctx,
		FSName:      cfg.FSName,
		Subtype:     cfg.FSName,
		VolumeName:  cfg.FSName,
		ReadOnly:    true,
		Options:     mount.ParseOptionList(c.FileSystem.FuseOptions),
		ErrorLogger: logger.NewLegacyLogger(logger.LevelError, "fuse: "),
	}

	// The fuse connection is very chatty, hence TRACE.
	if c.Debug.Fuse {
		mountCfg.DebugLogger = logger.NewLegacyLogger(logger.LevelTrace, "fuse_debug: ")
	}

	return mountCfg
}
