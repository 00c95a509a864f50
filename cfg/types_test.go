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

package cfg

import (
	"fmt"
	"os"
	"path"
	"testing"
	"time"

	"github.com/googlecloudplatform/failfs/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOctalTypeInConfigMarshalling(t *testing.T) {
	c := Config{
		FileSystem: FileSystemConfig{
			DirMode: 0755,
		},
	}

	str, err := Stringify(&c)

	if assert.NoError(t, err) {
		assert.Contains(t, str, `dir-mode: "755"`)
	}
}

func TestOctalUnmarshalling(t *testing.T) {
	t.Parallel()
	tests := []struct {
		str      string
		expected Octal
		wantErr  bool
	}{
		{
			str:      "753",
			expected: 0753,
			wantErr:  false,
		},
		{
			str:      "0644",
			expected: 0644,
			wantErr:  false,
		},
		{
			str:     "945",
			wantErr: true,
		},
		{
			str:     "abc",
			wantErr: true,
		},
	}

	for idx, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("octal-unmarshalling: %d", idx), func(t *testing.T) {
			t.Parallel()
			var o Octal

			err := (&o).UnmarshalText([]byte(tc.str))

			if tc.wantErr {
				assert.Error(t, err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tc.expected, o)
			}
		})
	}
}

func TestLogSeverityUnmarshalling(t *testing.T) {
	t.Parallel()
	tests := []struct {
		str      string
		expected LogSeverity
		wantErr  bool
	}{
		{
			str:      "trace",
			expected: TraceLogSeverity,
		},
		{
			str:      "Warning",
			expected: WarningLogSeverity,
		},
		{
			str:      "OFF",
			expected: OffLogSeverity,
		},
		{
			str:     "warn",
			wantErr: true,
		},
		{
			str:     "",
			wantErr: true,
		},
	}

	for idx, tc := range tests {
		tc := tc
		t.Run(fmt.Sprintf("log-severity-unmarshalling: %d", idx), func(t *testing.T) {
			t.Parallel()
			var l LogSeverity

			err := (&l).UnmarshalText([]byte(tc.str))

			if tc.wantErr {
				assert.Error(t, err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tc.expected, l)
			}
		})
	}
}

func TestLogSeverityRanking(t *testing.T) {
	assert.Less(t, TraceLogSeverity.Rank(), DebugLogSeverity.Rank())
	assert.Less(t, DebugLogSeverity.Rank(), InfoLogSeverity.Rank())
	assert.Less(t, InfoLogSeverity.Rank(), WarningLogSeverity.Rank())
	assert.Less(t, WarningLogSeverity.Rank(), ErrorLogSeverity.Rank())
	assert.Less(t, ErrorLogSeverity.Rank(), OffLogSeverity.Rank())
	assert.Equal(t, -1, LogSeverity("LOUD").Rank())
}

func TestResolvedPathUnmarshalling(t *testing.T) {
	h, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv(util.FAILFS_PARENT_PROCESS_DIR, "/parent")
	tests := []struct {
		str      string
		expected ResolvedPath
	}{
		{
			str:      "",
			expected: "",
		},
		{
			str:      "/a/b",
			expected: "/a/b",
		},
		{
			str:      "~/test.txt",
			expected: ResolvedPath(path.Join(h, "test.txt")),
		},
		{
			str:      "logs/failfs.log",
			expected: "/parent/logs/failfs.log",
		},
	}

	for idx, tc := range tests {
		t.Run(fmt.Sprintf("resolved-path-unmarshalling: %d", idx), func(t *testing.T) {
			var p ResolvedPath

			err := (&p).UnmarshalText([]byte(tc.str))

			if assert.NoError(t, err) {
				assert.Equal(t, tc.expected, p)
			}
		})
	}
}

func TestMetadataCacheTTL(t *testing.T) {
	c := MetadataCacheConfig{TtlSecs: 90}

	assert.Equal(t, 90*time.Second, c.TTL())
}

func TestIsMetricsEnabled(t *testing.T) {
	assert.False(t, IsMetricsEnabled(&MetricsConfig{}))
	assert.False(t, IsMetricsEnabled(&MetricsConfig{PrometheusPort: -1}))
	assert.True(t, IsMetricsEnabled(&MetricsConfig{PrometheusPort: 9100}))
}
