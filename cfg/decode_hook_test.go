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
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindFlag(t *testing.T, v *viper.Viper, key string, f *flag.Flag) {
	t.Helper()
	err := v.BindPFlag(key, f)
	if err != nil {
		t.Fatalf("Error occured while binding key: %s to flag: %v", key, err)
	}
}

func TestParsingSuccess(t *testing.T) {
	t.Parallel()
	type TestConfig struct {
		OctalParam       Octal
		FloatParam       float64
		StringSliceParam []string
		LogSeverityParam LogSeverity
		PathParam        ResolvedPath
	}
	parse := func(t *testing.T, args []string) TestConfig {
		t.Helper()
		fs := flag.NewFlagSet("test", flag.ContinueOnError)
		fs.String("octalParam", "0", "")
		fs.Float64("floatParam", 0.0, "")
		fs.StringSlice("stringSliceParam", []string{}, "")
		fs.String("logSeverityParam", "INFO", "")
		fs.String("pathParam", "", "")
		v := viper.New()
		bindFlag(t, v, "OctalParam", fs.Lookup("octalParam"))
		bindFlag(t, v, "FloatParam", fs.Lookup("floatParam"))
		bindFlag(t, v, "StringSliceParam", fs.Lookup("stringSliceParam"))
		bindFlag(t, v, "LogSeverityParam", fs.Lookup("logSeverityParam"))
		bindFlag(t, v, "PathParam", fs.Lookup("pathParam"))
		require.NoError(t, fs.Parse(args))

		var c TestConfig
		require.NoError(t, v.Unmarshal(&c, viper.DecodeHook(DecodeHook())))
		return c
	}
	tests := []struct {
		name   string
		args   []string
		testFn func(*testing.T, TestConfig)
	}{
		{
			name: "Octal",
			args: []string{"--octalParam=755"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.Equal(t, Octal(0755), c.OctalParam)
			},
		},
		{
			name: "Float",
			args: []string{"--floatParam=0.25"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.Equal(t, 0.25, c.FloatParam)
			},
		},
		{
			name: "StringSlice",
			args: []string{"--stringSliceParam=a,b", "--stringSliceParam=c"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.ElementsMatch(t, []string{"a", "b", "c"}, c.StringSliceParam)
			},
		},
		{
			name: "LogSeverity",
			args: []string{"--logSeverityParam=warning"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.Equal(t, WarningLogSeverity, c.LogSeverityParam)
			},
		},
		{
			name: "ResolvedPath",
			args: []string{"--pathParam=/var/log/failfs.log"},
			testFn: func(t *testing.T, c TestConfig) {
				assert.Equal(t, ResolvedPath("/var/log/failfs.log"), c.PathParam)
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.testFn(t, parse(t, tc.args))
		})
	}
}

func TestParsingError(t *testing.T) {
	t.Parallel()
	type TestConfig struct {
		OctalParam       Octal
		LogSeverityParam LogSeverity
	}
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "Octal",
			args: []string{"--octalParam=999"},
		},
		{
			name: "LogSeverity",
			args: []string{"--logSeverityParam=abc"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.String("octalParam", "0", "")
			fs.String("logSeverityParam", "INFO", "")
			v := viper.New()
			bindFlag(t, v, "OctalParam", fs.Lookup("octalParam"))
			bindFlag(t, v, "LogSeverityParam", fs.Lookup("logSeverityParam"))
			require.NoError(t, fs.Parse(tc.args))
			var c TestConfig

			err := v.Unmarshal(&c, viper.DecodeHook(DecodeHook()))

			assert.Error(t, err)
		})
	}
}
