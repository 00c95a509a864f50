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
	"fmt"
	"os"
	"strings"

	"github.com/googlecloudplatform/failfs/cfg"
	"github.com/googlecloudplatform/failfs/common"
	"github.com/googlecloudplatform/failfs/internal/util"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type mountFn func(c *cfg.Config, mountPoint string) error

// NewRootCmd accepts the mountFn that it executes with the parsed
// configuration and the resolved mount point.
func NewRootCmd(m mountFn) (*cobra.Command, error) {
	var (
		configObj cfg.Config
		cfgFile   string
	)
	v := viper.New()
	rootCmd := &cobra.Command{
		Use:   "failfs [flags] [mount_point]",
		Short: "Mount a read-only file system whose only file fails part way through",
		Long: `failfs mounts a read-only file system with a single regular file. Reads
of the file return short chunks of filler text, and a read fails with
EOWNERDEAD once it gets close enough to the end of the advertised size, so
that no reader ever receives the whole file. It is meant for exercising the
error handling of programs that read files.`,
		Version:      common.GetVersion(),
		Args:         cobra.RangeArgs(0, 1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile, &configObj); err != nil {
				return err
			}
			mountPoint, err := populateArgs(args)
			if err != nil {
				return fmt.Errorf("error occurred while extracting the mount point: %w", err)
			}
			return m(&configObj, mountPoint)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "The path to the config file where all failfs related config needs to be specified.")
	if err := cfg.BindFlags(v, rootCmd.PersistentFlags()); err != nil {
		return nil, err
	}
	return rootCmd, nil
}

// initConfig reads the optional config file, merges it with the flags and
// validates the result.
func initConfig(v *viper.Viper, cfgFile string, c *cfg.Config) error {
	if cfgFile != "" {
		// The daemon runs from a different directory than its parent.
		cfgFile, err := util.GetResolvedPath(cfgFile)
		if err != nil {
			return fmt.Errorf("resolving config file path: %w", err)
		}
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error while reading the config file: %w", err)
		}
	}

	err := v.Unmarshal(c, viper.DecodeHook(cfg.DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
		// By default, viper supports mapstructure tags for unmarshalling. Override that to support yaml tag.
		decoderConfig.TagName = "yaml"
		// Reject unknown keys in the config file.
		decoderConfig.ErrorUnused = true
	})
	if err != nil {
		return fmt.Errorf("error while parsing config: %w", err)
	}

	if err = cfg.ValidateConfig(c); err != nil {
		return fmt.Errorf("error while validating config: %w", err)
	}
	return nil
}

// populateArgs resolves the optional mount point argument, falling back to
// the default mount point.
func populateArgs(args []string) (mountPoint string, err error) {
	mountPoint = cfg.DefaultMountPoint
	if len(args) == 1 {
		mountPoint = args[0]
	}

	// Canonicalize the mount point, making it absolute. This is important when
	// daemonizing below, since the daemon will change its working directory
	// before running this code again.
	mountPoint, err = util.GetResolvedPath(mountPoint)
	if err != nil {
		err = fmt.Errorf("canonicalizing mount point: %w", err)
		return
	}
	return
}

// convertToPosixArgs rewrites the mount(8) style "-o" into the "--o" flag
// understood by pflag.
func convertToPosixArgs(args []string) []string {
	pArgs := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case a == "-o":
			a = "--o"
		case strings.HasPrefix(a, "-o="):
			a = "-" + a
		}
		pArgs = append(pArgs, a)
	}
	return pArgs
}

// Execute runs the root command with Mount, exiting with a non-zero status
// when it fails.
func Execute() {
	rootCmd, err := NewRootCmd(Mount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create the root command: %v\n", err)
		os.Exit(1)
	}
	rootCmd.SetArgs(convertToPosixArgs(os.Args[1:]))
	if err = rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
