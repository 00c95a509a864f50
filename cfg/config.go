// Copyright 2025 Google LLC
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
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string `yaml:"app-name"`

	Debug DebugConfig `yaml:"debug"`

	FaultInjection FaultInjectionConfig `yaml:"fault-injection"`

	FileName string `yaml:"file-name"`

	FileSystem FileSystemConfig `yaml:"file-system"`

	Foreground bool `yaml:"foreground"`

	Logging LoggingConfig `yaml:"logging"`

	MetadataCache MetadataCacheConfig `yaml:"metadata-cache"`

	Metrics MetricsConfig `yaml:"metrics"`
}

type DebugConfig struct {
	Fuse bool `yaml:"fuse"`
}

type FaultInjectionConfig struct {
	AdvertisedSize int64 `yaml:"advertised-size"`

	FailureThreshold float64 `yaml:"failure-threshold"`

	MinChunks int64 `yaml:"min-chunks"`

	Template string `yaml:"template"`
}

type FileSystemConfig struct {
	DirMode Octal `yaml:"dir-mode"`

	DirectIo bool `yaml:"direct-io"`

	FileMode Octal `yaml:"file-mode"`

	FuseOptions []string `yaml:"fuse-options"`

	Gid int64 `yaml:"gid"`

	Uid int64 `yaml:"uid"`
}

type LogRotateLoggingConfig struct {
	BackupFileCount int64 `yaml:"backup-file-count"`

	Compress bool `yaml:"compress"`

	MaxFileSizeMb int64 `yaml:"max-file-size-mb"`
}

type LoggingConfig struct {
	FilePath ResolvedPath `yaml:"file-path"`

	Format string `yaml:"format"`

	LogRotate LogRotateLoggingConfig `yaml:"log-rotate"`

	Severity LogSeverity `yaml:"severity"`
}

type MetadataCacheConfig struct {
	TtlSecs int64 `yaml:"ttl-secs"`
}

type MetricsConfig struct {
	PrometheusPort int64 `yaml:"prometheus-port"`
}

func BindFlags(v *viper.Viper, flagSet *pflag.FlagSet) error {
	var err error

	flagSet.StringP("app-name", "", "", "The application name of this mount.")

	err = v.BindPFlag("app-name", flagSet.Lookup("app-name"))
	if err != nil {
		return err
	}

	flagSet.BoolP("debug_fuse", "", false, "Enables debug logs of the fuse connection, at TRACE severity.")

	err = v.BindPFlag("debug.fuse", flagSet.Lookup("debug_fuse"))
	if err != nil {
		return err
	}

	flagSet.StringP("dir-mode", "", "0755", "Permissions bits for the root directory, in octal.")

	err = v.BindPFlag("file-system.dir-mode", flagSet.Lookup("dir-mode"))
	if err != nil {
		return err
	}

	flagSet.BoolP("direct-io", "", false, "Open the served file with direct I/O so that every short chunk reaches the reader unchanged.")

	err = v.BindPFlag("file-system.direct-io", flagSet.Lookup("direct-io"))
	if err != nil {
		return err
	}

	flagSet.StringP("file-mode", "", "0644", "Permissions bits for the served file, in octal.")

	err = v.BindPFlag("file-system.file-mode", flagSet.Lookup("file-mode"))
	if err != nil {
		return err
	}

	flagSet.StringP("filename", "f", "test.txt", "Name of the single file served from the root directory.")

	err = v.BindPFlag("file-name", flagSet.Lookup("filename"))
	if err != nil {
		return err
	}

	flagSet.BoolP("foreground", "", false, "Stay in the foreground after mounting.")

	err = v.BindPFlag("foreground", flagSet.Lookup("foreground"))
	if err != nil {
		return err
	}

	flagSet.Int64P("advertised-size", "", 1048576, "File size in bytes reported for the served file, independent of how many bytes are ever served.")

	err = v.BindPFlag("fault-injection.advertised-size", flagSet.Lookup("advertised-size"))
	if err != nil {
		return err
	}

	flagSet.Float64P("failure-threshold", "", 0.72, "Fraction of the advertised size at or above which a read fails.")

	err = v.BindPFlag("fault-injection.failure-threshold", flagSet.Lookup("failure-threshold"))
	if err != nil {
		return err
	}

	flagSet.Int64P("min-chunks", "", 4, "Every read returns at most advertised-size/min-chunks bytes.")

	err = v.BindPFlag("fault-injection.min-chunks", flagSet.Lookup("min-chunks"))
	if err != nil {
		return err
	}

	flagSet.StringP("filler-template", "", "hello world", "Text repeated to produce the content of every served chunk.")

	err = v.BindPFlag("fault-injection.template", flagSet.Lookup("filler-template"))
	if err != nil {
		return err
	}

	flagSet.StringSliceP("o", "", []string{}, "Additional system-specific mount options. Multiple options can be passed as comma separated.")

	err = v.BindPFlag("file-system.fuse-options", flagSet.Lookup("o"))
	if err != nil {
		return err
	}

	flagSet.Int64P("gid", "", -1, "GID owner of all inodes.")

	err = v.BindPFlag("file-system.gid", flagSet.Lookup("gid"))
	if err != nil {
		return err
	}

	flagSet.Int64P("uid", "", -1, "UID owner of all inodes.")

	err = v.BindPFlag("file-system.uid", flagSet.Lookup("uid"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "The file for storing logs. When not provided, logs are printed to stdout.")

	err = v.BindPFlag("logging.file-path", flagSet.Lookup("log-file"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "The format of the log file: 'text' or 'json'.")

	err = v.BindPFlag("logging.format", flagSet.Lookup("log-format"))
	if err != nil {
		return err
	}

	flagSet.Int64P("log-rotate-backup-file-count", "", 10, "The maximum number of backup log files to retain after they have been rotated. A value of 0 indicates all backup files are retained.")

	err = v.BindPFlag("logging.log-rotate.backup-file-count", flagSet.Lookup("log-rotate-backup-file-count"))
	if err != nil {
		return err
	}

	flagSet.BoolP("log-rotate-compress", "", true, "Controls whether the rotated log files should be compressed using gzip.")

	err = v.BindPFlag("logging.log-rotate.compress", flagSet.Lookup("log-rotate-compress"))
	if err != nil {
		return err
	}

	flagSet.Int64P("log-rotate-max-log-file-size-mb", "", 512, "The maximum size in megabytes that a log file can reach before it is rotated.")

	err = v.BindPFlag("logging.log-rotate.max-file-size-mb", flagSet.Lookup("log-rotate-max-log-file-size-mb"))
	if err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", "info", "Specifies the logging severity expressed as one of [trace, debug, info, warning, error, off]")

	err = v.BindPFlag("logging.severity", flagSet.Lookup("log-severity"))
	if err != nil {
		return err
	}

	flagSet.Int64P("ttl-secs", "", 1, "How long the kernel may cache attributes and name lookups, in seconds.")

	err = v.BindPFlag("metadata-cache.ttl-secs", flagSet.Lookup("ttl-secs"))
	if err != nil {
		return err
	}

	flagSet.Int64P("prometheus-port", "", 0, "Expose Prometheus metrics endpoint on this port and a path of /metrics.")

	err = v.BindPFlag("metrics.prometheus-port", flagSet.Lookup("prometheus-port"))
	if err != nil {
		return err
	}

	return nil
}
