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
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	TtlSecsInvalidValueError          = "the value of ttl-secs for metadata-cache can't be negative"
	TtlSecsTooHighError               = "the value of ttl-secs in metadata-cache is too high to be supported. Max is 9223372036"
	AdvertisedSizeInvalidValueError   = "advertised-size must be a positive number of bytes"
	MinChunksInvalidValueError        = "min-chunks must be a positive integer"
	FailureThresholdInvalidValueError = "failure-threshold must be in the range (0, 1]"
	EmptyTemplateError                = "template must not be empty"
	AdvertisedSizeBelowMinChunksError = "advertised-size can't be smaller than min-chunks"
)

func isValidLogRotateConfig(config *LogRotateLoggingConfig) error {
	if config.MaxFileSizeMb <= 0 {
		return fmt.Errorf("max-file-size-mb should be atleast 1")
	}
	if config.BackupFileCount < 0 {
		return fmt.Errorf("backup-file-count should be 0 (to retain all backup files) or a positive value")
	}
	return nil
}

func isValidLogFormat(format string) error {
	switch format {
	case "", TextLogFormat, JSONLogFormat:
		return nil
	}
	return fmt.Errorf("unsupported log format %q, expected %q or %q", format, TextLogFormat, JSONLogFormat)
}

// isValidFileName rejects names that could not appear as a single directory
// entry.
func isValidFileName(name string) error {
	switch {
	case name == "":
		return errors.New("file-name must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("file-name can't be %q", name)
	case strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("file-name %q must not contain a path separator", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("file-name %q must not contain a NUL byte", name)
	}
	return nil
}

func isValidMetadataCacheConfig(c *MetadataCacheConfig) error {
	if c.TtlSecs < 0 {
		return errors.New(TtlSecsInvalidValueError)
	}
	if c.TtlSecs > MaxSupportedTtlInSeconds {
		return errors.New(TtlSecsTooHighError)
	}
	return nil
}

func isValidFaultInjectionConfig(c *FaultInjectionConfig) error {
	if c.AdvertisedSize <= 0 {
		return errors.New(AdvertisedSizeInvalidValueError)
	}
	if c.MinChunks <= 0 {
		return errors.New(MinChunksInvalidValueError)
	}
	if c.AdvertisedSize < c.MinChunks {
		return errors.New(AdvertisedSizeBelowMinChunksError)
	}
	if c.FailureThreshold <= 0 || c.FailureThreshold > 1 {
		return errors.New(FailureThresholdInvalidValueError)
	}
	if c.Template == "" {
		return errors.New(EmptyTemplateError)
	}
	return nil
}

// ValidateConfig returns a non-nil error if the config is invalid.
func ValidateConfig(config *Config) error {
	var err error

	if err = isValidFileName(config.FileName); err != nil {
		return fmt.Errorf("error parsing file-name config: %w", err)
	}

	if err = isValidLogRotateConfig(&config.Logging.LogRotate); err != nil {
		return fmt.Errorf("error parsing log-rotate config: %w", err)
	}

	if err = isValidLogFormat(config.Logging.Format); err != nil {
		return fmt.Errorf("error parsing logging config: %w", err)
	}

	if err = isValidMetadataCacheConfig(&config.MetadataCache); err != nil {
		return fmt.Errorf("error parsing metadata-cache config: %w", err)
	}

	if err = isValidFaultInjectionConfig(&config.FaultInjection); err != nil {
		return fmt.Errorf("error parsing fault-injection config: %w", err)
	}

	return nil
}
