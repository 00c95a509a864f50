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

// Package faultreader serves the content of the single file: short chunks of
// filler text until the reader gets close enough to the advertised end, then
// a hard failure.
package faultreader

import (
	"errors"
	"fmt"

	"github.com/googlecloudplatform/failfs/internal/fs/failfs_errors"
	"github.com/googlecloudplatform/failfs/internal/logger"
)

const (
	DefaultAdvertisedSize   = 1024 * 1024
	DefaultMinChunks        = 4
	DefaultFailureThreshold = 0.72
	DefaultTemplate         = "hello world"
)

type Config struct {
	// Size of the file as reported in its attributes.
	AdvertisedSize int64

	// Upper bound on the number of successful full-size reads needed to cover
	// the advertised size. Each read returns at most AdvertisedSize/MinChunks
	// bytes.
	MinChunks int64

	// A read fails when (offset + chunk) / AdvertisedSize reaches this value.
	FailureThreshold float64

	// Repeated and truncated to fill every chunk.
	Template string
}

func DefaultConfig() Config {
	return Config{
		AdvertisedSize:   DefaultAdvertisedSize,
		MinChunks:        DefaultMinChunks,
		FailureThreshold: DefaultFailureThreshold,
		Template:         DefaultTemplate,
	}
}

func (c Config) validate() error {
	switch {
	case c.AdvertisedSize <= 0:
		return fmt.Errorf("advertised size must be positive, got %d", c.AdvertisedSize)
	case c.MinChunks <= 0:
		return fmt.Errorf("min chunks must be positive, got %d", c.MinChunks)
	case c.AdvertisedSize < c.MinChunks:
		return fmt.Errorf("advertised size %d is smaller than min chunks %d", c.AdvertisedSize, c.MinChunks)
	case c.FailureThreshold <= 0 || c.FailureThreshold > 1:
		return fmt.Errorf("failure threshold must be in (0, 1], got %v", c.FailureThreshold)
	case c.Template == "":
		return errors.New("template must not be empty")
	}
	return nil
}

// Reader is stateless: the outcome of a read depends only on its offset and
// length, so it may be used from any number of goroutines.
type Reader struct {
	config       Config
	maxChunkSize int64
}

func NewReader(c Config) (*Reader, error) {
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid fault reader config: %w", err)
	}

	return &Reader{
		config:       c,
		maxChunkSize: c.AdvertisedSize / c.MinChunks,
	}, nil
}

func (r *Reader) Config() Config {
	return r.config
}

// MaxChunkSize is the largest number of bytes a single read returns.
func (r *Reader) MaxChunkSize() int64 {
	return r.maxChunkSize
}

// ChunkSize returns the number of bytes served for a request of the given
// size.
func (r *Reader) ChunkSize(requested int64) int64 {
	return min(requested, r.maxChunkSize)
}

// Progress is the fraction of the advertised size covered once a chunk of the
// given size at offset has been delivered. The check looks ahead: the chunk
// whose delivery would reach the threshold is the one that fails.
func (r *Reader) Progress(offset, chunk int64) float64 {
	// Summed as floats: offset+chunk overflows int64 near math.MaxInt64.
	return (float64(offset) + float64(chunk)) / float64(r.config.AdvertisedSize)
}

// ReadAt fills dst with at most MaxChunkSize bytes of filler as if read at
// offset, and returns the number of bytes written. Once progress reaches the
// failure threshold, or for a negative offset, it writes nothing and returns
// a *FatalTransferError. Every call logs one line at DEBUG severity.
func (r *Reader) ReadAt(dst []byte, offset int64) (n int, err error) {
	chunk := r.ChunkSize(int64(len(dst)))
	progress := r.Progress(offset, chunk)

	// A negative offset is as broken a transfer as one past the threshold.
	if offset < 0 || progress >= r.config.FailureThreshold {
		logger.Debugf("Progress=%v. Reporting error", progress)
		err = &failfs_errors.FatalTransferError{
			Offset:   offset,
			Size:     chunk,
			Progress: progress,
		}
		return
	}

	logger.Debugf("Sending chunk. Offset=%d Size=%d Progress=%v", offset, chunk, progress)
	n = fill(dst[:chunk], r.config.Template)
	return
}

// fill writes template repeatedly into dst, truncating the last copy.
func fill(dst []byte, template string) int {
	if len(dst) == 0 {
		return 0
	}

	n := copy(dst, template)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
	return n
}
