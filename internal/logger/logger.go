// Copyright 2020 Google Inc. All Rights Reserved.
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

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/googlecloudplatform/failfs/cfg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FailFSInBackgroundMode is set in the environment of the daemon process so
// that it knows its stdout is not a terminal.
const FailFSInBackgroundMode = "FAILFS_IN_BACKGROUND_MODE"

// mountIDKey is the attribute carrying the mount instance id on every record.
const mountIDKey = "mount-id"

var (
	defaultLoggerFactory *loggerFactory
	defaultLogger        *slog.Logger
	programLevel         = new(slog.LevelVar)
)

// InitLogFile initializes the logger factory to create loggers that print to
// a log file, rotated as configured in log-rotate. With an empty file path
// logs keep going to stdout.
func InitLogFile(c cfg.LoggingConfig) error {
	var file io.WriteCloser
	if c.FilePath != "" {
		// Fail early instead of on the first rotation.
		f, err := os.OpenFile(string(c.FilePath), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		f.Close()

		file = &lumberjack.Logger{
			Filename:   string(c.FilePath),
			MaxSize:    int(c.LogRotate.MaxFileSizeMb),
			MaxBackups: int(c.LogRotate.BackupFileCount),
			Compress:   c.LogRotate.Compress,
		}
	}

	defaultLoggerFactory = &loggerFactory{
		file:    file,
		format:  c.Format,
		level:   c.Severity,
		mountID: defaultLoggerFactory.mountID,
	}
	defaultLogger = defaultLoggerFactory.newLogger()

	return nil
}

// init initializes the logger factory to use stdout.
func init() {
	defaultLoggerFactory = &loggerFactory{
		format: cfg.TextLogFormat,
		level:  cfg.InfoLogSeverity,
	}
	defaultLogger = defaultLoggerFactory.newLogger()
}

// SetLogFormat updates the format of the default logger.
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format
	defaultLogger = defaultLoggerFactory.newLogger()
}

// SetMountInstanceID tags every subsequent record with the given id.
func SetMountInstanceID(id string) {
	defaultLoggerFactory.mountID = id
	defaultLogger = defaultLoggerFactory.newLogger()
}

// Close closes the log file when necessary.
func Close() error {
	if f := defaultLoggerFactory.file; f != nil {
		defaultLoggerFactory.file = nil
		return f.Close()
	}
	return nil
}

// Tracef prints the message with TRACE severity in the specified format.
func Tracef(format string, v ...interface{}) {
	logf(LevelTrace, format, v...)
}

// Debugf prints the message with DEBUG severity in the specified format.
func Debugf(format string, v ...interface{}) {
	logf(LevelDebug, format, v...)
}

// Infof prints the message with INFO severity in the specified format.
func Infof(format string, v ...interface{}) {
	logf(LevelInfo, format, v...)
}

// Info prints the message with info severity.
func Info(message string, args ...any) {
	defaultLogger.Info(message, args...)
}

// Warnf prints the message with WARNING severity in the specified format.
func Warnf(format string, v ...interface{}) {
	logf(LevelWarn, format, v...)
}

// Errorf prints the message with ERROR severity in the specified format.
func Errorf(format string, v ...interface{}) {
	logf(LevelError, format, v...)
}

func logf(level slog.Level, format string, v ...interface{}) {
	ctx := context.Background()
	if !defaultLogger.Enabled(ctx, level) {
		return
	}
	defaultLogger.Log(ctx, level, fmt.Sprintf(format, v...))
}

type loggerFactory struct {
	// If nil, log to stdout. Otherwise, log to this file.
	file    io.WriteCloser
	format  string
	level   cfg.LogSeverity
	mountID string
}

func (f *loggerFactory) newLogger() *slog.Logger {
	setLoggingLevel(f.level, programLevel)
	return slog.New(f.handler(programLevel, ""))
}

func (f *loggerFactory) writer() io.Writer {
	if f.file != nil {
		return f.file
	}
	return os.Stdout
}

func (f *loggerFactory) handler(levelVar *slog.LevelVar, prefix string) slog.Handler {
	h := f.createJsonOrTextHandler(f.writer(), levelVar, prefix)
	if f.mountID != "" {
		h = h.WithAttrs([]slog.Attr{slog.String(mountIDKey, f.mountID)})
	}
	return h
}
