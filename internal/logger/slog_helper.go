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

package logger

import (
	"io"
	"log/slog"

	"github.com/googlecloudplatform/failfs/cfg"
)

const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	// LevelOff is above every level that is ever logged.
	LevelOff = slog.Level(12)

	severityKey  = "severity"
	messageKey   = "message"
	timestampKey = "timestamp"
	textTimeKey  = "time"
)

func setLoggingLevel(level cfg.LogSeverity, programLevel *slog.LevelVar) {
	switch level {
	// logs having severity >= the configured value will be logged.
	case cfg.TraceLogSeverity:
		programLevel.Set(LevelTrace)
	case cfg.DebugLogSeverity:
		programLevel.Set(LevelDebug)
	case cfg.WarningLogSeverity:
		programLevel.Set(LevelWarn)
	case cfg.ErrorLogSeverity:
		programLevel.Set(LevelError)
	case cfg.OffLogSeverity:
		programLevel.Set(LevelOff)
	default:
		programLevel.Set(LevelInfo)
	}
}

func severityName(level slog.Level) string {
	switch {
	case level < LevelDebug:
		return string(cfg.TraceLogSeverity)
	case level < LevelInfo:
		return string(cfg.DebugLogSeverity)
	case level < LevelWarn:
		return string(cfg.InfoLogSeverity)
	case level < LevelError:
		return string(cfg.WarningLogSeverity)
	default:
		return string(cfg.ErrorLogSeverity)
	}
}

func (f *loggerFactory) createJsonOrTextHandler(writer io.Writer, levelVar *slog.LevelVar, prefix string) slog.Handler {
	if f.format == cfg.JSONLogFormat {
		return slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:       levelVar,
			ReplaceAttr: customiseJsonAttr(prefix),
		})
	}
	return slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: customiseTextAttr(prefix),
	})
}

func customiseJsonAttr(prefix string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			t := a.Value.Time()
			return slog.Group(timestampKey,
				slog.Int64("seconds", t.Unix()),
				slog.Int64("nanos", int64(t.Nanosecond())))
		}
		return customiseCommonAttr(a, prefix)
	}
}

func customiseTextAttr(prefix string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			a.Key = textTimeKey
			a.Value = slog.StringValue(a.Value.Time().Round(0).Format("02/01/2006 15:04:05.000000"))
			return a
		}
		return customiseCommonAttr(a, prefix)
	}
}

func customiseCommonAttr(a slog.Attr, prefix string) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = severityKey
		a.Value = slog.StringValue(severityName(a.Value.Any().(slog.Level)))
	case slog.MessageKey:
		a.Key = messageKey
		a.Value = slog.StringValue(prefix + a.Value.String())
	}
	return a
}
