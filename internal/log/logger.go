/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log is snappy's slog setup: a console sink, an optional rotating
// JSON file, drag session tagging and attrs for offsets and points.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"snappy/internal/version"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. FromEnv reads them from
// SNAPPY_LOG_LEVEL, SNAPPY_LOG_FORMAT (console|json), SNAPPY_LOG_FILE and
// SNAPPY_LOG_SOURCE. The zero value logs INFO lines to stderr.
type Options struct {
	Level     string
	Format    string // "console" or "json"
	AddSource bool
	File      string    // rotated JSON log, empty disables
	Console   io.Writer // nil means stderr
}

var (
	mu      sync.Mutex
	current *slog.Logger
)

// L returns the application logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.Lock()
	l := current
	mu.Unlock()
	if l == nil {
		l = Init(FromEnv())
	}
	return l
}

// Init replaces the application logger and slog's default.
func Init(opts Options) *slog.Logger {
	ho := slog.HandlerOptions{Level: parseLevel(opts.Level), AddSource: opts.AddSource}
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(out, &ho)
	} else {
		console = newConsoleHandler(out, ho)
	}
	sinks := []slog.Handler{console}
	if path := strings.TrimSpace(opts.File); path != "" {
		w := &lj.Logger{Filename: path, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		sinks = append(sinks, slog.NewJSONHandler(w, &ho))
	}

	logger := slog.New(&sessionHandler{sinks: sinks}).With(
		slog.String("app", "snappy"),
		slog.String("ver", version.Version),
		slog.Time("ts_init", time.Now()),
	)
	mu.Lock()
	current = logger
	mu.Unlock()
	slog.SetDefault(logger)
	return logger
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:     getenv("SNAPPY_LOG_LEVEL", "info"),
		Format:    getenv("SNAPPY_LOG_FORMAT", "console"),
		AddSource: strings.EqualFold(getenv("SNAPPY_LOG_SOURCE", "false"), "true"),
		File:      os.Getenv("SNAPPY_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger { return L().With(slog.String("component", name)) }

// WithOperation annotates the logger with an operation name.
func WithOperation(l *slog.Logger, op string) *slog.Logger { return l.With(slog.String("op", op)) }

type sessionKey struct{}

// WithSession tags ctx so records logged with it carry a session attribute.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFrom returns the session id stored by WithSession.
func SessionFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionKey{}).(string)
	return id, ok && id != ""
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
