/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"io"
	"log/slog"
	"time"

	"snappy/internal/vector"
)

// Offset renders a translation as a group: key.w=... key.h=...
func Offset(key string, s vector.Size) slog.Attr {
	return slog.Group(key, slog.Float64("w", s.W), slog.Float64("h", s.H))
}

// Point renders a location as a group: key.x=... key.y=...
func Point(key string, p vector.Pt) slog.Attr {
	return slog.Group(key, slog.Float64("x", p.X), slog.Float64("y", p.Y))
}

// sessionHandler tags each record with the drag session carried by the
// context, then hands it to every sink enabled for its level.
type sessionHandler struct{ sinks []slog.Handler }

func (h *sessionHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *sessionHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := SessionFrom(ctx); ok {
		r = r.Clone()
		r.AddAttrs(slog.String("session", id))
	}
	var firstErr error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *sessionHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *sessionHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *sessionHandler) each(f func(slog.Handler) slog.Handler) *sessionHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = f(s)
	}
	return &sessionHandler{sinks: sinks}
}

// newConsoleHandler is slog's text handler with RFC3339 timestamps and
// three-letter levels. Groups come out as dotted keys (final.w=100).
func newConsoleHandler(w io.Writer, opts slog.HandlerOptions) slog.Handler {
	opts.ReplaceAttr = consoleAttr
	return slog.NewTextHandler(w, &opts)
}

func consoleAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch {
	case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
		return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
	case a.Key == slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelString(l))
		}
	}
	return a
}

func levelString(l slog.Level) string {
	switch l {
	case slog.LevelDebug:
		return "DBG"
	case slog.LevelInfo:
		return "INF"
	case slog.LevelWarn:
		return "WRN"
	case slog.LevelError:
		return "ERR"
	}
	return l.String()
}
