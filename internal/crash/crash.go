/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic into a logged error, a report file and an
// opt-in crash upload before exiting.
package crash

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "snappy/internal/log"
	"snappy/internal/telemetry"
	"snappy/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// stderr receives the short user-facing notice.
var stderr io.Writer = os.Stderr

// Options adds context to a crash report.
type Options struct {
	// Dir receives the report; empty means the system temp dir.
	Dir string
	// Command is the subcommand that was running.
	Command string
	// State describes the drag engine at the time of the panic, e.g. the
	// committed offset and active anchors. It must not panic itself.
	State func() string
}

// Recover captures a panic, logs it with the stacktrace, writes a report
// file and exits with code 2.
//
// Usage: defer crash.Recover(crash.Options{Command: "tui"})
func Recover(opts Options) {
	r := recover()
	if r == nil {
		return
	}
	l := applog.WithComponent("crash")
	stack := debug.Stack()
	l.Error("panic recovered", slog.Any("panic", r), slog.String("cmd", opts.Command), slog.String("stack", string(stack)))

	reportPath, err := writeReport(opts, r, stack)
	if err != nil {
		l.Error("crash report not written", slog.Any("err", err))
	}
	_, _ = fmt.Fprintf(stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
	_, _ = fmt.Fprintf(stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
	exitFn(2)
}

func writeReport(opts Options, panicVal any, stack []byte) (string, error) {
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Snappy Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if opts.Command != "" {
		_, _ = fmt.Fprintf(&buf, "Command: %s\n", opts.Command)
	}
	if opts.State != nil {
		_, _ = fmt.Fprintf(&buf, "State: %s\n", opts.State())
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}
