/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReportCreatesFileInTemp(t *testing.T) {
	path, err := writeReport(Options{}, "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "Snappy Crash Report") || !strings.Contains(s, "Panic: boom") {
		t.Fatalf("report content missing: %s", s)
	}
}

func TestWriteReportIncludesEngineState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	path, err := writeReport(Options{Dir: dir, Command: "replay", State: func() string { return "offset=(100,75) anchors={topLeading}" }}, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written to %s, want under %s", path, dir)
	}
	b, _ := os.ReadFile(path)
	if !bytes.Contains(b, []byte("Command: replay")) || !bytes.Contains(b, []byte("State: offset=(100,75)")) {
		t.Fatalf("report missing context: %s", b)
	}
}

// TestRecover_Panic ensures Recover handles a panic, writes a report and
// requests exit code 2 through the injected exitFn.
func TestRecover_Panic(t *testing.T) {
	var out bytes.Buffer
	oldStderr, oldExit := stderr, exitFn
	called := 0
	stderr = &out
	exitFn = func(code int) { called = code }
	t.Cleanup(func() { stderr, exitFn = oldStderr, oldExit })

	dir := t.TempDir()
	func() {
		defer Recover(Options{Dir: dir})
		panic("boom")
	}()

	files, _ := os.ReadDir(dir)
	var found string
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			found = filepath.Join(dir, f.Name())
		}
	}
	if found == "" {
		t.Fatalf("expected crash report file in %s", dir)
	}
	b, _ := os.ReadFile(found)
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", b)
	}
	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
	if !strings.Contains(out.String(), found) {
		t.Fatalf("notice does not name the report: %q", out.String())
	}
}

func TestRecover_NoPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	called := false
	exitFn = func(int) { called = true }
	t.Cleanup(func() { exitFn = oldExit })
	func() {
		defer Recover(Options{})
	}()
	if called {
		t.Fatalf("exit requested without a panic")
	}
}
