/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"snappy/internal/anchor"
	"snappy/internal/drag"
)

// isolate points the loader at a file inside a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	for _, env := range envByKey {
		t.Setenv(env, "")
	}
	return p
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := Defaults()
	if cfg.Engine != d.Engine || cfg.Render != d.Render || cfg.Gesture != d.Gesture {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	p := isolate(t)
	data := "engine:\n  anchors: \"all - top - bottomLeading\"\n"
	if err := os.WriteFile(p, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Engine.Anchors != "all - top - bottomLeading" {
		t.Fatalf("anchors = %q", cfg.Engine.Anchors)
	}
	// booleans absent from the file must not flip to false
	if !cfg.Engine.ShowMarkers || !cfg.Engine.Feedback {
		t.Fatalf("omitted booleans lost their defaults: %#v", cfg.Engine)
	}
	if cfg.Render.SpringStiffness != 300 {
		t.Fatalf("spring stiffness = %v", cfg.Render.SpringStiffness)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("engine: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Engine.Anchors != "all" {
		t.Fatalf("defaults not returned with error: %#v", cfg.Engine)
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Engine.CoordinateSpace = "container"
	cfg.Engine.ShowMarkers = false
	cfg.History.MaxPerSurface = 7
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Engine.CoordinateSpace != "container" || got.Engine.ShowMarkers || got.History.MaxPerSurface != 7 {
		t.Fatalf("round trip lost values: %#v", got)
	}
}

func TestEnvOverridesEngine(t *testing.T) {
	isolate(t)
	t.Setenv(EnvCoordinateSpace, "Global")
	t.Setenv(EnvAnchors, "corners + center")
	t.Setenv(EnvShowMarkers, "no")
	t.Setenv(EnvFeedback, "0")
	t.Setenv(EnvTelemetryOptIn, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Engine.CoordinateSpace != "global" || cfg.Engine.Anchors != "corners + center" {
		t.Fatalf("engine overrides not applied: %#v", cfg.Engine)
	}
	if cfg.Engine.ShowMarkers || cfg.Engine.Feedback || !cfg.General.TelemetryOptIn {
		t.Fatalf("boolean overrides not applied: %#v", cfg)
	}
	if env, ok := EnvOverrideFor("engine.anchors"); !ok || env != EnvAnchors {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("render.spring_damping"); ok {
		t.Fatalf("unexpected override for a key without env var")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = " DEBUG "
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/snappy.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/snappy.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	opts := dst.Logging.Options()
	if opts.Level != "debug" || !opts.AddSource || opts.File != "/tmp/snappy.log" {
		t.Fatalf("log options = %#v", opts)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/var/tmp/snappy.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/var/tmp/snappy.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEngineOptions(t *testing.T) {
	e := Defaults().Engine
	e.CoordinateSpace = "container"
	e.Anchors = "all - top - bottomLeading"
	opts, err := e.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.Space != drag.SpaceContainer || opts.Anchors.Len() != 7 || opts.Anchors.Contains(anchor.Top) {
		t.Fatalf("options = %+v", opts)
	}

	e.Anchors = "all - sideways"
	if _, err := e.Options(); err == nil {
		t.Fatalf("expected anchor parse error")
	}
	e.Anchors = "all"
	e.CoordinateSpace = "screen"
	if _, err := e.Options(); err == nil {
		t.Fatalf("expected space parse error")
	}
}

func TestEngineFeedbacksDisabled(t *testing.T) {
	e := Defaults().Engine
	e.Feedback = false
	n := 0
	if fb := e.Feedbacks(drag.FeedbackFunc(func() { n++ })); fb != nil {
		t.Fatalf("disabled feedback returned a receiver")
	}
	e.Feedback = true
	e.Feedbacks(drag.FeedbackFunc(func() { n++ })).Settled()
	if n != 1 {
		t.Fatalf("enabled feedback not delivered")
	}
}

func TestSectionConversions(t *testing.T) {
	d := Defaults()
	if g := d.Gesture.Tracker(); g.Window != 100*time.Millisecond || g.Projection != 200*time.Millisecond {
		t.Fatalf("gesture config = %+v", g)
	}
	if h := d.History.Manager(); h.MaxPerSurface != 50 || h.MinInterval != 250*time.Millisecond {
		t.Fatalf("history config = %+v", h)
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	bad := Defaults()
	bad.Render.SpringStiffness = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected stiffness error")
	}
	bad = Defaults()
	bad.Gesture.WindowMs = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected window error")
	}
}
