/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the user configuration: defaults, then the YAML file
// in the user scope, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Engine        EngineConfig  `yaml:"engine"`
	Gesture       GestureConfig `yaml:"gesture"`
	Render        RenderConfig  `yaml:"render"`
	History       HistoryConfig `yaml:"history"`
	Logging       LoggingConfig `yaml:"logging"`
}

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
}

// EngineConfig selects how the drag controller is built.
type EngineConfig struct {
	CoordinateSpace string `yaml:"coordinate_space"` // local | container | global
	Anchors         string `yaml:"anchors"`          // anchor expression, e.g. "all - top"
	ShowMarkers     bool   `yaml:"show_markers"`
	// Feedback is resolved once at startup; false installs a no-op cue.
	Feedback bool `yaml:"feedback"`
}

type GestureConfig struct {
	ProjectionMs int `yaml:"projection_ms"`
	WindowMs     int `yaml:"window_ms"`
}

// RenderConfig carries the settle animation parameters renderers use.
type RenderConfig struct {
	SpringStiffness float64 `yaml:"spring_stiffness"`
	SpringDamping   float64 `yaml:"spring_damping"`
}

type HistoryConfig struct {
	MaxPerSurface int `yaml:"max_per_surface"`
	CoalesceMs    int `yaml:"coalesce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false},
		Engine:        EngineConfig{CoordinateSpace: "local", Anchors: "all", ShowMarkers: true, Feedback: true},
		Gesture:       GestureConfig{ProjectionMs: 200, WindowMs: 100},
		Render:        RenderConfig{SpringStiffness: 300, SpringDamping: 20},
		History:       HistoryConfig{MaxPerSurface: 50, CoalesceMs: 250},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath      = "SNAPPY_CONFIG"
	EnvCoordinateSpace = "SNAPPY_COORDINATE_SPACE"
	EnvAnchors         = "SNAPPY_ANCHORS"
	EnvShowMarkers     = "SNAPPY_SHOW_MARKERS"
	EnvFeedback        = "SNAPPY_FEEDBACK"
	EnvTelemetryOptIn  = "SNAPPY_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "SNAPPY_LOG_LEVEL"
	EnvLogFormat = "SNAPPY_LOG_FORMAT"
	EnvLogSource = "SNAPPY_LOG_SOURCE"
	EnvLogFile   = "SNAPPY_LOG_FILE"
)

// ConfigPath returns the per-user config file path. SNAPPY_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Snappy")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Snappy")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "snappy")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "snappy")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. A missing file is not an error; a malformed one is,
// and the returned config then holds defaults plus environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	var loadErr error
	if data, err := os.ReadFile(path); err == nil {
		// start from defaults so keys absent from the file keep them
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			loadErr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		loadErr = fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, loadErr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn

	if v := strings.TrimSpace(src.Engine.CoordinateSpace); v != "" {
		dst.Engine.CoordinateSpace = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Engine.Anchors); v != "" {
		dst.Engine.Anchors = v
	}
	dst.Engine.ShowMarkers = src.Engine.ShowMarkers
	dst.Engine.Feedback = src.Engine.Feedback

	if src.Gesture.ProjectionMs >= 0 {
		dst.Gesture.ProjectionMs = src.Gesture.ProjectionMs
	}
	if src.Gesture.WindowMs > 0 {
		dst.Gesture.WindowMs = src.Gesture.WindowMs
	}
	if src.Render.SpringStiffness > 0 {
		dst.Render.SpringStiffness = src.Render.SpringStiffness
	}
	if src.Render.SpringDamping >= 0 {
		dst.Render.SpringDamping = src.Render.SpringDamping
	}
	if src.History.MaxPerSurface >= 0 {
		dst.History.MaxPerSurface = src.History.MaxPerSurface
	}
	if src.History.CoalesceMs >= 0 {
		dst.History.CoalesceMs = src.History.CoalesceMs
	}

	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCoordinateSpace)); v != "" {
		cfg.Engine.CoordinateSpace = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnchors)); v != "" {
		cfg.Engine.Anchors = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvShowMarkers)); v != "" {
		cfg.Engine.ShowMarkers = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFeedback)); v != "" {
		cfg.Engine.Feedback = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"engine.coordinate_space":  EnvCoordinateSpace,
	"engine.anchors":           EnvAnchors,
	"engine.show_markers":      EnvShowMarkers,
	"engine.feedback":          EnvFeedback,
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envByKey[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// String renders the config as YAML for display.
func (c AppConfig) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "config: " + strconv.Quote(err.Error())
	}
	return string(b)
}
