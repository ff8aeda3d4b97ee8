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
	"fmt"
	"time"

	"snappy/internal/anchor"
	"snappy/internal/drag"
	"snappy/internal/gesture"
	"snappy/internal/history"
	applog "snappy/internal/log"
)

// Options converts the engine section into controller options. Cell, Feedback
// and OnRelease are left for the caller to wire.
func (e EngineConfig) Options() (drag.Options, error) {
	space, err := drag.ParseSpace(e.CoordinateSpace)
	if err != nil {
		return drag.Options{}, fmt.Errorf("engine.coordinate_space: %w", err)
	}
	set, err := anchor.Parse(e.Anchors)
	if err != nil {
		return drag.Options{}, fmt.Errorf("engine.anchors: %w", err)
	}
	return drag.Options{Space: space, Anchors: set}, nil
}

// Feedbacks returns fs combined when feedback is enabled, nil otherwise.
func (e EngineConfig) Feedbacks(fs ...drag.Feedback) drag.Feedback {
	if !e.Feedback {
		return nil
	}
	return drag.Feedbacks(fs...)
}

func (g GestureConfig) Tracker() gesture.Config {
	return gesture.Config{
		Window:     time.Duration(g.WindowMs) * time.Millisecond,
		Projection: time.Duration(g.ProjectionMs) * time.Millisecond,
	}
}

func (h HistoryConfig) Manager() history.Config {
	return history.Config{
		MaxPerSurface: h.MaxPerSurface,
		MinInterval:   time.Duration(h.CoalesceMs) * time.Millisecond,
	}
}

func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// Validate reports the first setting that cannot be used.
func (c AppConfig) Validate() error {
	if _, err := c.Engine.Options(); err != nil {
		return err
	}
	if c.Render.SpringStiffness <= 0 {
		return fmt.Errorf("render.spring_stiffness must be positive, got %v", c.Render.SpringStiffness)
	}
	if c.Render.SpringDamping < 0 {
		return fmt.Errorf("render.spring_damping must not be negative, got %v", c.Render.SpringDamping)
	}
	if c.Gesture.WindowMs <= 0 {
		return fmt.Errorf("gesture.window_ms must be positive, got %d", c.Gesture.WindowMs)
	}
	return nil
}
