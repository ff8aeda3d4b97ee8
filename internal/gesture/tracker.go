/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns a stream of pointer positions into the translation
// and momentum-projected end state a drag controller consumes.
package gesture

import (
	"time"

	"snappy/internal/vector"
)

// Config controls velocity estimation.
type Config struct {
	// Window is how far back samples count toward the velocity estimate.
	Window time.Duration
	// Projection is how far ahead the release is projected at that velocity.
	Projection time.Duration
	// MaxSamples bounds memory regardless of event rate (0 means 64).
	MaxSamples int
}

func DefaultConfig() Config {
	return Config{Window: 100 * time.Millisecond, Projection: 200 * time.Millisecond, MaxSamples: 64}
}

type sample struct {
	at time.Time
	p  vector.Pt
}

// Tracker records one gesture at a time. Begin starts a new gesture and drops
// the previous one.
type Tracker struct {
	cfg     Config
	active  bool
	start   vector.Pt
	samples []sample
}

func NewTracker(cfg Config) *Tracker {
	if cfg.Window <= 0 {
		cfg.Window = 100 * time.Millisecond
	}
	if cfg.Projection < 0 {
		cfg.Projection = 0
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = 64
	}
	return &Tracker{cfg: cfg}
}

// Begin starts a gesture at pointer position p.
func (t *Tracker) Begin(at time.Time, p vector.Pt) {
	t.active = true
	t.start = p
	t.samples = append(t.samples[:0], sample{at: at, p: p})
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool { return t.active }

// Start is the pointer position the gesture began at.
func (t *Tracker) Start() vector.Pt { return t.start }

// Add records a pointer position and returns the translation since Begin.
// Samples older than the window are discarded. Add before Begin starts a
// gesture at p.
func (t *Tracker) Add(at time.Time, p vector.Pt) vector.Size {
	if !t.active {
		t.Begin(at, p)
		return vector.Size{}
	}
	t.samples = append(t.samples, sample{at: at, p: p})
	cut := 0
	for cut < len(t.samples)-1 && at.Sub(t.samples[cut].at) > t.cfg.Window {
		cut++
	}
	if over := len(t.samples) - cut - t.cfg.MaxSamples; over > 0 {
		cut += over
	}
	if cut > 0 {
		t.samples = append(t.samples[:0], t.samples[cut:]...)
	}
	return t.Translation()
}

// Translation is the displacement from the start to the latest sample.
func (t *Tracker) Translation() vector.Size {
	if len(t.samples) == 0 {
		return vector.Size{}
	}
	return vector.SubPoints(t.samples[len(t.samples)-1].p, t.start).Size()
}

// Velocity is the displacement per second across the retained window.
func (t *Tracker) Velocity() vector.Size {
	if len(t.samples) < 2 {
		return vector.Size{}
	}
	first, last := t.samples[0], t.samples[len(t.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return vector.Size{}
	}
	return vector.SubPoints(last.p, first.p).Size().Scale(1 / dt)
}

// Predict projects the gesture forward by the configured horizon. delta is
// the predicted translation since Begin and location the predicted pointer
// position.
func (t *Tracker) Predict() (delta vector.Size, location vector.Pt) {
	delta = vector.AddSizes(t.Translation(), t.Velocity().Scale(t.cfg.Projection.Seconds()))
	return delta, vector.AddPoints(t.start, delta.Pt())
}

// End finishes the gesture and returns its prediction.
func (t *Tracker) End() (delta vector.Size, location vector.Pt) {
	delta, location = t.Predict()
	t.active = false
	t.samples = t.samples[:0]
	return delta, location
}
