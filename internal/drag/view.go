/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import (
	"snappy/internal/anchor"
	"snappy/internal/vector"
)

// Placed is a payload positioned in the controller's coordinate space.
type Placed[T any] struct {
	Payload T
	At      vector.Pt
	Anchor  anchor.Point // markers only
}

// View pairs a Controller with opaque content and marker payloads so a
// renderer can ask where to draw them. C and M are whatever the toolkit uses:
// canvas objects, strings, runes.
type View[C, M any] struct {
	ctrl      *Controller
	content   C
	marker    M
	hasMarker bool
}

func NewView[C, M any](ctrl *Controller, content C) *View[C, M] {
	return &View[C, M]{ctrl: ctrl, content: content}
}

// WithMarker enables snap markers drawn with m. Without it no markers are
// produced.
func (v *View[C, M]) WithMarker(m M) *View[C, M] {
	v.marker, v.hasMarker = m, true
	return v
}

// WithoutMarker suppresses markers again.
func (v *View[C, M]) WithoutMarker() *View[C, M] {
	var zero M
	v.marker, v.hasMarker = zero, false
	return v
}

func (v *View[C, M]) ShowsMarkers() bool { return v.hasMarker }

func (v *View[C, M]) Controller() *Controller { return v.ctrl }

// Content returns the content payload centered at the rendered offset.
func (v *View[C, M]) Content() Placed[C] {
	return Placed[C]{Payload: v.content, At: v.ctrl.Rendered().Pt()}
}

// Markers returns one marker per active anchor, in stable anchor order.
func (v *View[C, M]) Markers() []Placed[M] {
	if !v.hasMarker {
		return nil
	}
	ts := v.ctrl.Markers()
	out := make([]Placed[M], len(ts))
	for i, t := range ts {
		out[i] = Placed[M]{Payload: v.marker, At: t.At, Anchor: t.Anchor}
	}
	return out
}
