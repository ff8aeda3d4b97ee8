/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package drag runs a drag session for a single piece of content inside a
// container: it tracks the live pointer translation, clamps the rendered
// position into the container, and on release commits a constrained or
// snapped offset to a caller-owned Cell.
//
// A Controller is not safe for concurrent use. Drive it from the goroutine
// that delivers pointer and layout events.
package drag

import (
	"log/slog"

	"snappy/internal/anchor"
	applog "snappy/internal/log"
	"snappy/internal/snap"
	"snappy/internal/vector"
)

// State of the drag session.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Options configure a Controller. The zero value is usable: local space, an
// internal Value cell, every anchor active and no feedback.
type Options struct {
	Space Space
	// Cell holds the committed offset. nil allocates an internal Value.
	Cell Cell
	// Anchors is the active snap set. nil means anchor.All(); a non-nil empty
	// set disables snapping.
	Anchors  anchor.Set
	Feedback Feedback
	// OnRelease is called after every release with the computed record.
	OnRelease func(Release)
	Logger    *slog.Logger
}

// Release describes how a release gesture was resolved.
type Release struct {
	From        vector.Size // committed offset before the release
	Candidate   vector.Size // From plus the predicted translation
	Constrained vector.Size // Candidate clamped into bounds
	Snapped     bool
	Anchor      anchor.Point // valid when Snapped
	Final       vector.Size  // value written to the cell
	Moved       bool         // the session had a non-zero translation
}

// Controller is the drag session state machine.
type Controller struct {
	space     Space
	cell      Cell
	anchors   anchor.Set
	pending   anchor.Set
	feedback  Feedback
	onRelease func(Release)
	log       *slog.Logger

	frames    Frames
	measured  bool
	content   vector.Size
	bounds    snap.Bounds
	state     State
	transient vector.Size
	releasing bool
}

func NewController(opts Options) *Controller {
	c := &Controller{
		space:     opts.Space,
		cell:      opts.Cell,
		anchors:   opts.Anchors,
		feedback:  opts.Feedback,
		onRelease: opts.OnRelease,
		log:       opts.Logger,
	}
	if c.cell == nil {
		c.cell = &Value{}
	}
	if c.anchors == nil {
		c.anchors = anchor.All()
	}
	if c.feedback == nil {
		c.feedback = noFeedback{}
	}
	if c.log == nil {
		c.log = applog.WithComponent("drag")
	}
	c.recompute()
	return c
}

// Space reports the coordinate space the controller works in.
func (c *Controller) Space() Space { return c.space }

// Cell returns the committed offset cell.
func (c *Controller) Cell() Cell { return c.cell }

func (c *Controller) State() State { return c.state }

// SetContainer records a new container measurement and recomputes bounds.
func (c *Controller) SetContainer(f Frames) {
	c.frames = f
	c.measured = true
	c.recompute()
}

// SetContentSize records a new content measurement and recomputes bounds.
func (c *Controller) SetContentSize(s vector.Size) {
	c.content = s.Sanitize()
	c.recompute()
}

func (c *Controller) recompute() {
	c.bounds = snap.ComputeBounds(c.frames.In(c.space), c.content)
	if !c.measured {
		return
	}
	cur := c.cell.Get()
	if clamped := c.bounds.Clamp(cur); clamped != cur {
		c.log.Debug("committed offset re-clamped", applog.Offset("from", cur), applog.Offset("to", clamped))
		c.cell.Set(clamped)
	}
}

// Bounds returns the current allowed range for the offset.
func (c *Controller) Bounds() snap.Bounds { return c.bounds }

// Frame returns the container rectangle in the controller's space.
func (c *Controller) Frame() vector.Rect { return c.frames.In(c.space) }

// Frames returns the last container measurement.
func (c *Controller) Frames() Frames { return c.frames }

func (c *Controller) ContentSize() vector.Size { return c.content }

// Anchors returns the snap set in effect for the current or next session.
func (c *Controller) Anchors() anchor.Set { return c.anchors }

// SetAnchors replaces the active snap set. While a drag is in progress the
// change is held back until the session ends, so markers and snapping stay
// consistent for the gesture that is already running. nil selects every anchor.
func (c *Controller) SetAnchors(set anchor.Set) {
	if set == nil {
		set = anchor.All()
	}
	if c.state == Dragging {
		c.pending = set
		return
	}
	c.anchors = set
}

// Move reports the pointer translation since the gesture began. The first
// call starts a session.
func (c *Controller) Move(translation vector.Size) {
	if c.state == Idle {
		c.state = Dragging
		c.log.Debug("drag started", applog.Offset("committed", c.cell.Get()))
	}
	c.transient = vector.Size{W: vector.Finite(translation.W), H: vector.Finite(translation.H)}
}

// Transient returns the live translation of the current session.
func (c *Controller) Transient() vector.Size { return c.transient }

// Offset returns the committed offset.
func (c *Controller) Offset() vector.Size { return c.cell.Get() }

// Rendered is the offset the content should be drawn at: the committed offset
// plus the live translation, clamped into bounds.
func (c *Controller) Rendered() vector.Size {
	return c.bounds.Clamp(vector.AddSizes(c.cell.Get(), c.transient))
}

// RenderedFrame returns the content rectangle at the rendered offset, in the
// controller's space.
func (c *Controller) RenderedFrame() vector.Rect {
	return vector.CenteredAt(c.Rendered().Pt(), c.content)
}

// Markers returns the snap targets for the active anchors.
func (c *Controller) Markers() []snap.Target {
	return snap.Targets(c.anchors, c.Frame())
}

// Release ends the session. predicted is the translation the gesture is
// projected to reach and location the projected pointer position, both in
// the controller's space. With an active anchor set the committed offset
// becomes the anchor nearest to location, clamped into bounds; otherwise
// it becomes the clamped candidate. The committed value is returned.
//
// Writing the cell from OnRelease or a Feedback while Release is running is
// not supported; Reset calls made then are ignored.
func (c *Controller) Release(predicted vector.Size, location vector.Pt) vector.Size {
	c.releasing = true
	defer func() { c.releasing = false }()

	rel := Release{From: c.cell.Get(), Moved: !c.transient.IsZero()}
	predicted = vector.Size{W: vector.Finite(predicted.W), H: vector.Finite(predicted.H)}
	rel.Candidate = vector.AddSizes(rel.From, predicted)
	rel.Constrained = c.bounds.Clamp(rel.Candidate)
	rel.Final = rel.Constrained
	if t, ok := snap.Nearest(location, c.Markers()); ok {
		rel.Snapped, rel.Anchor = true, t.Anchor
		rel.Final = c.bounds.Clamp(t.At.Size())
	}

	c.cell.Set(rel.Final)
	c.endSession()
	c.log.Debug("drag released",
		applog.Point("at", location),
		applog.Offset("final", rel.Final),
		slog.Bool("snapped", rel.Snapped),
		slog.String("anchor", rel.Anchor.String()))
	if rel.Moved {
		c.feedback.Settled()
	}
	if c.onRelease != nil {
		c.onRelease(rel)
	}
	return rel.Final
}

// ReleaseProjected ends the session using the content's projected center,
// the committed offset plus predicted, as the snap location. Renderers that
// only track pointer translation use this form.
func (c *Controller) ReleaseProjected(predicted vector.Size) vector.Size {
	return c.Release(predicted, vector.AddSizes(c.cell.Get(), predicted).Pt())
}

// Cancel abandons the session without touching the committed offset.
func (c *Controller) Cancel() {
	if c.state == Idle {
		return
	}
	c.endSession()
	c.log.Debug("drag cancelled")
}

func (c *Controller) endSession() {
	c.transient = vector.Size{}
	c.state = Idle
	if c.pending != nil {
		c.anchors, c.pending = c.pending, nil
	}
}

// Reset writes a zero committed offset. It never raises the settle cue.
func (c *Controller) Reset() {
	if c.releasing {
		c.log.Warn("reset ignored during release")
		return
	}
	c.cell.Set(vector.Size{})
}
