/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"snappy/internal/anchor"
	"snappy/internal/snap"
	"snappy/internal/vector"
)

type counter struct{ n int }

func (c *counter) Settled() { c.n++ }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// newMeasured returns a local-space controller over a 300x200 container with
// 100x50 content.
func newMeasured(opts Options) *Controller {
	opts.Logger = quiet()
	c := NewController(opts)
	c.SetContainer(Frames{Size: vector.S(300, 200)})
	c.SetContentSize(vector.S(100, 50))
	return c
}

func TestController_BoundsForCenteredLocalSpace(t *testing.T) {
	c := newMeasured(Options{})
	want := snap.Bounds{MinX: -100, MaxX: 100, MinY: -75, MaxY: 75}
	if c.Bounds() != want {
		t.Fatalf("bounds = %+v, want %+v", c.Bounds(), want)
	}
}

func TestController_DragPastEdgeWithoutAnchorsClamps(t *testing.T) {
	c := newMeasured(Options{Anchors: anchor.None()})
	c.Move(vector.S(500, 500))
	if got := c.Rendered(); got != vector.S(100, 75) {
		t.Fatalf("rendered during drag = %+v", got)
	}
	got := c.Release(vector.S(500, 500), vector.P(500, 500))
	if got != vector.S(100, 75) || c.Offset() != vector.S(100, 75) {
		t.Fatalf("release committed %+v (cell %+v), want (100,75)", got, c.Offset())
	}
	if c.State() != Idle || !c.Transient().IsZero() {
		t.Fatalf("session not ended: state=%v transient=%+v", c.State(), c.Transient())
	}
}

func TestController_SnapsToTopLeading(t *testing.T) {
	var rel Release
	c := newMeasured(Options{
		Anchors:   anchor.Of(anchor.TopLeading),
		OnRelease: func(r Release) { rel = r },
	})
	c.Move(vector.S(-90, -60))
	got := c.Release(vector.S(-140, -90), vector.P(-140, -90))
	if got != vector.S(-100, -75) {
		t.Fatalf("snapped offset = %+v, want (-100,-75)", got)
	}
	if !rel.Snapped || rel.Anchor != anchor.TopLeading {
		t.Fatalf("release record = %+v", rel)
	}
	if rel.Candidate != vector.S(-140, -90) || rel.Constrained != vector.S(-100, -75) {
		t.Fatalf("candidate/constrained = %+v / %+v", rel.Candidate, rel.Constrained)
	}
}

func TestController_SnapPicksNearestAnchor(t *testing.T) {
	c := newMeasured(Options{Anchors: anchor.Corners()})
	c.Move(vector.S(120, -70))
	// projected location lands near the top-right corner
	got := c.Release(vector.S(120, -70), vector.P(130, -80))
	if got != vector.S(100, -75) {
		t.Fatalf("offset = %+v, want (100,-75)", got)
	}
}

func TestController_CandidateBuildsOnCommitted(t *testing.T) {
	var rel Release
	cell := NewValue(vector.S(20, 10))
	c := newMeasured(Options{Cell: cell, Anchors: anchor.None(), OnRelease: func(r Release) { rel = r }})
	c.Move(vector.S(5, 5))
	c.Release(vector.S(30, 40), vector.P(0, 0))
	if rel.From != vector.S(20, 10) || rel.Candidate != vector.S(50, 50) {
		t.Fatalf("from/candidate = %+v / %+v", rel.From, rel.Candidate)
	}
	if cell.Get() != vector.S(50, 50) {
		t.Fatalf("cell = %+v", cell.Get())
	}
}

func TestController_ResetIsIdempotentAndSilent(t *testing.T) {
	fb := &counter{}
	c := newMeasured(Options{Feedback: fb})
	c.Reset()
	c.Reset()
	if !c.Offset().IsZero() || fb.n != 0 {
		t.Fatalf("after resets: offset=%+v settles=%d", c.Offset(), fb.n)
	}
	c.Cell().Set(vector.S(40, 30))
	c.Reset()
	if !c.Offset().IsZero() || !c.Rendered().IsZero() || fb.n != 0 {
		t.Fatalf("reset from non-zero: offset=%+v rendered=%+v settles=%d", c.Offset(), c.Rendered(), fb.n)
	}
}

func TestController_SettleFiresOncePerMovedSession(t *testing.T) {
	fb := &counter{}
	c := newMeasured(Options{Feedback: fb})
	c.Move(vector.S(10, 0))
	c.Move(vector.S(20, 5))
	c.Release(vector.S(20, 5), vector.P(20, 5))
	if fb.n != 1 {
		t.Fatalf("settles after one session = %d", fb.n)
	}

	// pointer went down and came back to where it started
	c.Move(vector.S(0, 0))
	c.Release(vector.Size{}, vector.P(0, 0))
	if fb.n != 1 {
		t.Fatalf("zero-translation session raised settle: %d", fb.n)
	}

	c.Move(vector.S(3, 3))
	c.Cancel()
	if fb.n != 1 {
		t.Fatalf("cancel raised settle: %d", fb.n)
	}
}

func TestController_CancelKeepsCommitted(t *testing.T) {
	cell := NewValue(vector.S(20, 10))
	c := newMeasured(Options{Cell: cell})
	c.Move(vector.S(50, 50))
	if c.State() != Dragging {
		t.Fatalf("state = %v", c.State())
	}
	c.Cancel()
	if cell.Get() != vector.S(20, 10) || !c.Transient().IsZero() || c.State() != Idle {
		t.Fatalf("cancel changed state: cell=%+v transient=%+v state=%v", cell.Get(), c.Transient(), c.State())
	}
	c.Cancel() // idle cancel is a no-op
}

func TestController_AnchorChangeDeferredUntilSessionEnds(t *testing.T) {
	c := newMeasured(Options{Anchors: anchor.Corners()})
	c.Move(vector.S(-80, -60))
	c.SetAnchors(anchor.None())
	if c.Anchors().Len() != 4 || len(c.Markers()) != 4 {
		t.Fatalf("anchor change applied mid-drag: %v", c.Anchors())
	}
	if got := c.Release(vector.S(-80, -60), vector.P(-140, -95)); got != vector.S(-100, -75) {
		t.Fatalf("release used new anchors: %+v", got)
	}
	if !c.Anchors().Empty() {
		t.Fatalf("pending anchors not applied after release: %v", c.Anchors())
	}
	c.Move(vector.S(10, 10))
	if got := c.Release(vector.S(10, 10), vector.P(-140, -95)); got == vector.S(-100, -75) {
		t.Fatalf("snapped with an empty anchor set")
	}
}

func TestController_AnchorChangeWhileIdleAppliesNow(t *testing.T) {
	c := newMeasured(Options{Anchors: anchor.None()})
	c.SetAnchors(anchor.CenterOnly())
	if !anchor.Equal(c.Anchors(), anchor.CenterOnly()) {
		t.Fatalf("anchors = %v", c.Anchors())
	}
	c.SetAnchors(nil)
	if c.Anchors().Len() != 9 {
		t.Fatalf("nil should select every anchor, got %v", c.Anchors())
	}
}

func TestController_TransientClampIsLazy(t *testing.T) {
	c := newMeasured(Options{})
	c.Move(vector.S(1000, 0))
	if c.Transient() != vector.S(1000, 0) {
		t.Fatalf("transient was clamped eagerly: %+v", c.Transient())
	}
	if c.Rendered() != vector.S(100, 0) {
		t.Fatalf("rendered = %+v", c.Rendered())
	}
	// coming back from overshoot responds immediately
	c.Move(vector.S(50, 0))
	if c.Rendered() != vector.S(50, 0) {
		t.Fatalf("rendered after reversal = %+v", c.Rendered())
	}
}

func TestController_InjectedOffsetClampedOnMeasurement(t *testing.T) {
	cell := NewValue(vector.S(400, -400))
	c := NewController(Options{Cell: cell, Logger: quiet()})
	if cell.Get() != vector.S(400, -400) {
		t.Fatalf("cell touched before the container was measured: %+v", cell.Get())
	}
	c.SetContainer(Frames{Size: vector.S(300, 200)})
	c.SetContentSize(vector.S(100, 50))
	if cell.Get() != vector.S(100, -75) {
		t.Fatalf("cell = %+v, want (100,-75)", cell.Get())
	}
}

func TestController_ExternalWriteReflectsImmediately(t *testing.T) {
	cell := NewValue(vector.Size{})
	c := newMeasured(Options{Cell: cell})
	cell.Set(vector.S(60, -30))
	if c.Rendered() != vector.S(60, -30) {
		t.Fatalf("rendered = %+v", c.Rendered())
	}
	cell.Set(vector.S(900, 0))
	if c.Rendered() != vector.S(100, 0) {
		t.Fatalf("out-of-range external write not clamped on render: %+v", c.Rendered())
	}
}

func TestController_ShrinkingContainerReclamps(t *testing.T) {
	c := newMeasured(Options{})
	c.Cell().Set(vector.S(100, 75))
	c.SetContainer(Frames{Size: vector.S(200, 100)})
	if c.Offset() != vector.S(50, 25) {
		t.Fatalf("offset after shrink = %+v", c.Offset())
	}
}

func TestController_DegenerateSizes(t *testing.T) {
	c := NewController(Options{Logger: quiet()})
	c.SetContainer(Frames{})
	c.Move(vector.S(math.NaN(), math.Inf(1)))
	if r := c.Rendered(); math.IsNaN(r.W) || math.IsNaN(r.H) || !r.IsZero() {
		t.Fatalf("rendered in zero container = %+v", r)
	}
	got := c.Release(vector.S(math.Inf(-1), math.NaN()), vector.P(math.NaN(), 3))
	if !got.IsZero() {
		t.Fatalf("release in zero container = %+v", got)
	}

	big := NewController(Options{Logger: quiet(), Anchors: anchor.None()})
	big.SetContainer(Frames{Size: vector.S(100, 40)})
	big.SetContentSize(vector.S(160, 60))
	b := big.Bounds()
	if b.MinX != b.MaxX || b.MinY != b.MaxY {
		t.Fatalf("oversized content should collapse bounds, got %+v", b)
	}
	big.Move(vector.S(-300, 300))
	if big.Rendered() != vector.S(b.MinX, b.MinY) {
		t.Fatalf("rendered = %+v, want collapsed point", big.Rendered())
	}
}

func TestController_ContainerSpace(t *testing.T) {
	c := NewController(Options{Space: SpaceContainer, Anchors: anchor.CenterOnly(), Logger: quiet()})
	c.SetContainer(Frames{Size: vector.S(300, 200), Global: vector.P(10, 20)})
	c.SetContentSize(vector.S(100, 50))
	if want := (snap.Bounds{MinX: 50, MaxX: 250, MinY: 25, MaxY: 175}); c.Bounds() != want {
		t.Fatalf("bounds = %+v", c.Bounds())
	}
	c.Move(vector.S(200, 0))
	if got := c.Release(vector.S(200, 0), vector.P(210, 90)); got != vector.S(150, 100) {
		t.Fatalf("snapped to center = %+v", got)
	}
}

func TestController_GlobalSpace(t *testing.T) {
	c := NewController(Options{Space: SpaceGlobal, Anchors: anchor.Of(anchor.BottomTrailing), Logger: quiet()})
	c.SetContainer(Frames{Size: vector.S(300, 200), Global: vector.P(10, 20)})
	c.SetContentSize(vector.S(100, 50))
	c.Move(vector.S(1, 1))
	// bottom-trailing corner sits at (310,220); clamped by half the content
	if got := c.Release(vector.S(1, 1), vector.P(300, 200)); got != vector.S(260, 195) {
		t.Fatalf("offset = %+v, want (260,195)", got)
	}
}

func TestController_ResetDuringReleaseIgnored(t *testing.T) {
	var c *Controller
	c = newMeasured(Options{Anchors: anchor.None(), OnRelease: func(Release) { c.Reset() }})
	c.Move(vector.S(30, 30))
	c.Release(vector.S(30, 30), vector.P(0, 0))
	if c.Offset() != vector.S(30, 30) {
		t.Fatalf("reset inside release took effect: %+v", c.Offset())
	}
	c.Reset()
	if !c.Offset().IsZero() {
		t.Fatalf("reset after release ignored: %+v", c.Offset())
	}
}

func TestController_RenderedFrame(t *testing.T) {
	c := newMeasured(Options{})
	c.Cell().Set(vector.S(10, 5))
	if got := c.RenderedFrame(); got != vector.R(-40, -20, 100, 50) {
		t.Fatalf("rendered frame = %+v", got)
	}
}

func TestFrames_Convert(t *testing.T) {
	f := Frames{Size: vector.S(300, 200), Global: vector.P(10, 20)}
	if got := f.Convert(vector.P(0, 0), SpaceLocal, SpaceContainer); got != vector.P(150, 100) {
		t.Fatalf("local->container = %+v", got)
	}
	if got := f.Convert(vector.P(0, 0), SpaceLocal, SpaceGlobal); got != vector.P(160, 120) {
		t.Fatalf("local->global = %+v", got)
	}
	if got := f.Convert(vector.P(160, 120), SpaceGlobal, SpaceLocal); got != vector.P(0, 0) {
		t.Fatalf("global->local = %+v", got)
	}
}

func TestParseSpace(t *testing.T) {
	for _, s := range []Space{SpaceLocal, SpaceContainer, SpaceGlobal} {
		got, err := ParseSpace(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseSpace(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSpace("screen"); err == nil {
		t.Fatalf("expected error for unknown space")
	}
}

func TestFeedbacks_FanOut(t *testing.T) {
	a, b := &counter{}, &counter{}
	calls := 0
	fb := Feedbacks(a, nil, b, FeedbackFunc(func() { calls++ }))
	fb.Settled()
	if a.n != 1 || b.n != 1 || calls != 1 {
		t.Fatalf("fan-out counts a=%d b=%d f=%d", a.n, b.n, calls)
	}
}

func TestController_ReleaseProjectedSnapsFromContentCenter(t *testing.T) {
	c := newMeasured(Options{Anchors: anchor.Corners()})
	c.Cell().Set(vector.S(-50, 0))
	c.Move(vector.S(180, 60))
	// committed (-50,0) + predicted (180,60) lands at (130,60), nearest bottomTrailing.
	got := c.ReleaseProjected(vector.S(180, 60))
	if got != vector.S(100, 75) {
		t.Fatalf("final = %+v", got)
	}
}
