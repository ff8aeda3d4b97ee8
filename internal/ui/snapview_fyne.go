//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"snappy/internal/drag"
	"snappy/internal/gesture"
	"snappy/internal/vector"
)

var timeNow = time.Now

const markerSize = 8

// card is the draggable content: a filled rounded rectangle with a label.
type card struct {
	bg    *canvas.Rectangle
	label *canvas.Text
}

// SnapView is a widget that hosts one draggable card. Pointer drags move the
// card; on release it snaps to the nearest active anchor and springs into
// place.
type SnapView struct {
	widget.BaseWidget

	ctrl    *drag.Controller
	view    *drag.View[*card, color.Color]
	tracker *gesture.Tracker
	spring  Spring

	grabbing bool
	display  vector.Size // offset currently drawn, animated after release
	anim     *fyne.Animation

	// OnCommit is called after every release with the committed offset before
	// and after.
	OnCommit func(before, after vector.Size)
}

func NewSnapView(opts Options) *SnapView {
	label := opts.Label
	if label == "" {
		label = "snappy"
	}
	text := canvas.NewText(label, color.White)
	text.TextStyle = fyne.TextStyle{Bold: true}
	bg := canvas.NewRectangle(color.RGBA{R: 0x7d, G: 0x56, B: 0xf4, A: 0xff})
	bg.CornerRadius = theme.Padding() * 2

	v := &SnapView{
		ctrl:    drag.NewController(opts.Drag),
		tracker: gesture.NewTracker(opts.Gesture),
		spring:  opts.Spring,
	}
	v.view = drag.NewView[*card, color.Color](v.ctrl, &card{bg: bg, label: text})
	v.ExtendBaseWidget(v)
	v.SetShowMarkers(opts.ShowMarkers)
	pad := theme.Padding() * 4
	ts := text.MinSize()
	v.ctrl.SetContentSize(vector.S(float64(ts.Width+pad), float64(ts.Height+pad)))
	v.display = v.ctrl.Offset()
	return v
}

func (v *SnapView) Controller() *drag.Controller { return v.ctrl }

func (v *SnapView) SetShowMarkers(on bool) {
	if on {
		v.view.WithMarker(color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff})
	} else {
		v.view.WithoutMarker()
	}
	v.Refresh()
}

// Restore writes a previously committed offset, e.g. from undo history.
func (v *SnapView) Restore(o vector.Size) {
	v.stopAnimation()
	v.ctrl.Cell().Set(v.ctrl.Bounds().Clamp(o))
	v.display = v.ctrl.Offset()
	v.Refresh()
}

// Reset returns the card to its natural position at once, cutting short any
// settle animation. It reports the committed offset before and after.
func (v *SnapView) Reset() (before, after vector.Size) {
	v.stopAnimation()
	before = v.ctrl.Offset()
	v.ctrl.Reset()
	v.display = v.ctrl.Offset()
	v.Refresh()
	return before, v.display
}

func (v *SnapView) MinSize() fyne.Size {
	v.ExtendBaseWidget(v)
	cs := v.ctrl.ContentSize()
	return fyne.NewSize(float32(cs.W)*2, float32(cs.H)*2)
}

// measure reports the widget's current size and window position to the
// controller. A zero size means the widget has not been laid out yet.
func (v *SnapView) measure(size fyne.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	var global fyne.Position
	if app := fyne.CurrentApp(); app != nil && app.Driver() != nil {
		global = app.Driver().AbsolutePositionForObject(v)
	}
	v.ctrl.SetContainer(drag.Frames{
		Size:   vector.S(float64(size.Width), float64(size.Height)),
		Global: vector.P(float64(global.X), float64(global.Y)),
	})
	if v.anim == nil && !v.grabbing {
		v.display = v.ctrl.Offset()
	}
}

// contentRect is the drawn card rectangle in widget coordinates.
func (v *SnapView) contentRect() vector.Rect {
	f := v.ctrl.Frames()
	center := f.Convert(v.ctrl.Bounds().Clamp(v.display).Pt(), v.ctrl.Space(), drag.SpaceContainer)
	return vector.CenteredAt(center, v.ctrl.ContentSize())
}

func toPt(p fyne.Position) vector.Pt { return vector.P(float64(p.X), float64(p.Y)) }

func (v *SnapView) Dragged(e *fyne.DragEvent) {
	p := toPt(e.Position)
	if !v.grabbing {
		start := vector.SubPoints(p, vector.P(float64(e.Dragged.DX), float64(e.Dragged.DY)))
		if !v.contentRect().Contains(start) {
			return
		}
		v.stopAnimation()
		v.grabbing = true
		v.tracker.Begin(timeNow(), start)
	}
	v.ctrl.Move(v.tracker.Add(timeNow(), p))
	v.display = v.ctrl.Rendered()
	v.Refresh()
}

func (v *SnapView) DragEnd() {
	if !v.grabbing {
		return
	}
	v.grabbing = false
	from := v.ctrl.Rendered()
	delta, _ := v.tracker.End()
	before := v.ctrl.Offset()
	after := v.ctrl.ReleaseProjected(delta)
	v.animate(from, after)
	if v.OnCommit != nil {
		v.OnCommit(before, after)
	}
}

func (v *SnapView) animate(from, to vector.Size) {
	v.stopAnimation()
	traj := v.spring.Trajectory(from, to)
	if len(traj) == 1 {
		v.display = to
		v.Refresh()
		return
	}
	v.anim = fyne.NewAnimation(v.spring.Duration(from, to), func(f float32) {
		v.display = At(traj, f)
		if f >= 1 {
			v.anim = nil
		}
		v.Refresh()
	})
	v.anim.Curve = fyne.AnimationLinear
	v.anim.Start()
}

func (v *SnapView) stopAnimation() {
	if v.anim != nil {
		v.anim.Stop()
		v.anim = nil
	}
}

func (v *SnapView) CreateRenderer() fyne.WidgetRenderer {
	c := v.view.Content().Payload
	return &snapRenderer{v: v, card: c, objects: []fyne.CanvasObject{c.bg, c.label}}
}

type snapRenderer struct {
	v       *SnapView
	card    *card
	markers []*canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *snapRenderer) Destroy()                     {}
func (r *snapRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *snapRenderer) MinSize() fyne.Size           { return r.v.MinSize() }
func (r *snapRenderer) Refresh()                     { r.Layout(r.v.Size()); canvas.Refresh(r.v) }

func (r *snapRenderer) Layout(size fyne.Size) {
	r.v.measure(size)
	f := r.v.ctrl.Frames()
	space := r.v.ctrl.Space()

	ms := r.v.view.Markers()
	for len(r.markers) < len(ms) {
		r.markers = append(r.markers, canvas.NewRectangle(color.Transparent))
	}
	for i, rect := range r.markers {
		if i >= len(ms) {
			rect.Hide()
			continue
		}
		p := f.Convert(ms[i].At, space, drag.SpaceContainer)
		rect.FillColor = ms[i].Payload
		rect.Resize(fyne.NewSize(markerSize, markerSize))
		rect.Move(fyne.NewPos(float32(p.X)-markerSize/2, float32(p.Y)-markerSize/2))
		rect.Show()
		rect.Refresh()
	}

	cr := r.v.contentRect()
	r.card.bg.Resize(fyne.NewSize(float32(cr.W), float32(cr.H)))
	r.card.bg.Move(fyne.NewPos(float32(cr.X), float32(cr.Y)))
	ts := r.card.label.MinSize()
	r.card.label.Move(fyne.NewPos(float32(cr.X)+(float32(cr.W)-ts.Width)/2, float32(cr.Y)+(float32(cr.H)-ts.Height)/2))
	r.card.label.Resize(ts)

	r.objects = r.objects[:0]
	for _, m := range r.markers {
		r.objects = append(r.objects, m)
	}
	r.objects = append(r.objects, r.card.bg, r.card.label)
}
