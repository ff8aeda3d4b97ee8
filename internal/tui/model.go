/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui is a terminal demo of the drag engine: a boxed label inside the
// terminal that can be dragged with the mouse and snaps to anchors on release.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snappy/internal/anchor"
	"snappy/internal/drag"
	"snappy/internal/gesture"
	"snappy/internal/history"
	applog "snappy/internal/log"
	"snappy/internal/vector"
)

const historySurface = "tui"

// Options configure the terminal demo.
type Options struct {
	Drag        drag.Options
	Gesture     gesture.Config
	History     history.Config
	ShowMarkers bool
	Label       string
	// Now is the clock used for velocity samples. nil means time.Now.
	Now func() time.Time
}

// presets cycled with the "a" key.
var presets = []struct {
	name string
	set  func() anchor.Set
}{
	{"all", anchor.All},
	{"corners", anchor.Corners},
	{"centers", func() anchor.Set { return anchor.Union(anchor.HorizontalCenters(), anchor.VerticalCenters()) }},
	{"none", anchor.None},
}

// Model is the bubbletea model.
type Model struct {
	ctrl    *drag.Controller
	view    *drag.View[string, rune]
	tracker *gesture.Tracker
	hist    *history.Manager
	now     func() time.Time
	log     *slog.Logger
	keys    keyMap
	help    help.Model

	width, height int
	grabbing      bool
	settled       bool
	preset        int
	presetName    string
}

// New builds a model. The container is measured on the first WindowSizeMsg.
func New(opts Options) *Model {
	m := &Model{
		tracker:    gesture.NewTracker(opts.Gesture),
		hist:       history.NewManager(opts.History),
		now:        opts.Now,
		log:        opts.Drag.Logger,
		keys:       defaultKeys(),
		help:       help.New(),
		presetName: "custom",
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.log == nil {
		m.log = applog.WithComponent("tui")
	}
	if opts.Drag.Anchors == nil {
		m.presetName = "all"
	}
	dopts := opts.Drag
	dopts.Feedback = drag.Feedbacks(drag.FeedbackFunc(func() { m.settled = true }), opts.Drag.Feedback)
	m.ctrl = drag.NewController(dopts)

	label := opts.Label
	if label == "" {
		label = "snappy"
	}
	content := contentStyle.Render(label)
	m.view = drag.NewView[string, rune](m.ctrl, content)
	if opts.ShowMarkers {
		m.view.WithMarker(markerRune)
	}
	m.ctrl.SetContentSize(vector.S(float64(lipgloss.Width(content)), float64(lipgloss.Height(content))))
	m.syncHistoryKeys()
	return m
}

// Run starts the program and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

// Controller exposes the drag controller, mainly for tests.
func (m *Model) Controller() *drag.Controller { return m.ctrl }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}
	m.syncHistoryKeys()
	return m, cmd
}

// syncHistoryKeys enables undo and redo only when they would do something,
// which also hides them from the help line.
func (m *Model) syncHistoryKeys() {
	m.keys.Undo.SetEnabled(m.hist.CanUndo(historySurface))
	m.keys.Redo.SetEnabled(m.hist.CanRedo(historySurface))
}

// resize measures the container: the terminal minus the frame border and the
// status line. Global space is terminal cells.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw, ch := max(w-2, 0), max(h-3, 0)
	m.ctrl.SetContainer(drag.Frames{Size: vector.S(float64(cw), float64(ch)), Global: vector.P(1, 1)})
}

// toContainer maps a terminal cell to container coordinates.
func toContainer(x, y int) vector.Pt { return vector.P(float64(x-1), float64(y-1)) }

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := toContainer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.ctrl.State() == drag.Dragging {
			return
		}
		if !m.contentRect().Contains(p) {
			return
		}
		m.grabbing = true
		m.settled = false
		m.tracker.Begin(m.now(), p)
	case tea.MouseActionMotion:
		if !m.grabbing {
			return
		}
		m.ctrl.Move(m.tracker.Add(m.now(), p))
	case tea.MouseActionRelease:
		if !m.grabbing {
			return
		}
		m.grabbing = false
		m.tracker.Add(m.now(), p)
		delta, _ := m.tracker.End()
		before := m.ctrl.Offset()
		after := m.ctrl.ReleaseProjected(delta)
		m.remember(before, after)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.grabbing {
			m.grabbing = false
			m.tracker.End()
			m.ctrl.Cancel()
		}
	case key.Matches(msg, m.keys.Reset):
		before := m.ctrl.Offset()
		m.ctrl.Reset()
		m.remember(before, m.ctrl.Offset())
	case key.Matches(msg, m.keys.Undo):
		if v, ok := m.hist.Undo(historySurface, m.ctrl.Offset()); ok {
			m.ctrl.Cell().Set(m.ctrl.Bounds().Clamp(v))
		}
	case key.Matches(msg, m.keys.Redo):
		if v, ok := m.hist.Redo(historySurface, m.ctrl.Offset()); ok {
			m.ctrl.Cell().Set(m.ctrl.Bounds().Clamp(v))
		}
	case key.Matches(msg, m.keys.Markers):
		if m.view.ShowsMarkers() {
			m.view.WithoutMarker()
		} else {
			m.view.WithMarker(markerRune)
		}
	case key.Matches(msg, m.keys.Anchors):
		m.preset = (m.preset + 1) % len(presets)
		m.presetName = presets[m.preset].name
		m.ctrl.SetAnchors(presets[m.preset].set())
		m.log.Debug("anchor preset", slog.String("preset", m.presetName))
	}
	return nil
}

func (m *Model) remember(before, after vector.Size) {
	if before != after {
		m.hist.Record(historySurface, before, m.now())
	}
}

// contentRect is the rendered content rectangle in container coordinates.
func (m *Model) contentRect() vector.Rect {
	r := m.ctrl.RenderedFrame()
	center := m.ctrl.Frames().Convert(r.Center(), m.ctrl.Space(), drag.SpaceContainer)
	return vector.CenteredAt(center, r.Size())
}
