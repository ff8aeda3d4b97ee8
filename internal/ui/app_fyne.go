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
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"snappy/internal/history"
	applog "snappy/internal/log"
	"snappy/internal/vector"
)

const historySurface = "ui"

// Run opens the demo window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, opts Options) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	fyneApp := app.NewWithID("snappy")
	w := fyneApp.NewWindow("Snappy")
	prefs := fyneApp.Preferences()
	winW := max(prefs.IntWithFallback("window.width", 640), 320)
	winH := max(prefs.IntWithFallback("window.height", 480), 240)
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	hist := history.NewManager(opts.History)
	position := widget.NewLabel("")
	view := NewSnapView(opts)
	var undoBtn, redoBtn *widget.Button
	refresh := func() {
		o := view.Controller().Offset()
		position.SetText(fmt.Sprintf("Offset: (%.1f, %.1f)", o.W, o.H))
		setEnabled(undoBtn, hist.CanUndo(historySurface))
		setEnabled(redoBtn, hist.CanRedo(historySurface))
	}
	view.OnCommit = func(before, after vector.Size) {
		if before != after {
			hist.Record(historySurface, before, timeNow())
		}
		refresh()
	}

	reset := widget.NewButton("Reset", func() {
		view.OnCommit(view.Reset())
	})
	undoBtn = widget.NewButton("Undo", func() {
		if v, ok := hist.Undo(historySurface, view.Controller().Offset()); ok {
			view.Restore(v)
		}
		refresh()
	})
	redoBtn = widget.NewButton("Redo", func() {
		if v, ok := hist.Redo(historySurface, view.Controller().Offset()); ok {
			view.Restore(v)
		}
		refresh()
	})
	markers := widget.NewCheck("Markers", func(on bool) { view.SetShowMarkers(on) })
	markers.SetChecked(opts.ShowMarkers)

	toolbar := container.NewHBox(reset, undoBtn, redoBtn, markers, position)
	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, view))
	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})
	refresh()

	stop := quitWhenDone(ctx, func() { fyne.Do(fyneApp.Quit) })
	w.ShowAndRun()
	stop()
	_, entries := hist.Stats()
	l.Info("UI closed", slog.Any("offset", view.Controller().Offset()), slog.Int("history", entries))
	return nil
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
