/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package trace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"snappy/internal/anchor"
	"snappy/internal/drag"
	"snappy/internal/gesture"
	"snappy/internal/history"
	applog "snappy/internal/log"
	"snappy/internal/vector"
)

// Recorder persists release outcomes, e.g. a journal.
type Recorder interface {
	Record(ctx context.Context, space drag.Space, rel drag.Release) error
}

// Options for Replay. The zero value replays with default gesture settings
// and no history, recorder or extra feedback.
type Options struct {
	Gesture  gesture.Config
	History  *history.Manager
	Recorder Recorder
	Feedback drag.Feedback
	Logger   *slog.Logger
}

// Step is the controller state after one event.
type Step struct {
	Index    int
	Event    Event
	Offset   vector.Size // committed
	Rendered vector.Size
	Release  *drag.Release
	Settled  bool
}

// Result of a replay. Controller is left in its final state so callers can
// render it.
type Result struct {
	Controller *drag.Controller
	Steps      []Step
	Releases   int
	Settles    int
}

// epoch anchors pointer event times, which are relative milliseconds.
var epoch = time.Unix(0, 0)

// Replay drives a fresh controller through tr's events in order.
func Replay(ctx context.Context, tr *Trace, opts Options) (*Result, error) {
	space, err := drag.ParseSpace(tr.Space)
	if err != nil {
		return nil, err
	}
	set := anchor.All()
	if tr.Anchors != "" {
		if set, err = anchor.Parse(tr.Anchors); err != nil {
			return nil, fmt.Errorf("trace anchors: %w", err)
		}
	}
	lg := opts.Logger
	if lg == nil {
		lg = applog.WithOperation(applog.WithComponent("trace"), "replay")
	}
	gcfg := opts.Gesture
	if gcfg == (gesture.Config{}) {
		gcfg = gesture.DefaultConfig()
	}
	surface := tr.Name
	if surface == "" {
		surface = "trace"
	}

	res := &Result{}
	var last *drag.Release
	cell := &drag.Value{}
	if tr.Initial != nil {
		cell = drag.NewValue(vector.S(tr.Initial.X, tr.Initial.Y))
	}
	ctrl := drag.NewController(drag.Options{
		Space:    space,
		Cell:     cell,
		Anchors:  set,
		Feedback: drag.Feedbacks(drag.FeedbackFunc(func() { res.Settles++ }), opts.Feedback),
		OnRelease: func(r drag.Release) {
			last = &r
		},
		Logger: lg,
	})
	res.Controller = ctrl
	tracker := gesture.NewTracker(gcfg)

	for i, ev := range tr.Events {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		settles := res.Settles
		last = nil
		at := epoch.Add(time.Duration(ev.T * float64(time.Millisecond)))
		p, hasPos, err := position(ev)
		if err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}

		switch ev.Type {
		case TypeContainer:
			f := drag.Frames{Size: vector.S(ev.W, ev.H)}
			if hasPos {
				f.Global = p
			}
			ctrl.SetContainer(f)
		case TypeContent:
			ctrl.SetContentSize(vector.S(ev.W, ev.H))
		case TypeMove:
			ctrl.Move(vector.S(ev.DX, ev.DY))
		case TypeRelease:
			before := ctrl.Offset()
			predicted := vector.S(ev.DX, ev.DY)
			if hasPos {
				ctrl.Release(predicted, p)
			} else {
				ctrl.ReleaseProjected(predicted)
			}
			remember(opts.History, surface, before, ctrl.Offset(), at)
		case TypePointer:
			if !hasPos {
				return res, fmt.Errorf("event %d: %w: pointer needs x and y", i, ErrInvalid)
			}
			switch ev.Phase {
			case "begin":
				tracker.Begin(at, p)
			case "move":
				ctrl.Move(tracker.Add(at, p))
			case "end":
				tracker.Add(at, p)
				delta, _ := tracker.End()
				before := ctrl.Offset()
				ctrl.ReleaseProjected(delta)
				remember(opts.History, surface, before, ctrl.Offset(), at)
			}
		case TypeCancel:
			ctrl.Cancel()
		case TypeReset:
			before := ctrl.Offset()
			ctrl.Reset()
			remember(opts.History, surface, before, ctrl.Offset(), at)
		case TypeAnchors:
			s, err := anchor.Parse(ev.Expr)
			if err != nil {
				return res, fmt.Errorf("event %d: %w", i, err)
			}
			ctrl.SetAnchors(s)
		case TypeUndo:
			if opts.History != nil {
				if v, ok := opts.History.Undo(surface, ctrl.Offset()); ok {
					ctrl.Cell().Set(ctrl.Bounds().Clamp(v))
				}
			}
		case TypeRedo:
			if opts.History != nil {
				if v, ok := opts.History.Redo(surface, ctrl.Offset()); ok {
					ctrl.Cell().Set(ctrl.Bounds().Clamp(v))
				}
			}
		default:
			return res, fmt.Errorf("event %d: %w: unknown type %q", i, ErrInvalid, ev.Type)
		}

		step := Step{
			Index:    i,
			Event:    ev,
			Offset:   ctrl.Offset(),
			Rendered: ctrl.Rendered(),
			Release:  last,
			Settled:  res.Settles > settles,
		}
		if last != nil {
			res.Releases++
			if opts.Recorder != nil {
				if err := opts.Recorder.Record(ctx, space, *last); err != nil {
					return res, fmt.Errorf("record release %d: %w", i, err)
				}
			}
		}
		res.Steps = append(res.Steps, step)
	}
	attrs := []any{
		slog.Int("events", len(tr.Events)),
		slog.Int("releases", res.Releases),
		slog.Int("settles", res.Settles),
		applog.Offset("final", ctrl.Offset()),
	}
	if opts.History != nil {
		_, entries := opts.History.Stats()
		attrs = append(attrs, slog.Int("history", entries))
	}
	lg.Debug("replay finished", attrs...)
	return res, nil
}

// position reads an event's optional x/y pair. Setting only one of them is
// an error.
func position(ev Event) (vector.Pt, bool, error) {
	switch {
	case ev.X == nil && ev.Y == nil:
		return vector.Pt{}, false, nil
	case ev.X == nil || ev.Y == nil:
		return vector.Pt{}, false, fmt.Errorf("%w: %s event needs both x and y", ErrInvalid, ev.Type)
	}
	return vector.P(*ev.X, *ev.Y), true, nil
}

func remember(h *history.Manager, surface string, before, after vector.Size, at time.Time) {
	if h == nil || before == after {
		return
	}
	h.Record(surface, before, at)
}

// Final returns the committed offset after the last event.
func (r *Result) Final() vector.Size { return r.Controller.Offset() }
