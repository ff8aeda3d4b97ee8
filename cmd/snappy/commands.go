/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"snappy/internal/anchor"
	"snappy/internal/config"
	"snappy/internal/drag"
	"snappy/internal/export"
	"snappy/internal/history"
	"snappy/internal/journal"
	"snappy/internal/telemetry"
	"snappy/internal/trace"
)

// dragOptions builds controller options from the engine config with
// telemetry wired into the settle cue.
func (a *app) dragOptions() (drag.Options, error) {
	opts, err := a.cfg.Engine.Options()
	if err != nil {
		return drag.Options{}, err
	}
	opts.Feedback = a.cfg.Engine.Feedbacks(a.tel)
	opts.OnRelease = func(r drag.Release) {
		a.tel.Released(opts.Space.String(), r.Snapped, anchorName(r))
	}
	return opts, nil
}

func anchorName(r drag.Release) string {
	if !r.Snapped {
		return ""
	}
	return r.Anchor.String()
}

func (a *app) anchors(w io.Writer, expr string) error {
	set, err := anchor.Parse(expr)
	if err != nil {
		return usageError{err}
	}
	if set.Empty() {
		fmt.Fprintln(w, "(none)")
		return nil
	}
	for _, p := range set.Points() {
		fmt.Fprintf(w, "%-16s (%g, %g)\n", p.String(), p.X, p.Y)
	}
	return nil
}

// releaseSink forwards replayed releases to telemetry and, when open, a journal.
type releaseSink struct {
	tel     *telemetry.Client
	journal *journal.Journal
}

func (s releaseSink) Record(ctx context.Context, space drag.Space, rel drag.Release) error {
	s.tel.Released(space.String(), rel.Snapped, anchorName(rel))
	if s.journal == nil {
		return nil
	}
	return s.journal.Record(ctx, space, rel)
}

// runTrace loads and replays a trace. Space and anchors fall back to the
// engine config when the trace leaves them empty.
func (a *app) runTrace(ctx context.Context, path string, rec trace.Recorder) (*trace.Trace, *trace.Result, error) {
	tr, err := trace.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if tr.Space == "" {
		tr.Space = a.cfg.Engine.CoordinateSpace
	}
	if tr.Anchors == "" {
		tr.Anchors = a.cfg.Engine.Anchors
	}
	a.log.Info("replaying trace", slog.String("path", path), slog.Int("events", len(tr.Events)))
	res, err := trace.Replay(ctx, tr, trace.Options{
		Gesture:  a.cfg.Gesture.Tracker(),
		History:  history.NewManager(a.cfg.History.Manager()),
		Recorder: rec,
		Feedback: a.cfg.Engine.Feedbacks(a.tel),
		Logger:   a.log.With(slog.String("trace", path)),
	})
	if res != nil {
		ctrl := res.Controller
		a.state = func() string {
			o := ctrl.Offset()
			return fmt.Sprintf("trace=%s state=%v offset=(%.2f, %.2f)", path, ctrl.State(), o.W, o.H)
		}
	}
	return tr, res, err
}

func (a *app) replay(ctx context.Context, w io.Writer, path, journalPath string) error {
	sink := releaseSink{tel: a.tel}
	if journalPath != "" {
		j, err := journal.Open(ctx, journalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		sink.journal = j
	}
	_, res, err := a.runTrace(ctx, path, sink)
	if err != nil {
		return err
	}
	for _, st := range res.Steps {
		if st.Release == nil {
			continue
		}
		r := st.Release
		snap := "free"
		if r.Snapped {
			snap = "snapped to " + r.Anchor.String()
		}
		fmt.Fprintf(w, "event %d: release (%.1f, %.1f) -> (%.1f, %.1f) %s\n",
			st.Index, r.Candidate.W, r.Candidate.H, r.Final.W, r.Final.H, snap)
	}
	f := res.Final()
	fmt.Fprintf(w, "final offset (%.1f, %.1f) after %d events, %d releases, %d settles\n",
		f.W, f.H, len(res.Steps), res.Releases, res.Settles)
	span := res.Controller.Bounds().Span()
	fmt.Fprintf(w, "movement range %.1f x %.1f\n", span.W, span.H)
	if sink.journal != nil {
		fmt.Fprintf(w, "journal %s session %s\n", sink.journal.Path(), sink.journal.Session())
	}
	return nil
}

func (a *app) render(ctx context.Context, w io.Writer, tracePath, out string) error {
	if _, err := export.FormatFor(out); err != nil {
		return usageError{err}
	}
	tr, res, err := a.runTrace(ctx, tracePath, releaseSink{tel: a.tel})
	if err != nil {
		return err
	}
	caption := tr.Name
	if caption == "" {
		caption = "snappy"
	}
	scene := export.FromController(res.Controller, a.cfg.Engine.ShowMarkers, caption)
	if err := export.WriteFile(out, scene); err != nil {
		return err
	}
	a.log.Info("snapshot written", slog.String("out", out))
	fmt.Fprintf(w, "wrote %s\n", out)
	return nil
}

func (a *app) journal(ctx context.Context, w io.Writer, path string) error {
	j, err := journal.Inspect(ctx, path)
	if err != nil {
		return err
	}
	defer j.Close()
	sum, err := j.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "schema %d, %d sessions, %d releases (%d snapped, %d moved)\n",
		sum.Schema, sum.Sessions, sum.Releases, sum.Snapped, sum.Moved)
	names := make([]string, 0, len(sum.ByAnchor))
	for n := range sum.ByAnchor {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %d\n", n, sum.ByAnchor[n])
	}
	recent, err := j.Recent(ctx, 10)
	if err != nil {
		return err
	}
	for _, e := range recent {
		anchorLabel := "-"
		if e.Snapped {
			anchorLabel = e.Anchor
		}
		fmt.Fprintf(w, "%s %-9s (%.1f, %.1f) -> (%.1f, %.1f) %s\n",
			e.At.Format("2006-01-02 15:04:05"), e.Space, e.From.W, e.From.H, e.Final.W, e.Final.H, anchorLabel)
	}
	return nil
}

func (a *app) showConfig(w io.Writer, write bool) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s\n", path)
	fmt.Fprint(w, a.cfg.String())
	for _, key := range []string{
		"engine.coordinate_space", "engine.anchors", "engine.show_markers", "engine.feedback",
		"general.telemetry_opt_in", "logging.level", "logging.format", "logging.source", "logging.file",
	} {
		if env, ok := config.EnvOverrideFor(key); ok {
			fmt.Fprintf(w, "# %s overridden by %s\n", key, env)
		}
	}
	if !write {
		return nil
	}
	if err := config.Save(a.cfg); err != nil {
		return err
	}
	fmt.Fprintf(w, "saved %s\n", path)
	return nil
}
