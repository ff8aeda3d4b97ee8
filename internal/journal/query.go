/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package journal

import (
	"context"
	"fmt"
	"time"

	"snappy/internal/vector"
)

// Summary aggregates the whole journal.
type Summary struct {
	Schema   int
	Sessions int
	Releases int
	Snapped  int
	Moved    int
	// ByAnchor counts snapped releases per anchor name.
	ByAnchor map[string]int
}

// Entry is one recorded release.
type Entry struct {
	Session string
	At      time.Time
	Space   string
	From    vector.Size
	Final   vector.Size
	Snapped bool
	Anchor  string
	Moved   bool
}

// Summary reads aggregate counts.
func (j *Journal) Summary(ctx context.Context) (Summary, error) {
	s := Summary{ByAnchor: map[string]int{}}
	db, err := j.conn()
	if err != nil {
		return s, err
	}
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&s.Schema); err != nil {
		return s, fmt.Errorf("read schema version: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&s.Sessions); err != nil {
		return s, fmt.Errorf("count sessions: %w", err)
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(snapped), 0), COALESCE(SUM(moved), 0) FROM releases`,
	).Scan(&s.Releases, &s.Snapped, &s.Moved); err != nil {
		return s, fmt.Errorf("count releases: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT anchor, COUNT(*) FROM releases WHERE snapped=1 GROUP BY anchor ORDER BY anchor`)
	if err != nil {
		return s, fmt.Errorf("count anchors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return s, fmt.Errorf("scan anchor count: %w", err)
		}
		s.ByAnchor[name] = n
	}
	return s, rows.Err()
}

// Recent returns up to limit releases, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	db, err := j.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT session_id, ts, space, from_w, from_h, final_w, final_h, snapped, anchor, moved
		FROM releases ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var (
			e              Entry
			ts             string
			snapped, moved int
		)
		if err := rows.Scan(&e.Session, &ts, &e.Space, &e.From.W, &e.From.H, &e.Final.W, &e.Final.H, &snapped, &e.Anchor, &moved); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, ts)
		e.Snapped, e.Moved = snapped == 1, moved == 1
		out = append(out, e)
	}
	return out, rows.Err()
}
