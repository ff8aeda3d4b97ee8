/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package journal keeps a local SQLite log of drag release outcomes for
// diagnostics. Each Open starts a new session identified by a UUID.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"snappy/internal/drag"
	applog "snappy/internal/log"
	"snappy/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the journal schema. Journals written by a newer
// schema are refused.
const schemaVersion = 1

// Journal is safe for concurrent use; database/sql serializes access.
type Journal struct {
	db      *sql.DB
	path    string
	session string
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	closed bool
}

// Open creates or opens the journal at path and starts a session.
func Open(ctx context.Context, path string) (*Journal, error) {
	return open(ctx, path, true)
}

// Inspect opens the journal for reading without starting a session. Record
// fails on an inspected journal.
func Inspect(ctx context.Context, path string) (*Journal, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return open(ctx, path, false)
}

func open(ctx context.Context, path string, session bool) (*Journal, error) {
	l := applog.WithOperation(applog.WithComponent("journal"), "open").With(slog.String("path", path))
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &Journal{db: db, path: path, now: time.Now, log: l}
	if !session {
		return j, nil
	}
	j.session = uuid.NewString()
	j.log = l.With(slog.String("session", j.session))
	if _, err := db.ExecContext(ctx, `INSERT INTO sessions (id, started_at, app) VALUES(?, ?, ?)`,
		j.session, j.now().UTC().Format(time.RFC3339Nano), version.String()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("insert session: %w", err)
	}
	l.Debug("journal ready", slog.String("session", j.session))
	return j, nil
}

var (
	// ErrNoSession is returned by Record on a journal opened with Inspect.
	ErrNoSession = errors.New("journal has no active session")
	ErrClosed    = errors.New("journal closed")
)

// Session returns the ID of the session started by Open.
func (j *Journal) Session() string { return j.session }

func (j *Journal) Path() string { return j.path }

// Record appends one release to the current session.
func (j *Journal) Record(ctx context.Context, space drag.Space, rel drag.Release) error {
	if j.session == "" {
		return ErrNoSession
	}
	db, err := j.conn()
	if err != nil {
		return err
	}
	ctx = applog.WithSession(ctx, j.session)
	anchorName := ""
	if rel.Snapped {
		anchorName = rel.Anchor.String()
	}
	_, err = db.ExecContext(ctx, `INSERT INTO releases
		(session_id, ts, space, from_w, from_h, cand_w, cand_h, final_w, final_h, snapped, anchor, moved)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.session, j.now().UTC().Format(time.RFC3339Nano), space.String(),
		rel.From.W, rel.From.H, rel.Candidate.W, rel.Candidate.H, rel.Final.W, rel.Final.H,
		boolInt(rel.Snapped), anchorName, boolInt(rel.Moved))
	if err != nil {
		return fmt.Errorf("record release: %w", err)
	}
	j.log.DebugContext(ctx, "release recorded", applog.Offset("final", rel.Final), slog.String("anchor", anchorName))
	return nil
}

// Close ends the session and closes the database. Afterwards every method
// except Close returns ErrClosed.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}

func (j *Journal) conn() (*sql.DB, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil, ErrClosed
	}
	return j.db, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ensureVersion(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case cur > schemaVersion:
		return fmt.Errorf("journal schema %d is newer than supported %d", cur, schemaVersion)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			app        TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS releases (
			id         INTEGER PRIMARY KEY,
			session_id TEXT    NOT NULL REFERENCES sessions(id),
			ts         TEXT    NOT NULL,
			space      TEXT    NOT NULL,
			from_w     REAL    NOT NULL,
			from_h     REAL    NOT NULL,
			cand_w     REAL    NOT NULL,
			cand_h     REAL    NOT NULL,
			final_w    REAL    NOT NULL,
			final_h    REAL    NOT NULL,
			snapped    INTEGER NOT NULL,
			anchor     TEXT    NOT NULL DEFAULT '',
			moved      INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_releases_session ON releases(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_releases_anchor ON releases(anchor);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create journal schema: %w", err)
		}
	}
	return nil
}
