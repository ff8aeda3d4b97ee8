/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps undo/redo stacks of committed offsets, one pair of
// stacks per drag surface.
package history

import (
	"sync"
	"time"

	"snappy/internal/vector"
)

// Entry is an offset a surface can be returned to.
type Entry struct {
	Surface string
	Offset  vector.Size
	TS      time.Time
}

// Config controls depth caps and coalescing.
type Config struct {
	// MaxEntries caps undo entries across all surfaces; the oldest go first.
	MaxEntries int
	// MaxPerSurface limits the undo depth of one surface (0 means unlimited).
	MaxPerSurface int
	// MinInterval coalesces changes recorded within the interval on the same
	// surface: the earlier entry is kept so one undo spans the burst.
	MinInterval time.Duration
}

// Manager is safe for concurrent use.
type Manager struct {
	cfg   Config
	mu    sync.Mutex
	undo  map[string][]Entry
	redo  map[string][]Entry
	total int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1024
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Entry), redo: make(map[string][]Entry)}
}

// Record notes that surface is about to move away from before. Any redo
// history for the surface is discarded.
func (m *Manager) Record(surface string, before vector.Size, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo[surface] = nil
	stack := m.undo[surface]
	if n := len(stack); n > 0 && m.cfg.MinInterval > 0 && at.Sub(stack[n-1].TS) < m.cfg.MinInterval {
		stack[n-1].TS = at
		return
	}
	m.undo[surface] = append(stack, Entry{Surface: surface, Offset: before, TS: at})
	m.total++
	m.enforceCapsLocked(surface)
}

// Undo returns the offset to restore for surface. current is pushed to the
// redo stack so Redo can return to it.
func (m *Manager) Undo(surface string, current vector.Size) (vector.Size, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[surface]
	if len(stack) == 0 {
		return vector.Size{}, false
	}
	e := stack[len(stack)-1]
	m.undo[surface] = stack[:len(stack)-1]
	m.total--
	m.redo[surface] = append(m.redo[surface], Entry{Surface: surface, Offset: current, TS: e.TS})
	return e.Offset, true
}

// Redo reverses the last Undo on surface.
func (m *Manager) Redo(surface string, current vector.Size) (vector.Size, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[surface]
	if len(r) == 0 {
		return vector.Size{}, false
	}
	e := r[len(r)-1]
	m.redo[surface] = r[:len(r)-1]
	m.undo[surface] = append(m.undo[surface], Entry{Surface: surface, Offset: current, TS: e.TS})
	m.total++
	m.enforceCapsLocked(surface)
	return e.Offset, true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo(surface string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo[surface]) > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo(surface string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo[surface]) > 0
}

// Clear drops both stacks of surface.
func (m *Manager) Clear(surface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total -= len(m.undo[surface])
	delete(m.undo, surface)
	delete(m.redo, surface)
	if m.total < 0 {
		m.total = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (surfaces int, entries int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), m.total
}

func (m *Manager) enforceCapsLocked(surface string) {
	if m.cfg.MaxPerSurface > 0 {
		stack := m.undo[surface]
		if drop := len(stack) - m.cfg.MaxPerSurface; drop > 0 {
			m.total -= drop
			m.undo[surface] = append([]Entry{}, stack[drop:]...)
		}
	}
	// global cap: prune the oldest entry across surfaces
	for m.total > m.cfg.MaxEntries {
		oldest := ""
		found := false
		var oldestTS time.Time
		for s, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if !found || stack[0].TS.Before(oldestTS) || (stack[0].TS.Equal(oldestTS) && s < oldest) {
				oldest, oldestTS, found = s, stack[0].TS, true
			}
		}
		if !found {
			break
		}
		m.undo[oldest] = m.undo[oldest][1:]
		m.total--
		if len(m.undo[oldest]) == 0 {
			delete(m.undo, oldest)
		}
	}
}
