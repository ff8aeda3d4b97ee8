/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package snap

import (
	"math"

	"snappy/internal/anchor"
	"snappy/internal/vector"
)

// Target is an anchor scaled into absolute coordinates.
type Target struct {
	Anchor anchor.Point
	At     vector.Pt
}

// Targets scales every anchor of set into frame, in the set's stable order.
// An empty set yields no targets.
func Targets(set anchor.Set, frame vector.Rect) []Target {
	pts := set.Points()
	out := make([]Target, len(pts))
	for i, p := range pts {
		out[i] = Target{Anchor: p, At: p.In(frame)}
	}
	return out
}

// Nearest returns the target closest to candidate by straight-line distance.
// ok is false when targets is empty. On exact ties the earliest target wins,
// so identical inputs always produce the same answer.
func Nearest(candidate vector.Pt, targets []Target) (best Target, ok bool) {
	candidate = vector.Pt{X: vector.Finite(candidate.X), Y: vector.Finite(candidate.Y)}
	bestDist := math.Inf(1)
	for _, t := range targets {
		d := vector.Distance(t.At, candidate)
		if d < bestDist {
			best, bestDist, ok = t, d, true
		}
	}
	return best, ok
}
