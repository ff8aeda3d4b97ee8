/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package anchor

import (
	"sort"
	"strings"
)

// Set is an unordered collection of unique anchors. The zero value (nil) is a
// valid empty set for reading. Set operations never modify their operands.
type Set map[Point]struct{}

// Of builds a set from the given points; duplicates collapse.
func Of(pts ...Point) Set {
	s := make(Set, len(pts))
	for _, p := range pts {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Len() int { return len(s) }

func (s Set) Empty() bool { return len(s) == 0 }

func (s Set) Contains(p Point) bool {
	_, ok := s[p]
	return ok
}

// Points returns the members in stable row-major order.
func (s Set) Points() []Point {
	out := make([]Point, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// String renders the set as "{a, b, ...}" in stable order.
func (s Set) String() string {
	pts := s.Points()
	names := make([]string, len(pts))
	for i, p := range pts {
		names[i] = p.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Union returns a ∪ b.
func Union(a, b Set) Set {
	out := a.clone()
	for p := range b {
		out[p] = struct{}{}
	}
	return out
}

// Subtract returns a \ b.
func Subtract(a, b Set) Set {
	out := make(Set, len(a))
	for p := range a {
		if _, drop := b[p]; !drop {
			out[p] = struct{}{}
		}
	}
	return out
}

// With returns s ∪ {p}.
func With(s Set, p Point) Set { return Union(s, Of(p)) }

// Without returns s \ {p}.
func Without(s Set, p Point) Set { return Subtract(s, Of(p)) }

// Equal reports whether both sets hold the same members.
func Equal(a, b Set) bool {
	if len(a) != len(b) {
		return false
	}
	for p := range a {
		if _, ok := b[p]; !ok {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of a is in b.
func SubsetOf(a, b Set) bool {
	for p := range a {
		if _, ok := b[p]; !ok {
			return false
		}
	}
	return true
}
