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
	"testing"

	"snappy/internal/vector"
)

func TestComputeBounds_CenteredContainer(t *testing.T) {
	// 300x200 container whose origin sits at minus half its size
	b := ComputeBounds(vector.R(-150, -100, 300, 200), vector.S(100, 50))
	want := Bounds{MinX: -100, MaxX: 100, MinY: -75, MaxY: 75}
	if b != want {
		t.Fatalf("bounds = %+v, want %+v", b, want)
	}
}

func TestComputeBounds_TopLeftOrigin(t *testing.T) {
	b := ComputeBounds(vector.R(0, 0, 300, 200), vector.S(100, 50))
	want := Bounds{MinX: 50, MaxX: 250, MinY: 25, MaxY: 175}
	if b != want {
		t.Fatalf("bounds = %+v, want %+v", b, want)
	}
}

func TestComputeBounds_ContentLargerThanContainerCollapses(t *testing.T) {
	b := ComputeBounds(vector.R(10, 20, 100, 40), vector.S(160, 60))
	if b.MinX != b.MaxX || b.MinY != b.MaxY {
		t.Fatalf("expected collapsed bounds, got %+v", b)
	}
	if b.MinX != 10+80 || b.MinY != 20+30 {
		t.Fatalf("collapsed point = (%v,%v), want (90,50)", b.MinX, b.MinY)
	}
}

func TestComputeBounds_DegenerateInputs(t *testing.T) {
	cases := []struct {
		name      string
		container vector.Rect
		content   vector.Size
	}{
		{"zero everything", vector.Rect{}, vector.Size{}},
		{"zero content", vector.R(0, 0, 300, 200), vector.Size{}},
		{"negative content", vector.R(0, 0, 300, 200), vector.S(-20, -5)},
		{"nan content", vector.R(0, 0, 300, 200), vector.S(math.NaN(), math.NaN())},
		{"inf container", vector.R(math.Inf(-1), 0, math.Inf(1), 200), vector.S(10, 10)},
		{"negative container", vector.R(0, 0, -300, -200), vector.S(10, 10)},
	}
	for _, c := range cases {
		b := ComputeBounds(c.container, c.content)
		for _, v := range []float64{b.MinX, b.MaxX, b.MinY, b.MaxY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: non-finite bounds %+v", c.name, b)
			}
		}
		if b.MinX > b.MaxX || b.MinY > b.MaxY {
			t.Fatalf("%s: inverted bounds %+v", c.name, b)
		}
	}
}

func TestComputeBounds_Idempotent(t *testing.T) {
	c := vector.R(3, 7, 640, 480)
	s := vector.S(120, 33)
	if ComputeBounds(c, s) != ComputeBounds(c, s) {
		t.Fatalf("recomputing with identical inputs changed the result")
	}
}

func TestComputeBounds_SpanShrinksAsContentGrows(t *testing.T) {
	c := vector.R(-150, -100, 300, 200)
	prev := ComputeBounds(c, vector.S(0, 0)).Span()
	for w := 10.0; w <= 300; w += 10 {
		span := ComputeBounds(c, vector.S(w, w*2/3)).Span()
		if span.W > prev.W || span.H > prev.H {
			t.Fatalf("span grew from %+v to %+v at width %v", prev, span, w)
		}
		prev = span
	}
	if full := ComputeBounds(c, vector.S(300, 200)).Span(); !full.IsZero() {
		t.Fatalf("content equal to container must give zero span, got %+v", full)
	}
}

func TestClamp_IdempotentAndInside(t *testing.T) {
	b := Bounds{MinX: -100, MaxX: 100, MinY: -75, MaxY: 75}
	offsets := []vector.Size{
		vector.S(500, 500), vector.S(-500, 10), vector.S(0, 0), vector.S(99.5, -75.1),
		vector.S(math.NaN(), math.Inf(1)),
	}
	for _, o := range offsets {
		once := b.Clamp(o)
		if twice := b.Clamp(once); twice != once {
			t.Fatalf("clamp not idempotent for %+v: %+v vs %+v", o, once, twice)
		}
		if once.W < b.MinX || once.W > b.MaxX || once.H < b.MinY || once.H > b.MaxY {
			t.Fatalf("clamped %+v to %+v outside bounds", o, once)
		}
	}
	if got := b.Clamp(vector.S(500, 500)); got != vector.S(100, 75) {
		t.Fatalf("clamp(500,500) = %+v", got)
	}
}
