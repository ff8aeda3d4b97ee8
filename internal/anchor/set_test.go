/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package anchor

import (
	"testing"

	"snappy/internal/vector"
)

func TestCatalogSizes(t *testing.T) {
	if n := Corners().Len(); n != 4 {
		t.Fatalf("corners has %d points", n)
	}
	if n := HorizontalCenters().Len(); n != 2 {
		t.Fatalf("horizontalCenters has %d points", n)
	}
	if n := VerticalCenters().Len(); n != 2 {
		t.Fatalf("verticalCenters has %d points", n)
	}
	if n := CenterOnly().Len(); n != 1 {
		t.Fatalf("center has %d points", n)
	}
	all := All()
	if all.Len() != 9 {
		t.Fatalf("all has %d points, want 9", all.Len())
	}
	for _, x := range []float64{0, 0.5, 1} {
		for _, y := range []float64{0, 0.5, 1} {
			if !all.Contains(Point{x, y}) {
				t.Fatalf("all is missing (%v,%v)", x, y)
			}
		}
	}
}

func TestNamedSubsetsMatchFractions(t *testing.T) {
	if !Equal(HorizontalCenters(), Of(Point{0.5, 0}, Point{0.5, 1})) {
		t.Fatalf("horizontalCenters = %v", HorizontalCenters())
	}
	if !Equal(VerticalCenters(), Of(Point{0, 0.5}, Point{1, 0.5})) {
		t.Fatalf("verticalCenters = %v", VerticalCenters())
	}
	if !Equal(Corners(), Of(Point{0, 0}, Point{0, 1}, Point{1, 0}, Point{1, 1})) {
		t.Fatalf("corners = %v", Corners())
	}
}

func TestAllMinusCorners(t *testing.T) {
	s := Subtract(All(), Corners())
	if s.Len() != 5 {
		t.Fatalf("all - corners has %d points, want 5", s.Len())
	}
	for p := range Corners() {
		if s.Contains(p) {
			t.Fatalf("all - corners still contains %v", p)
		}
	}
}

func TestSetAlgebraWithElements(t *testing.T) {
	a := Of(TopLeading, Top)
	b := Of(Top, TopTrailing)
	if got := Union(a, b); !Equal(got, Of(TopLeading, Top, TopTrailing)) {
		t.Fatalf("union = %v", got)
	}
	if got := Subtract(a, b); !Equal(got, Of(TopLeading)) {
		t.Fatalf("difference = %v", got)
	}
	if got := With(a, TopTrailing); !Equal(got, Of(TopLeading, Top, TopTrailing)) {
		t.Fatalf("with element = %v", got)
	}
	if got := Without(a, TopLeading); !Equal(got, Of(Top)) {
		t.Fatalf("without element = %v", got)
	}
	if !None().Empty() || Union(None(), None()).Len() != 0 {
		t.Fatalf("None must be the empty identity")
	}
	// operands untouched
	if a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("operands were modified: a=%v b=%v", a, b)
	}
}

func TestUnionThenSubtractIsSubset(t *testing.T) {
	a := Of(TopLeading, Center, Bottom)
	overlapping := Of(Center, Trailing)
	got := Subtract(Union(a, overlapping), overlapping)
	if !SubsetOf(got, a) {
		t.Fatalf("(A+B)-B = %v is not a subset of %v", got, a)
	}
	if Equal(got, a) {
		t.Fatalf("overlapping B must remove shared members")
	}
	disjoint := Of(Trailing, TopTrailing)
	if got := Subtract(Union(a, disjoint), disjoint); !Equal(got, a) {
		t.Fatalf("disjoint (A+B)-B = %v, want %v", got, a)
	}
}

func TestPointsOrderIsStable(t *testing.T) {
	pts := All().Points()
	want := []Point{TopLeading, Top, TopTrailing, Leading, Center, Trailing, BottomLeading, Bottom, BottomTrailing}
	if len(pts) != len(want) {
		t.Fatalf("got %d points", len(pts))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("Points()[%d] = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestPointInRect(t *testing.T) {
	r := vector.R(-150, -100, 300, 200)
	if got := TopLeading.In(r); got != vector.P(-150, -100) {
		t.Fatalf("topLeading in rect = %+v", got)
	}
	if got := Center.In(r); got != vector.P(0, 0) {
		t.Fatalf("center in rect = %+v", got)
	}
	if got := BottomTrailing.In(r); got != vector.P(150, 100) {
		t.Fatalf("bottomTrailing in rect = %+v", got)
	}
}

func TestPointString(t *testing.T) {
	if s := BottomLeading.String(); s != "bottomLeading" {
		t.Fatalf("String = %q", s)
	}
	if s := (Point{0.25, 0.75}).String(); s != "(0.25,0.75)" {
		t.Fatalf("custom String = %q", s)
	}
}
