/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package anchor holds the vocabulary of snap targets: normalized points
// relative to a container and sets of them.
//
// A Point is a fraction of the container size, (0,0) being the top-leading
// corner and (1,1) the bottom-trailing one. Identity is value equality, so a
// Point can be used directly as a map key.
package anchor

import (
	"fmt"
	"strconv"

	"snappy/internal/vector"
)

// Point is a normalized location inside a container.
type Point struct{ X, Y float64 }

// The nine canonical anchors.
var (
	TopLeading     = Point{0, 0}
	Top            = Point{0.5, 0}
	TopTrailing    = Point{1, 0}
	Leading        = Point{0, 0.5}
	Center         = Point{0.5, 0.5}
	Trailing       = Point{1, 0.5}
	BottomLeading  = Point{0, 1}
	Bottom         = Point{0.5, 1}
	BottomTrailing = Point{1, 1}
)

var pointNames = map[Point]string{
	TopLeading:     "topLeading",
	Top:            "top",
	TopTrailing:    "topTrailing",
	Leading:        "leading",
	Center:         "center",
	Trailing:       "trailing",
	BottomLeading:  "bottomLeading",
	Bottom:         "bottom",
	BottomTrailing: "bottomTrailing",
}

// String returns the canonical name for catalog points and "(x,y)" otherwise.
func (p Point) String() string {
	if n, ok := pointNames[p]; ok {
		return n
	}
	return "(" + strconv.FormatFloat(p.X, 'g', -1, 64) + "," + strconv.FormatFloat(p.Y, 'g', -1, 64) + ")"
}

// In scales p into r: the result is r's origin plus p times r's size.
func (p Point) In(r vector.Rect) vector.Pt {
	return vector.Pt{X: r.X + p.X*r.W, Y: r.Y + p.Y*r.H}
}

// GoString keeps %#v output readable in test failures.
func (p Point) GoString() string { return fmt.Sprintf("anchor.Point{%g, %g}", p.X, p.Y) }

// less orders points row by row (top to bottom, leading to trailing).
// Every iteration over a Set follows this order.
func less(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// Corners is {topLeading, topTrailing, bottomLeading, bottomTrailing}.
func Corners() Set { return Of(TopLeading, BottomLeading, TopTrailing, BottomTrailing) }

// HorizontalCenters is the top-center and bottom-center pair.
func HorizontalCenters() Set { return Of(Top, Bottom) }

// VerticalCenters is the leading-center and trailing-center pair.
func VerticalCenters() Set { return Of(Leading, Trailing) }

// CenterOnly is the single center anchor.
func CenterOnly() Set { return Of(Center) }

// All is the union of the four named subsets: every canonical anchor.
func All() Set {
	return Union(Union(Corners(), HorizontalCenters()), Union(VerticalCenters(), CenterOnly()))
}

// None is the empty set; it disables snapping.
func None() Set { return Set{} }
