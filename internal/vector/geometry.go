/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 2D geometry for the positioning engine.
// Float values use float64 so offsets composed across many drag sessions do not drift.

import "math"

// Pt is a 2D point (a location in some coordinate space).
type Pt struct{ X, Y float64 }

// Size is a width/height pair. Translations and offsets are carried as Size,
// W being the horizontal and H the vertical component.
type Size struct{ W, H float64 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func P(x, y float64) Pt         { return Pt{X: x, Y: y} }
func S(w, h float64) Size       { return Size{W: w, H: h} }
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

var (
	ZeroPt   Pt
	ZeroSize Size
)

func (r Rect) Min() Pt    { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt    { return Pt{r.X + r.W, r.Y + r.H} }
func (r Rect) Size() Size { return Size{r.W, r.H} }
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Offset returns r moved by d.
func (r Rect) Offset(d Size) Rect { return Rect{X: r.X + d.W, Y: r.Y + d.H, W: r.W, H: r.H} }

// CenteredAt returns a rectangle of size s whose center is c.
func CenteredAt(c Pt, s Size) Rect { return Rect{X: c.X - s.W/2, Y: c.Y - s.H/2, W: s.W, H: s.H} }

// AddPoints returns the component-wise sum a+b.
func AddPoints(a, b Pt) Pt { return Pt{a.X + b.X, a.Y + b.Y} }

// SubPoints returns the component-wise difference a-b.
func SubPoints(a, b Pt) Pt { return Pt{a.X - b.X, a.Y - b.Y} }

// AddSizes returns the component-wise sum a+b.
func AddSizes(a, b Size) Size { return Size{a.W + b.W, a.H + b.H} }

// SubSizes returns the component-wise difference a-b.
func SubSizes(a, b Size) Size { return Size{a.W - b.W, a.H - b.H} }

// Scale multiplies both components by f.
func (s Size) Scale(f float64) Size { return Size{s.W * f, s.H * f} }

// Half is s scaled by 0.5.
func (s Size) Half() Size { return Size{s.W / 2, s.H / 2} }

func (s Size) IsZero() bool { return s.W == 0 && s.H == 0 }

// Pt reinterprets a translation as the point it reaches from the origin.
func (s Size) Pt() Pt { return Pt{s.W, s.H} }

// Size reinterprets a point as the translation from the origin to it.
func (p Pt) Size() Size { return Size{p.X, p.Y} }

// Distance is the Euclidean distance between a and b.
func Distance(a, b Pt) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp limits v to [lo, hi]. lo wins when the interval is inverted.
func Clamp(v, lo, hi float64) float64 {
	return max(min(v, hi), lo)
}

// Finite maps NaN and ±Inf to 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NonNegative maps NaN, ±Inf and negative values to 0. Sizes reported by a
// layout pass go through this before any arithmetic.
func NonNegative(v float64) float64 {
	v = Finite(v)
	if v < 0 {
		return 0
	}
	return v
}

// Sanitize returns s with both components passed through NonNegative.
func (s Size) Sanitize() Size { return Size{NonNegative(s.W), NonNegative(s.H)} }
