/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package snap derives movement constraints from measured geometry and picks
// snap targets. It is UI-agnostic and deterministic so every frontend shares
// the same behavior and it can be unit tested without a display.
package snap

import "snappy/internal/vector"

// Bounds is the legal range for the center of the content.
// MinX <= MaxX and MinY <= MaxY always hold.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// ComputeBounds shrinks container by the content size and shifts the result by
// half the content size, turning "content top-left" space into "content center"
// space. Content larger than the container on an axis collapses that axis to a
// single position at the container origin plus half the content size.
// Negative, NaN or infinite sizes are treated as zero.
func ComputeBounds(container vector.Rect, content vector.Size) Bounds {
	csz := container.Size().Sanitize()
	content = content.Sanitize()
	ox := vector.Finite(container.X)
	oy := vector.Finite(container.Y)

	// movement rect in top-left space
	w := max(csz.W-content.W, 0)
	h := max(csz.H-content.H, 0)

	half := content.Half()
	return Bounds{
		MinX: ox + half.W,
		MaxX: ox + w + half.W,
		MinY: oy + half.H,
		MaxY: oy + h + half.H,
	}
}

// Clamp limits an offset to the bounds on both axes.
func (b Bounds) Clamp(o vector.Size) vector.Size {
	return vector.Size{
		W: vector.Clamp(vector.Finite(o.W), b.MinX, b.MaxX),
		H: vector.Clamp(vector.Finite(o.H), b.MinY, b.MaxY),
	}
}

// Span is the width and height of the legal range.
func (b Bounds) Span() vector.Size { return vector.Size{W: b.MaxX - b.MinX, H: b.MaxY - b.MinY} }
