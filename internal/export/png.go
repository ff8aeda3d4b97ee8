/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"snappy/internal/vector"
)

// captionHeight is the strip below the container reserved for the caption.
const captionHeight = 18

// MaxRasterSide is the largest PNG width or height. Scenes that would exceed
// it are drawn at a reduced scale.
const MaxRasterSide = 16384

// rasterScale returns the pixels per unit EncodePNG uses: the style's scale,
// reduced so the longer container side fits MaxRasterSide.
func rasterScale(s Scene, st Style) float64 {
	side := max(vector.NonNegative(s.Container.W), vector.NonNegative(s.Container.H))
	if side*st.Scale > MaxRasterSide {
		return MaxRasterSide / side
	}
	return st.Scale
}

// RasterSize returns the pixel dimensions EncodePNG produces for s. Neither
// side exceeds MaxRasterSide, plus the caption strip.
func RasterSize(s Scene) (w, h int) {
	st := s.Style.withDefaults()
	scale := rasterScale(s, st)
	w = max(int(math.Round(vector.NonNegative(s.Container.W)*scale)), 1)
	h = max(int(math.Round(vector.NonNegative(s.Container.H)*scale)), 1)
	if s.Caption != "" {
		h += captionHeight
	}
	return w, h
}

// EncodePNG rasterizes the scene.
func EncodePNG(w io.Writer, s Scene) error {
	st := s.Style.withDefaults()
	scale := rasterScale(s, st)
	pw, ph := RasterSize(s)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: toRGBA(st.Background)}, image.Point{}, draw.Src)

	// pixel coordinates outside the image are clipped just past its edge
	limit := float64(max(pw, ph) + 1)
	px := func(v float64) int { return int(math.Round(vector.Clamp(vector.Finite(v)*scale, -1, limit))) }
	cw, ch := px(s.Container.W), px(s.Container.H)
	if cw > 0 && ch > 0 {
		strokeRect(img, 0, 0, cw-1, ch-1, toRGBA(st.Frame))
	}

	r := s.Content
	x0, y0 := px(r.X), px(r.Y)
	x1, y1 := px(r.X+r.W)-1, px(r.Y+r.H)-1
	if x1 >= x0 && y1 >= y0 {
		fillRect(img, x0, y0, x1, y1, toRGBA(st.ContentFill))
		strokeRect(img, x0, y0, x1, y1, toRGBA(st.ContentLine))
	}

	half := px(st.MarkerSize / 2)
	mc := toRGBA(st.Marker)
	for _, m := range s.Markers {
		cx, cy := px(m.X), px(m.Y)
		fillRect(img, cx-half, cy-half, cx+half, cy+half, mc)
	}

	if s.Caption != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(toRGBA(st.Frame)),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, ph-5),
		}
		d.DrawString(s.Caption)
	}
	return png.Encode(w, img)
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
// Pixels outside the image are skipped by SetRGBA.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	b := img.Bounds()
	x0, y0 = max(x0, b.Min.X), max(y0, b.Min.Y)
	x1, y1 = min(x1, b.Max.X-1), min(y1, b.Max.Y-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
