/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a snapshot of a drag surface (container, snap
// markers and content at its rendered offset) to PNG, SVG or PDF.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"snappy/internal/drag"
	"snappy/internal/vector"
)

type Color struct{ R, G, B, A uint8 }

// Style controls colors and sizes; zero fields fall back to DefaultStyle.
type Style struct {
	Background  Color
	Frame       Color
	ContentLine Color
	ContentFill Color
	Marker      Color
	MarkerSize  float64
	// Scale is output pixels per unit for PNG and SVG width/height.
	Scale float64
}

func DefaultStyle() Style {
	return Style{
		Background:  Color{255, 255, 255, 255},
		Frame:       Color{40, 40, 40, 255},
		ContentLine: Color{20, 90, 200, 255},
		ContentFill: Color{200, 220, 250, 255},
		Marker:      Color{220, 60, 60, 255},
		MarkerSize:  6,
		Scale:       1,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Background == (Color{}) {
		s.Background = d.Background
	}
	if s.Frame == (Color{}) {
		s.Frame = d.Frame
	}
	if s.ContentLine == (Color{}) {
		s.ContentLine = d.ContentLine
	}
	if s.ContentFill == (Color{}) {
		s.ContentFill = d.ContentFill
	}
	if s.Marker == (Color{}) {
		s.Marker = d.Marker
	}
	if s.MarkerSize <= 0 {
		s.MarkerSize = d.MarkerSize
	}
	if s.Scale <= 0 {
		s.Scale = d.Scale
	}
	return s
}

// Scene is everything a snapshot draws, in container coordinates (origin at
// the container's top-left corner).
type Scene struct {
	Container vector.Size
	Content   vector.Rect
	Markers   []vector.Pt
	Caption   string
	Style     Style
}

// FromController captures the controller's current rendered state.
// showMarkers mirrors the renderer's marker setting.
func FromController(c *drag.Controller, showMarkers bool, caption string) Scene {
	f := c.Frames()
	r := c.RenderedFrame()
	center := f.Convert(r.Center(), c.Space(), drag.SpaceContainer)
	s := Scene{
		Container: f.Size.Sanitize(),
		Content:   vector.CenteredAt(center, r.Size()),
		Caption:   caption,
	}
	if showMarkers {
		for _, t := range c.Markers() {
			s.Markers = append(s.Markers, f.Convert(t.At, c.Space(), drag.SpaceContainer))
		}
	}
	return s
}

// Format is an output encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	case "pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (want .png, .svg or .pdf)", ext)
	}
}

// Encode writes s in format f.
func Encode(w io.Writer, f Format, s Scene) error {
	switch f {
	case PNG:
		return EncodePNG(w, s)
	case SVG:
		return EncodeSVG(w, s)
	case PDF:
		return EncodePDF(w, s)
	}
	return fmt.Errorf("unsupported snapshot format %q", f)
}

// WriteFile encodes s into path, choosing the format from the extension.
func WriteFile(path string, s Scene) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure out dir: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f, err)
	}
	if err := Encode(out, f, s); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode %s: %w", f, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", f, err)
	}
	return nil
}
