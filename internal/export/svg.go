/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// EncodeSVG writes the scene as a standalone SVG document. The viewBox is in
// container units; width and height apply Style.Scale.
func EncodeSVG(w io.Writer, s Scene) error {
	st := s.Style.withDefaults()
	vw, vh := s.Container.W, s.Container.H
	if s.Caption != "" {
		vh += captionHeight / st.Scale
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n",
		int(math.Round(vw*st.Scale)), int(math.Round(vh*st.Scale)), vw, vh)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n", vw, vh, svgColor(st.Background))
	wf("  <rect class=\"container\" x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		s.Container.W, s.Container.H, svgColor(st.Frame))

	r := s.Content
	wf("  <rect class=\"content\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		r.X, r.Y, r.W, r.H, svgColor(st.ContentFill), svgColor(st.ContentLine))

	half := st.MarkerSize / 2
	for _, m := range s.Markers {
		wf("  <rect class=\"marker\" x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"%s\"/>\n",
			m.X-half, m.Y-half, st.MarkerSize, st.MarkerSize, svgColor(st.Marker))
	}
	if s.Caption != "" {
		wf("  <text x=\"4\" y=\"%g\" font-family=\"%s\" font-size=\"11\" fill=\"%s\">%s</text>\n",
			vh-5/st.Scale, escAttr("Helvetica, Arial, sans-serif"), svgColor(st.Frame), escText(s.Caption))
	}
	wf("</svg>\n")
	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			out = append(out, "&quot;"...)
		case '\n':
			out = append(out, ' ')
		case '\r':
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
