/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"
)

// EncodePDF writes a single-page PDF whose page is the container, one
// point per container unit. Built-in Helvetica keeps the caption vector
// without embedding fonts.
func EncodePDF(w io.Writer, s Scene) error {
	st := s.Style.withDefaults()
	pw, ph := max(s.Container.W, 1), max(s.Container.H, 1)
	if s.Caption != "" {
		ph += captionHeight
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetTitle("snappy snapshot", false)
	pdf.SetCreator("snappy", false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pw, Ht: ph})

	setFillColor(pdf, st.Background)
	pdf.Rect(0, 0, pw, ph, "F")

	setDrawColor(pdf, st.Frame)
	pdf.SetLineWidth(1)
	pdf.Rect(0, 0, s.Container.W, s.Container.H, "D")

	r := s.Content
	setFillColor(pdf, st.ContentFill)
	setDrawColor(pdf, st.ContentLine)
	pdf.Rect(r.X, r.Y, r.W, r.H, "FD")

	setFillColor(pdf, st.Marker)
	half := st.MarkerSize / 2
	for _, m := range s.Markers {
		pdf.Rect(m.X-half, m.Y-half, st.MarkerSize, st.MarkerSize, "F")
	}

	if s.Caption != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(int(st.Frame.R), int(st.Frame.G), int(st.Frame.B))
		pdf.Text(4, ph-5, s.Caption)
	}
	return pdf.Output(w)
}

func setDrawColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
