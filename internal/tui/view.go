/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"snappy/internal/drag"
)

const markerRune = '+'

var (
	accent = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"}
	muted  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	good   = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"}

	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted)
	contentStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	markerStyle  = lipgloss.NewStyle().Foreground(muted)
	statusStyle  = lipgloss.NewStyle().Foreground(muted)
	settledStyle = lipgloss.NewStyle().Foreground(good).Bold(true)
)

func (m *Model) View() string {
	if m.width <= 2 || m.height <= 3 {
		return "terminal too small"
	}
	cw, ch := m.width-2, m.height-3
	grid := make([][]rune, ch)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cw))
	}

	f := m.ctrl.Frames()
	for _, mk := range m.view.Markers() {
		p := f.Convert(mk.At, m.ctrl.Space(), drag.SpaceContainer)
		x := clampInt(int(math.Round(p.X)), 0, cw-1)
		y := clampInt(int(math.Round(p.Y)), 0, ch-1)
		grid[y][x] = mk.Payload
	}

	content := m.view.Content().Payload
	lines := strings.Split(content, "\n")
	r := m.contentRect()
	lw := lipgloss.Width(content)
	cx := clampInt(int(math.Round(r.X)), 0, max(cw-lw, 0))
	cy := clampInt(int(math.Round(r.Y)), 0, max(ch-len(lines), 0))

	rows := make([]string, ch)
	for y := range grid {
		i := y - cy
		if i < 0 || i >= len(lines) || cx+lw > cw {
			rows[y] = renderRow(grid[y])
			continue
		}
		rows[y] = renderRow(grid[y][:cx]) + lines[i] + renderRow(grid[y][cx+lw:])
	}

	body := frameStyle.Render(strings.Join(rows, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.status())
}

func renderRow(cells []rune) string {
	var b strings.Builder
	for _, c := range cells {
		if c == markerRune {
			b.WriteString(markerStyle.Render(string(c)))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (m *Model) status() string {
	o := m.ctrl.Offset()
	s := statusStyle.Render(fmt.Sprintf("offset (%.0f, %.0f)  anchors %s  ", o.W, o.H, m.presetName)) +
		m.help.ShortHelpView(m.keys.ShortHelp())
	if m.settled {
		s = settledStyle.Render("settled ") + s
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
