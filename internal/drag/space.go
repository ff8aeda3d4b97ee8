/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import (
	"fmt"
	"strings"

	"snappy/internal/vector"
)

// Space selects the coordinate space offsets, bounds and snap targets live in.
type Space int

const (
	// SpaceLocal has its origin at the content's natural position, the
	// center of the container.
	SpaceLocal Space = iota
	// SpaceContainer has its origin at the container's top-left corner.
	SpaceContainer
	// SpaceGlobal is window space: the container sits at Frames.Global.
	SpaceGlobal
)

func (s Space) String() string {
	switch s {
	case SpaceLocal:
		return "local"
	case SpaceContainer:
		return "container"
	case SpaceGlobal:
		return "global"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

// ParseSpace accepts the names produced by String.
func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "":
		return SpaceLocal, nil
	case "container":
		return SpaceContainer, nil
	case "global":
		return SpaceGlobal, nil
	}
	return SpaceLocal, fmt.Errorf("unknown coordinate space %q", s)
}

// Frames is the container geometry reported by the layout pass.
type Frames struct {
	Size   vector.Size // container size
	Global vector.Pt   // container top-left in window coordinates
}

// In returns the container rectangle expressed in space s.
func (f Frames) In(s Space) vector.Rect {
	size := f.Size.Sanitize()
	switch s {
	case SpaceContainer:
		return vector.Rect{W: size.W, H: size.H}
	case SpaceGlobal:
		return vector.Rect{X: vector.Finite(f.Global.X), Y: vector.Finite(f.Global.Y), W: size.W, H: size.H}
	default:
		return vector.Rect{X: -size.W / 2, Y: -size.H / 2, W: size.W, H: size.H}
	}
}

// Convert maps p from one space to another.
func (f Frames) Convert(p vector.Pt, from, to Space) vector.Pt {
	if from == to {
		return p
	}
	// via container space
	c := vector.SubPoints(p, f.In(from).Min())
	return vector.AddPoints(c, f.In(to).Min())
}
