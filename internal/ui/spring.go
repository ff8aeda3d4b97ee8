/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"math"
	"time"

	"snappy/internal/vector"
)

// Spring is a unit-mass damped spring used to animate the content from where
// it was released to its committed offset.
type Spring struct {
	Stiffness float64
	Damping   float64
}

// DefaultSpring matches the render defaults in config.
func DefaultSpring() Spring { return Spring{Stiffness: 300, Damping: 20} }

const (
	springStep     = time.Second / 120
	springMaxSteps = 600
	springEpsilon  = 0.05
)

// Trajectory samples the motion from one offset to another at 120 Hz. The
// last sample is always exactly to. A non-positive stiffness jumps straight
// to the target.
func (s Spring) Trajectory(from, to vector.Size) []vector.Size {
	if s.Stiffness <= 0 || from == to {
		return []vector.Size{to}
	}
	dt := springStep.Seconds()
	x, v := from, vector.Size{}
	out := make([]vector.Size, 0, 64)
	for i := 0; i < springMaxSteps; i++ {
		d := vector.SubSizes(x, to)
		a := vector.Size{
			W: -s.Stiffness*d.W - s.Damping*v.W,
			H: -s.Stiffness*d.H - s.Damping*v.H,
		}
		v = vector.AddSizes(v, a.Scale(dt))
		x = vector.AddSizes(x, v.Scale(dt))
		if rest(vector.SubSizes(x, to), v) {
			break
		}
		out = append(out, x)
	}
	return append(out, to)
}

// Duration is how long the trajectory takes to play back.
func (s Spring) Duration(from, to vector.Size) time.Duration {
	return time.Duration(len(s.Trajectory(from, to))) * springStep
}

func rest(d, v vector.Size) bool {
	return math.Abs(d.W) < springEpsilon && math.Abs(d.H) < springEpsilon &&
		math.Abs(v.W) < springEpsilon && math.Abs(v.H) < springEpsilon
}

// At returns the sample for animation progress f in [0,1].
func At(traj []vector.Size, f float32) vector.Size {
	if len(traj) == 0 {
		return vector.Size{}
	}
	i := int(math.Round(float64(f) * float64(len(traj)-1)))
	return traj[max(0, min(i, len(traj)-1))]
}
