/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drag

import "snappy/internal/vector"

// Cell is the committed offset shared between the controller and the code
// embedding it. Both sides read and write it; the controller writes on release
// and when a new measurement narrows the bounds, the caller writes to reset or
// restore a position.
type Cell interface {
	Get() vector.Size
	Set(vector.Size)
}

// Value is an in-memory Cell. The zero value holds a zero offset.
type Value struct{ v vector.Size }

func NewValue(initial vector.Size) *Value { return &Value{v: initial} }

func (c *Value) Get() vector.Size  { return c.v }
func (c *Value) Set(v vector.Size) { c.v = v }

// Feedback receives the one-shot settle cue.
type Feedback interface {
	Settled()
}

// FeedbackFunc adapts a plain function to Feedback.
type FeedbackFunc func()

func (f FeedbackFunc) Settled() { f() }

// Feedbacks fans the cue out to every non-nil receiver.
func Feedbacks(fs ...Feedback) Feedback {
	var out multiFeedback
	for _, f := range fs {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

type multiFeedback []Feedback

func (m multiFeedback) Settled() {
	for _, f := range m {
		f.Settled()
	}
}

type noFeedback struct{}

func (noFeedback) Settled() {}
