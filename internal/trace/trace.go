/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package trace defines a JSON format for recorded drag sessions: layout
// measurements and pointer events in order. Traces are validated against an
// embedded JSON schema and can be replayed through a drag controller.
package trace

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalid wraps schema violations.
var ErrInvalid = errors.New("invalid trace")

// Event types.
const (
	TypeContainer = "container"
	TypeContent   = "content"
	TypeMove      = "move"
	TypeRelease   = "release"
	TypeCancel    = "cancel"
	TypeReset     = "reset"
	TypeAnchors   = "anchors"
	TypePointer   = "pointer"
	TypeUndo      = "undo"
	TypeRedo      = "redo"
)

// Vec is an x/y pair.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Event is one recorded input. Which fields matter depends on Type:
// container and content use W/H (container also X/Y for its global origin),
// move and release use DX/DY, release may give the predicted location in X/Y,
// pointer uses Phase, X, Y and T (milliseconds), anchors uses Expr.
type Event struct {
	Type  string   `json:"type"`
	T     float64  `json:"t"`
	W     float64  `json:"w"`
	H     float64  `json:"h"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	DX    float64  `json:"dx"`
	DY    float64  `json:"dy"`
	Expr  string   `json:"expr,omitempty"`
	Phase string   `json:"phase,omitempty"`
}

// Trace is a recorded session.
type Trace struct {
	Version int     `json:"version"`
	Name    string  `json:"name,omitempty"`
	Space   string  `json:"space,omitempty"`
	Anchors string  `json:"anchors,omitempty"`
	Initial *Vec    `json:"initial,omitempty"`
	Events  []Event `json:"events"`
}

// Validate checks data against the trace schema.
func Validate(data []byte) error {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// Parse validates and decodes a trace.
func Parse(data []byte) (*Trace, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var tr Trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &tr, nil
}

// Load reads and parses a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Marshal encodes tr as indented JSON.
func (tr *Trace) Marshal() ([]byte, error) {
	return json.MarshalIndent(tr, "", "  ")
}

// F returns a pointer to v, for optional Event fields.
func F(v float64) *float64 { return &v }
