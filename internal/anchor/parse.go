/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package anchor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnknownName is wrapped by Parse when an identifier is neither a set nor a point name.
var ErrUnknownName = errors.New("unknown anchor name")

// named resolves lower-cased identifiers to sets.
var named = map[string]func() Set{
	"all":               All,
	"corners":           Corners,
	"horizontalcenters": HorizontalCenters,
	"verticalcenters":   VerticalCenters,
	"center":            CenterOnly,
	"none":              None,
}

func init() {
	for p, n := range pointNames {
		p := p
		key := strings.ToLower(n)
		if _, taken := named[key]; !taken {
			named[key] = func() Set { return Of(p) }
		}
	}
}

// Parse evaluates an anchor expression such as "all - top - bottomLeading".
//
// Terms are set names (all, corners, horizontalCenters, verticalCenters,
// center, none), point names (topLeading, top, ..., bottomTrailing) or
// literals "(x,y)". Terms are combined left to right with + (union) and
// - (difference). Names are case-insensitive.
func Parse(expr string) (Set, error) {
	p := &parser{src: expr}
	p.skipSpace()
	if p.eof() {
		return nil, errors.New("empty anchor expression")
	}
	acc, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.eof() {
			return acc, nil
		}
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			return nil, fmt.Errorf("anchor expression: expected + or - at offset %d", p.pos)
		}
		p.pos++
		p.skipSpace()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		if op == '+' {
			acc = Union(acc, rhs)
		} else {
			acc = Subtract(acc, rhs)
		}
	}
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) term() (Set, error) {
	if p.eof() {
		return nil, errors.New("anchor expression: missing term")
	}
	if p.src[p.pos] == '(' {
		pt, err := p.literal()
		if err != nil {
			return nil, err
		}
		return Of(pt), nil
	}
	start := p.pos
	for !p.eof() && isIdent(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, fmt.Errorf("anchor expression: unexpected %q at offset %d", p.src[p.pos], p.pos)
	}
	word := p.src[start:p.pos]
	mk, ok := named[strings.ToLower(word)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownName, word)
	}
	return mk(), nil
}

func (p *parser) literal() (Point, error) {
	end := strings.IndexByte(p.src[p.pos:], ')')
	if end < 0 {
		return Point{}, fmt.Errorf("anchor expression: unterminated literal at offset %d", p.pos)
	}
	body := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	parts := strings.Split(body, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("anchor expression: literal %q needs two components", body)
	}
	x, err := parseUnit(parts[0])
	if err != nil {
		return Point{}, err
	}
	y, err := parseUnit(parts[1])
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func parseUnit(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("anchor expression: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("anchor expression: %q is not finite", s)
	}
	return v, nil
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
