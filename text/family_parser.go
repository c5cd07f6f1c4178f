// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"gioui.org/paragraph/font"
)

// ParseFamilies parses a comma separated list of font families in the
// CSS font-family syntax. Names may be quoted with single or double
// quotes, inside which backslash escapes the next character.
func ParseFamilies(list string) ([]font.Typeface, error) {
	var p parser
	names, err := p.parse(list)
	if err != nil {
		return nil, err
	}
	families := make([]font.Typeface, len(names))
	for i, n := range names {
		families[i] = font.Typeface(n)
	}
	return families, nil
}

// parser splits font family lists.
type parser struct {
	src []rune
	pos int
}

func (p *parser) parse(list string) ([]string, error) {
	p.src = []rune(list)
	p.pos = 0
	var names []string
	for {
		p.skipSpace()
		if p.pos == len(p.src) {
			return nil, errors.New("empty font family name")
		}
		var (
			name string
			err  error
		)
		if q := p.src[p.pos]; q == '"' || q == '\'' {
			name, err = p.quoted(q)
		} else {
			name = p.bare()
		}
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, fmt.Errorf("empty font family name at offset %d", p.pos)
		}
		names = append(names, name)
		if p.pos == len(p.src) {
			return names, nil
		}
		// Skip comma.
		p.pos++
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// bare reads an unquoted name up to the next comma.
func (p *parser) bare() string {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ',' {
		p.pos++
	}
	return strings.TrimSpace(string(p.src[start:p.pos]))
}

// quoted reads a name quoted by q, which must be followed by a comma or
// the end of the list.
func (p *parser) quoted(q rune) (string, error) {
	start := p.pos
	p.pos++
	var b strings.Builder
	closed := false
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		p.pos++
		if r == '\\' && p.pos < len(p.src) {
			b.WriteRune(p.src[p.pos])
			p.pos++
			continue
		}
		if r == q {
			closed = true
			break
		}
		b.WriteRune(r)
	}
	if !closed {
		return "", fmt.Errorf("unterminated quote at offset %d", start)
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] != ',' {
		return "", fmt.Errorf("unexpected %q after quoted name at offset %d", p.src[p.pos], p.pos)
	}
	return b.String(), nil
}
