// SPDX-License-Identifier: Unlicense OR MIT

/*
Package markup parses a small language describing styled paragraphs and
replays it onto a text.Builder.

A document is a single paragraph block:

	paragraph align=justify maxlines=2 ellipsis="…" {
		style size=30 family="Go, Noto" color=#202020 {
			"World domination "
			style weight=bold decoration=underline { "is" }
		}
		placeholder width=32 height=32 align=middle
	}

Attributes of the paragraph block configure the paragraph and its default
text style. Style blocks push a text style for their contents. Unknown
attributes and malformed values are errors.

Lengths are pixels unless suffixed with one of the units of package unit,
as in size=12pt or width=24dp.
*/
package markup

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"gioui.org/paragraph/f32"
	"gioui.org/paragraph/font"
	"gioui.org/paragraph/text"
	"gioui.org/paragraph/unit"
)

var (
	markupLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Comment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6})`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d*|\.\d+|\d+)(?:px|dp|sp|pt)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[={}]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(markupLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(2),
	)
)

// Document is the root of a parsed markup source.
type Document struct {
	Pos       lexer.Position
	Paragraph *Paragraph `parser:"@@"`
}

// Paragraph is the top level block.
type Paragraph struct {
	Pos   lexer.Position
	Attrs []*Attribute `parser:"'paragraph' @@*"`
	Body  []*Node      `parser:"'{' @@* '}'"`
}

// Node is an element of a block body.
type Node struct {
	Text        *String      `parser:"  @String"`
	Style       *Style       `parser:"| @@"`
	Placeholder *Placeholder `parser:"| @@"`
}

// Style is a block of content with a pushed text style.
type Style struct {
	Pos   lexer.Position
	Attrs []*Attribute `parser:"'style' @@*"`
	Body  []*Node      `parser:"'{' @@* '}'"`
}

// Placeholder is an inline object.
type Placeholder struct {
	Pos   lexer.Position
	Attrs []*Attribute `parser:"'placeholder' @@*"`
}

// Attribute is a key=value pair.
type Attribute struct {
	Pos   lexer.Position
	Key   string `parser:"@Ident '='"`
	Value *Value `parser:"@@"`
}

// Value is an attribute value.
type Value struct {
	String *String  `parser:"  @String"`
	Color  *string  `parser:"| @Color"`
	Number *string  `parser:"| @Number"`
	Ident  *string  `parser:"| @Ident"`
}

// String is a quoted string, unquoted on capture.
type String string

// Capture implements participle.Capture.
func (s *String) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = String(v)
	return nil
}

// Parse parses a markup document. The name is used in error positions.
func Parse(name, src string) (*Document, error) {
	doc, err := documentParser.ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("markup: %w", err)
	}
	return doc, nil
}

// Apply sets the paragraph style of b and replays the document content
// onto it. Lengths in dp, sp and pt are converted one dp per pixel.
func (d *Document) Apply(b *text.Builder) error {
	return d.ApplyMetric(b, unit.Metric{})
}

// ApplyMetric is like Apply but converts lengths with m.
func (d *Document) ApplyMetric(b *text.Builder, m unit.Metric) error {
	p := d.Paragraph
	style, err := paragraphStyle(p.Attrs, m)
	if err != nil {
		return err
	}
	b.SetParagraphStyle(style)
	return applyNodes(b, p.Body, m)
}

func applyNodes(b *text.Builder, nodes []*Node, m unit.Metric) error {
	for _, n := range nodes {
		switch {
		case n.Text != nil:
			b.AddText(string(*n.Text))
		case n.Style != nil:
			var style text.TextStyle
			for _, a := range n.Style.Attrs {
				if err := setTextAttr(&style, a, m); err != nil {
					return err
				}
			}
			b.PushStyle(style)
			if err := applyNodes(b, n.Style.Body, m); err != nil {
				return err
			}
			b.Pop()
		case n.Placeholder != nil:
			ph, err := placeholderStyle(n.Placeholder.Attrs, m)
			if err != nil {
				return err
			}
			b.AddPlaceholder(ph)
		}
	}
	return nil
}

func paragraphStyle(attrs []*Attribute, m unit.Metric) (text.ParagraphStyle, error) {
	var s text.ParagraphStyle
	for _, a := range attrs {
		var err error
		switch a.Key {
		case "align":
			err = enumValue(a, &s.Align, map[string]text.Alignment{
				"start":   text.Start,
				"end":     text.End,
				"left":    text.Left,
				"right":   text.Right,
				"center":  text.Center,
				"justify": text.Justify,
			})
		case "direction":
			err = enumValue(a, &s.Direction, map[string]text.Direction{
				"auto": text.Auto,
				"ltr":  text.LTR,
				"rtl":  text.RTL,
			})
		case "maxlines":
			var n float32
			n, err = a.scalar()
			if err == nil && (n < 0 || n != float32(int(n))) {
				err = a.errorf("expected a non-negative integer")
			}
			s.MaxLines = int(n)
		case "ellipsis":
			s.Ellipsis, err = a.str()
		case "height-behavior":
			err = enumValue(a, &s.HeightBehavior, map[string]text.HeightBehavior{
				"all":                  0,
				"disable-first-ascent": text.DisableFirstAscent,
				"disable-last-descent": text.DisableLastDescent,
				"disable-all":          text.DisableAll,
			})
		case "replace-tabs":
			s.ReplaceTabs, err = a.boolean()
		default:
			err = setTextAttr(&s.TextStyle, a, m)
		}
		if err != nil {
			return text.ParagraphStyle{}, err
		}
	}
	return s, nil
}

func setTextAttr(s *text.TextStyle, a *Attribute, m unit.Metric) error {
	var err error
	switch a.Key {
	case "size":
		s.Size, err = a.positive(a.length(m))
	case "family":
		var list string
		if list, err = a.str(); err == nil {
			s.Families, err = text.ParseFamilies(list)
			if err != nil {
				err = a.errorf("%v", err)
			}
		}
	case "slant":
		err = enumValue(a, &s.Style, map[string]font.Style{
			"regular": font.Regular,
			"italic":  font.Italic,
			"oblique": font.Oblique,
		})
	case "weight":
		s.Weight, err = a.weight()
	case "stretch":
		var pct float32
		if pct, err = a.positive(a.scalar()); err == nil {
			s.Width = font.Width(pct) - 100
		}
	case "color":
		s.Color, err = a.color()
	case "background":
		s.Background, err = a.color()
	case "decoration":
		s.Decoration, err = a.decoration()
	case "decoration-style":
		err = enumValue(a, &s.DecorationStyle, map[string]text.DecorationStyle{
			"solid":  text.Solid,
			"double": text.Double,
			"dotted": text.Dotted,
			"dashed": text.Dashed,
			"wavy":   text.Wavy,
		})
	case "decoration-color":
		s.DecorationColor, err = a.color()
	case "decoration-thickness":
		s.DecorationThickness, err = a.positive(a.scalar())
	case "letter-spacing":
		s.LetterSpacing, err = a.length(m)
	case "word-spacing":
		s.WordSpacing, err = a.length(m)
	case "height":
		s.Height, err = a.positive(a.scalar())
		s.HeightOverride = err == nil
	case "shadow":
		var sh text.Shadow
		if sh, err = a.shadow(m); err == nil {
			s.Shadows = append(s.Shadows, sh)
		}
	case "locale":
		s.Locale, err = a.str()
	default:
		return a.errorf("unknown attribute %q", a.Key)
	}
	return err
}

func placeholderStyle(attrs []*Attribute, m unit.Metric) (text.PlaceholderStyle, error) {
	var p text.PlaceholderStyle
	for _, a := range attrs {
		var err error
		switch a.Key {
		case "width":
			p.Width, err = a.length(m)
		case "height":
			p.Height, err = a.length(m)
		case "align":
			err = enumValue(a, &p.Alignment, map[string]text.PlaceholderAlignment{
				"baseline":       text.AlignBaseline,
				"above-baseline": text.AboveBaseline,
				"below-baseline": text.BelowBaseline,
				"top":            text.AlignTop,
				"bottom":         text.AlignBottom,
				"middle":         text.AlignMiddle,
			})
		case "baseline":
			err = enumValue(a, &p.Baseline, map[string]text.Baseline{
				"alphabetic":  text.Alphabetic,
				"ideographic": text.Ideographic,
			})
		case "baseline-offset":
			p.BaselineOffset, err = a.length(m)
		default:
			err = a.errorf("unknown placeholder attribute %q", a.Key)
		}
		if err != nil {
			return text.PlaceholderStyle{}, err
		}
		if p.Width < 0 || p.Height < 0 {
			return text.PlaceholderStyle{}, a.errorf("negative placeholder size")
		}
	}
	return p, nil
}

func (a *Attribute) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s: %s", a.Pos, a.Key, fmt.Sprintf(format, args...))
}

// word returns an identifier or string value.
func (a *Attribute) word() (string, bool) {
	switch v := a.Value; {
	case v.Ident != nil:
		return *v.Ident, true
	case v.String != nil:
		return string(*v.String), true
	}
	return "", false
}

func (a *Attribute) str() (string, error) {
	if a.Value.String != nil {
		return string(*a.Value.String), nil
	}
	if a.Value.Ident != nil {
		return *a.Value.Ident, nil
	}
	return "", a.errorf("expected a string")
}

// scalar returns a number without a unit.
func (a *Attribute) scalar() (float32, error) {
	if a.Value.Number == nil {
		return 0, a.errorf("expected a number")
	}
	raw := *a.Value.Number
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, a.errorf("expected a number without unit, got %s", raw)
	}
	return float32(v), nil
}

// length returns a length converted to pixels.
func (a *Attribute) length(m unit.Metric) (float32, error) {
	if a.Value.Number == nil {
		return 0, a.errorf("expected a number")
	}
	v, err := unit.Parse(*a.Value.Number)
	if err != nil {
		return 0, a.errorf("%v", err)
	}
	return m.Px(v), nil
}

func (a *Attribute) positive(v float32, err error) (float32, error) {
	if err == nil && v <= 0 {
		err = a.errorf("expected a positive number")
	}
	return v, err
}

func (a *Attribute) boolean() (bool, error) {
	w, _ := a.word()
	switch w {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, a.errorf("expected true or false")
}

func (a *Attribute) color() (color.NRGBA, error) {
	if a.Value.Color == nil {
		return color.NRGBA{}, a.errorf("expected a #rrggbb color")
	}
	return parseColor(*a.Value.Color), nil
}

// weight accepts a named weight or a CSS weight between 100 and 900.
func (a *Attribute) weight() (font.Weight, error) {
	if a.Value.Number != nil {
		w, err := a.scalar()
		if err != nil {
			return 0, err
		}
		if w < 100 || w > 900 {
			return 0, a.errorf("weight %v out of range", w)
		}
		return font.Weight(w) - 400, nil
	}
	var w font.Weight
	err := enumValue(a, &w, map[string]font.Weight{
		"thin":        font.Thin,
		"extra-light": font.ExtraLight,
		"light":       font.Light,
		"normal":      font.Normal,
		"medium":      font.Medium,
		"semi-bold":   font.SemiBold,
		"bold":        font.Bold,
		"extra-bold":  font.ExtraBold,
		"black":       font.Black,
	})
	return w, err
}

// decoration accepts a single line name, or several in a string such as
// "underline line-through".
func (a *Attribute) decoration() (text.Decoration, error) {
	w, ok := a.word()
	if !ok {
		return 0, a.errorf("expected decoration lines")
	}
	var d text.Decoration
	for _, f := range strings.Fields(w) {
		switch f {
		case "underline":
			d |= text.Underline
		case "overline":
			d |= text.Overline
		case "line-through":
			d |= text.LineThrough
		case "none":
		default:
			return 0, a.errorf("unknown decoration %q", f)
		}
	}
	return d, nil
}

// shadow parses "dx dy blur #rrggbb", with optional units on the lengths.
func (a *Attribute) shadow(m unit.Metric) (text.Shadow, error) {
	if a.Value.String == nil {
		return text.Shadow{}, a.errorf(`expected "dx dy blur #rrggbb"`)
	}
	fields := strings.Fields(string(*a.Value.String))
	if len(fields) != 4 {
		return text.Shadow{}, a.errorf(`expected "dx dy blur #rrggbb"`)
	}
	var nums [3]float32
	for i := range nums {
		v, err := unit.Parse(fields[i])
		if err != nil {
			return text.Shadow{}, a.errorf("%v", err)
		}
		nums[i] = m.Px(v)
	}
	c := fields[3]
	if !markupColor(c) {
		return text.Shadow{}, a.errorf("invalid color %q", c)
	}
	return text.Shadow{
		Color:      parseColor(c),
		Offset:     f32.Pt(nums[0], nums[1]),
		BlurRadius: nums[2],
	}, nil
}

func enumValue[T any](a *Attribute, v *T, names map[string]T) error {
	w, _ := a.word()
	e, ok := names[w]
	if !ok {
		return a.errorf("invalid value %q", w)
	}
	*v = e
	return nil
}

func markupColor(s string) bool {
	if len(s) != 7 && len(s) != 9 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// parseColor converts a lexed #rrggbb or #rrggbbaa color.
func parseColor(s string) color.NRGBA {
	v, _ := strconv.ParseUint(s[1:], 16, 32)
	if len(s) == 7 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
