package ui

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var _ Surface = (*Canvas)(nil)

// FontStyle is a named text size and colour.
type FontStyle struct {
	Size  float64
	Color color.Color
}

// DefaultFontStyles returns the styles every canvas knows about.
func DefaultFontStyles() map[string]FontStyle {
	return map[string]FontStyle{
		DefaultFontStyle: {Size: 24, Color: DefaultColor},
		"title":          {Size: 32, Color: DefaultColor},
		"small":          {Size: 16, Color: DefaultColor},
		"error":          {Size: 24, Color: color.RGBA{255, 80, 80, 255}},
	}
}

// Fonts holds parsed font faces shared by all canvases.
type Fonts struct {
	source *text.GoTextFaceSource
	styles map[string]FontStyle
}

// NewFonts parses the bundled Go Regular font.
func NewFonts(styles map[string]FontStyle) (*Fonts, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	if styles == nil {
		styles = DefaultFontStyles()
	}
	return &Fonts{source: src, styles: styles}, nil
}

func (f *Fonts) style(name string) FontStyle {
	if st, ok := f.styles[name]; ok {
		return st
	}
	return f.styles[DefaultFontStyle]
}

func (f *Fonts) face(name string) (*text.GoTextFace, FontStyle) {
	st := f.style(name)
	if st.Size == 0 {
		st.Size = 24
	}
	if st.Color == nil {
		st.Color = DefaultColor
	}
	return &text.GoTextFace{Source: f.source, Size: st.Size}, st
}

// Canvas draws widget primitives onto an ebiten image.
type Canvas struct {
	dst   *ebiten.Image
	fonts *Fonts
}

// NewCanvas wraps dst for one frame.
func NewCanvas(dst *ebiten.Image, fonts *Fonts) *Canvas {
	return &Canvas{dst: dst, fonts: fonts}
}

func (c *Canvas) Fill(clr color.Color) {
	c.dst.Fill(clr)
}

// Rect draws a rectangle. Strokes are drawn inside the rectangle's edge.
func (c *Canvas) Rect(at Point, reg Registration, width, height float64, stroke Stroke, fill color.Color) {
	mid := at.Add(reg.Offset(width, height))
	x := float32(mid.X - width/2)
	y := float32(mid.Y - height/2)
	w, h := float32(width), float32(height)

	if fill != nil {
		vector.DrawFilledRect(c.dst, x, y, w, h, fill, true)
	}
	if stroke.Width > 0 && stroke.Color != nil {
		sw := float32(stroke.Width)
		vector.StrokeRect(c.dst, x+sw/2, y+sw/2, w-sw, h-sw, sw, stroke.Color, true)
	}
}

// Ellipse draws a circle. Strokes are drawn inside the circle's edge.
func (c *Canvas) Ellipse(center Point, diameter float64, stroke Stroke, fill color.Color) {
	cx, cy := float32(center.X), float32(center.Y)
	r := float32(diameter / 2)

	if fill != nil {
		vector.DrawFilledCircle(c.dst, cx, cy, r, fill, true)
	}
	if stroke.Width > 0 && stroke.Color != nil {
		sw := float32(stroke.Width)
		vector.StrokeCircle(c.dst, cx, cy, r-sw/2, sw, stroke.Color, true)
	}
}

func (c *Canvas) Text(msg Message, at Point, reg Registration) {
	face, st := c.fonts.face(msg.Style)

	op := &text.DrawOptions{}
	op.GeoM.Translate(at.X, at.Y)
	op.ColorScale.ScaleWithColor(st.Color)
	op.LineSpacing = st.Size * 1.2
	op.PrimaryAlign, op.SecondaryAlign = textAlign(reg)
	text.Draw(c.dst, msg.Text, face, op)
}

func (c *Canvas) TextSize(msg Message) (width, height float64) {
	face, st := c.fonts.face(msg.Style)
	return text.Measure(msg.Text, face, st.Size*1.2)
}

// textAlign maps a registration to ebiten's horizontal and vertical text
// alignment.
func textAlign(reg Registration) (primary, secondary text.Align) {
	if !reg.Valid() {
		reg = Center
	}
	s := registrationShifts[reg]
	return alignFor(s.x), alignFor(s.y)
}

func alignFor(shift float64) text.Align {
	switch {
	case shift > 0:
		return text.AlignStart
	case shift < 0:
		return text.AlignEnd
	default:
		return text.AlignCenter
	}
}
