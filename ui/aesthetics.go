package ui

import "image/color"

var (
	DefaultColor    = color.RGBA{255, 255, 255, 255}
	BackgroundColor = color.RGBA{45, 45, 45, 255}
	MedGrey         = color.RGBA{128, 128, 128, 255}
	LightGrey       = color.RGBA{192, 192, 192, 255}
	TranslucentGrey = color.RGBA{192, 192, 192, 64}
	TranslucentBlue = color.RGBA{0, 0, 128, 128}
)

const DefaultFontStyle = "default"

// Style is the mutable description of an Aesthetics. Nil fields fall back
// to defaults.
type Style struct {
	Color     *color.RGBA
	Fill      *color.RGBA
	Thickness *int
	Hover     *color.RGBA
	FontStyle string
}

// Aesthetics is the immutable look shared by widgets: line colour, optional
// fill, optional line thickness, hover tint and font style.
type Aesthetics struct {
	color     color.RGBA
	fill      *color.RGBA
	thickness *int
	hover     color.RGBA
	fontStyle string
}

// NewAesthetics freezes s into an Aesthetics.
func NewAesthetics(s Style) *Aesthetics {
	a := &Aesthetics{
		color:     DefaultColor,
		hover:     TranslucentGrey,
		fontStyle: DefaultFontStyle,
	}
	if s.Color != nil {
		a.color = *s.Color
	}
	if s.Fill != nil {
		f := *s.Fill
		a.fill = &f
	}
	if s.Thickness != nil {
		t := *s.Thickness
		a.thickness = &t
	}
	if s.Hover != nil {
		a.hover = *s.Hover
	}
	if s.FontStyle != "" {
		a.fontStyle = s.FontStyle
	}
	return a
}

func (a *Aesthetics) Color() color.RGBA {
	return a.color
}

// Fill returns the fill colour, if one was set.
func (a *Aesthetics) Fill() (color.RGBA, bool) {
	if a.fill == nil {
		return color.RGBA{}, false
	}
	return *a.fill, true
}

// Thickness returns the line thickness, if one was set.
func (a *Aesthetics) Thickness() (int, bool) {
	if a.thickness == nil {
		return 0, false
	}
	return *a.thickness, true
}

func (a *Aesthetics) Hover() color.RGBA {
	return a.hover
}

func (a *Aesthetics) FontStyle() string {
	return a.fontStyle
}

// thicknessOr returns the thickness or def when none was set.
func (a *Aesthetics) thicknessOr(def int) int {
	if t, ok := a.Thickness(); ok {
		return t
	}
	return def
}

// fillColor returns the fill as a color.Color, nil when unset.
func (a *Aesthetics) fillColor() color.Color {
	if f, ok := a.Fill(); ok {
		return f
	}
	return nil
}

func orDefault(aes *Aesthetics) *Aesthetics {
	if aes == nil {
		return NewAesthetics(Style{})
	}
	return aes
}

// RGBA is a small helper for building Style fields inline.
func RGBA(r, g, b, a uint8) *color.RGBA {
	return &color.RGBA{R: r, G: g, B: b, A: a}
}

// Int returns a pointer to v, for Style.Thickness.
func Int(v int) *int {
	return &v
}
