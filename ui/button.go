package ui

import (
	"errors"
	"fmt"
)

var _ Widget = (*Button)(nil)

var ErrInvalidSize = errors.New("widget dimensions must be positive")

// Button is a clickable rectangle with a label and a hover highlight.
type Button struct {
	width, height float64
	msg           Message
	aes           *Aesthetics
	registration  Registration
	location      Point

	// Derived from location and registration on every change
	geometry Geometry
}

// NewButton creates a button of the given size. A zero height makes the
// button square.
func NewButton(msg Message, width, height float64, aes *Aesthetics, reg Registration, loc Point) (*Button, error) {
	if height == 0 {
		height = width
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("button %.0fx%.0f: %w", width, height, ErrInvalidSize)
	}
	if !reg.Valid() {
		return nil, fmt.Errorf("button registration %d: %w", reg, ErrInvalidRegistration)
	}
	if msg.Style == "" {
		msg.Style = orDefault(aes).FontStyle()
	}

	b := &Button{
		width:        width,
		height:       height,
		msg:          msg,
		aes:          orDefault(aes),
		registration: reg,
		location:     loc,
	}
	b.geometry = Anchor("button", loc, width, height, reg)
	return b, nil
}

func (b *Button) Draw(s Surface, pointer Point) {
	mid := b.geometry.Midpoint
	s.Text(b.msg, mid, Center)

	thickness := b.aes.thicknessOr(0)
	fill := b.aes.fillColor()
	if thickness > 0 || fill != nil {
		stroke := Stroke{Width: float64(thickness), Color: b.aes.Color()}
		s.Rect(mid, Center, b.width, b.height, stroke, fill)
	}

	if b.geometry.Bounds.Within(pointer) {
		s.Rect(mid, Center, b.width, b.height, Stroke{}, b.aes.Hover())
	}
}

// Listen reports whether the batch holds a primary button-down inside the
// button.
func (b *Button) Listen(events []Event) bool {
	for _, e := range events {
		if e.isPrimary(EventButtonDown) && b.geometry.Bounds.Within(e.Pos) {
			return true
		}
	}
	return false
}

// Hovered reports whether pointer is over the button.
func (b *Button) Hovered(pointer Point) bool {
	return b.geometry.Bounds.Within(pointer)
}

func (b *Button) Location() Point {
	return b.location
}

// SetLocation moves the button and recomputes its bounds.
func (b *Button) SetLocation(loc Point) {
	b.geometry = Anchor("button", loc, b.width, b.height, b.registration)
	b.location = loc
}

func (b *Button) Registration() Registration {
	return b.registration
}

// SetRegistration re-anchors the button. Invalid values leave it untouched.
func (b *Button) SetRegistration(reg Registration) error {
	if !reg.Valid() {
		return fmt.Errorf("button registration %d: %w", reg, ErrInvalidRegistration)
	}
	b.geometry = Anchor("button", b.location, b.width, b.height, reg)
	b.registration = reg
	return nil
}

// Geometry returns the current midpoint and bounds.
func (b *Button) Geometry() Geometry {
	return b.geometry
}

func (b *Button) Size() (width, height float64) {
	return b.width, b.height
}
