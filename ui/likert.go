package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/OpticalFlyer/tracelab/boundary"
)

var _ Widget = (*Likert)(nil)

// ErrDegenerateScale is returned for scales with fewer than two items, for
// which the spacing between targets is undefined.
var ErrDegenerateScale = errors.New("likert scale needs at least two items")

const (
	// Drawn circles are slightly smaller than their slot...
	likertCircleInset = 4
	// ...and their hit targets slightly larger.
	likertHitScale = 0.6
)

// Likert is a horizontal row of evenly spaced circular targets, one per
// integer in [first, last]. Clicking a target commits its value until the
// caller takes or resets it.
type Likert struct {
	targets *boundary.Inspector

	first, last   int
	width, height float64
	diameter      float64
	gap           float64
	aes           *Aesthetics
	registration  Registration
	location      Point
	geometry      Geometry

	labels   map[int]Message
	response *int
}

// NewLikert creates a scale whose targets span width pixels. Each circle
// is height pixels across.
func NewLikert(first, last int, width, height float64, aes *Aesthetics, reg Registration, loc Point) (*Likert, error) {
	count := last - first + 1
	if count < 2 {
		return nil, fmt.Errorf("likert range [%d, %d]: %w", first, last, ErrDegenerateScale)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("likert %.0fx%.0f: %w", width, height, ErrInvalidSize)
	}
	if !reg.Valid() {
		return nil, fmt.Errorf("likert registration %d: %w", reg, ErrInvalidRegistration)
	}

	aes = orDefault(aes)
	l := &Likert{
		targets:      boundary.NewInspector(),
		first:        first,
		last:         last,
		width:        width,
		height:       height,
		diameter:     height,
		gap:          (width - height*float64(count)) / float64(count-1),
		aes:          aes,
		registration: reg,
		location:     loc,
		labels:       make(map[int]Message, count),
	}
	for v := first; v <= last; v++ {
		l.labels[v] = Message{Text: strconv.Itoa(v), Style: aes.FontStyle()}
	}
	l.initBounds()
	return l, nil
}

func (l *Likert) initBounds() {
	l.geometry = Anchor("likert", l.location, l.width, l.height, l.registration)
	for v := l.first; v <= l.last; v++ {
		l.targets.Add(boundary.NewCircle(strconv.Itoa(v), l.Center(v), l.diameter*likertHitScale))
	}
}

// Center returns the centre of the target for value. Values outside the
// range extrapolate along the row.
func (l *Likert) Center(value int) Point {
	n := float64(value - l.first)
	top := l.geometry.Bounds.Min
	return Point{
		X: top.X + l.diameter*(n+0.5) + l.gap*n,
		Y: top.Y + l.diameter*0.5,
	}
}

// Update draws the scale, highlights the hovered target and commits a
// value if the batch clicks on one.
func (l *Likert) Update(s Surface, events []Event, pointer Point) {
	l.Draw(s, pointer)
	l.Listen(events)
}

// Draw renders targets, labels, the committed selection and the hover
// highlight.
func (l *Likert) Draw(s Surface, pointer Point) {
	size := l.diameter - likertCircleInset
	thickness := l.aes.thicknessOr(0)
	fill := l.aes.fillColor()
	for v := l.first; v <= l.last; v++ {
		pos := l.Center(v)
		if fill != nil || thickness > 0 {
			s.Ellipse(pos, size, Stroke{Width: float64(thickness), Color: l.aes.Color()}, fill)
		}
		s.Text(l.labels[v], pos, Center)
	}
	if l.response != nil {
		s.Ellipse(l.Center(*l.response), size, Stroke{}, l.aes.Hover())
	}
	if v, ok := l.Hovered(pointer); ok {
		s.Ellipse(l.Center(v), size, Stroke{}, l.aes.Hover())
	}
}

// Listen commits the value of the first target hit by a primary
// button-down in the batch. It reports whether a value was committed.
func (l *Likert) Listen(events []Event) bool {
	for _, e := range events {
		if !e.isPrimary(EventButtonDown) {
			continue
		}
		if v, ok := l.valueAt(e.Pos); ok {
			l.response = &v
			return true
		}
	}
	return false
}

// Hovered returns the value under pointer, if any.
func (l *Likert) Hovered(pointer Point) (int, bool) {
	return l.valueAt(pointer)
}

func (l *Likert) valueAt(p Point) (int, bool) {
	name, ok := l.targets.Which(p)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(name)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Response returns the committed value without clearing it.
func (l *Likert) Response() (int, bool) {
	if l.response == nil {
		return 0, false
	}
	return *l.response, true
}

// Take returns the committed value and resets the scale.
func (l *Likert) Take() (int, bool) {
	v, ok := l.Response()
	l.response = nil
	return v, ok
}

// Reset clears any committed value.
func (l *Likert) Reset() {
	l.response = nil
}

func (l *Likert) Range() (first, last int) {
	return l.first, l.last
}

// Gap returns the horizontal space between adjacent circles.
func (l *Likert) Gap() float64 {
	return l.gap
}

func (l *Likert) Geometry() Geometry {
	return l.geometry
}

func (l *Likert) Location() Point {
	return l.location
}

// SetLocation moves the scale and rebuilds its targets.
func (l *Likert) SetLocation(loc Point) {
	l.location = loc
	l.initBounds()
}

func (l *Likert) Registration() Registration {
	return l.registration
}

// SetRegistration re-anchors the scale and rebuilds its targets.
func (l *Likert) SetRegistration(reg Registration) error {
	if !reg.Valid() {
		return fmt.Errorf("likert registration %d: %w", reg, ErrInvalidRegistration)
	}
	l.registration = reg
	l.initBounds()
	return nil
}
