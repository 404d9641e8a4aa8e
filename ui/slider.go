package ui

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var _ Widget = (*Slider)(nil)

var ErrInvalidPosition = errors.New("slider position must be between 0 and 1, inclusive")

const (
	defaultSliderDiameter = 60
	sliderLineHeight      = 2
	sliderTickWidth       = 2
)

// SliderOptions customise a Slider. Zero values select the defaults.
type SliderOptions struct {
	Diameter   float64
	Ticks      int
	LineColor  color.Color
	ButtonFill color.Color
}

// Slider is a draggable button on a horizontal track. The button is only
// shown once the slider has been clicked or its position set.
type Slider struct {
	width    float64
	diameter float64
	ticks    int
	line     color.Color
	fill     color.Color

	location   Point
	xmin, xmax float64

	// Interaction state
	clicked    bool
	dragging   bool
	dragOffset float64
	absPos     Point
}

// NewSlider creates a slider whose track is width pixels long and centred
// on loc. The track must span at least two pixels.
func NewSlider(width float64, opts SliderOptions, loc Point) (*Slider, error) {
	if math.Floor(width/2) <= 0 {
		return nil, fmt.Errorf("slider width %.0f: %w", width, ErrInvalidSize)
	}
	s := &Slider{
		width:    width,
		diameter: opts.Diameter,
		ticks:    opts.Ticks,
		line:     opts.LineColor,
		fill:     opts.ButtonFill,
	}
	if s.diameter <= 0 {
		s.diameter = defaultSliderDiameter
	}
	if s.line == nil {
		s.line = MedGrey
	}
	if s.fill == nil {
		s.fill = TranslucentBlue
	}
	s.SetLocation(loc)
	s.absPos = loc
	return s, nil
}

func (s *Slider) Location() Point {
	return s.location
}

// SetLocation moves the track. The stored button position is not moved.
func (s *Slider) SetLocation(loc Point) {
	s.location = loc
	s.xmin = loc.X - math.Floor(s.width/2)
	s.xmax = loc.X + math.Floor(s.width/2)
}

// Extent returns the x coordinates of the ends of the track.
func (s *Slider) Extent() (xmin, xmax float64) {
	return s.xmin, s.xmax
}

func (s *Slider) span() float64 {
	return s.xmax - s.xmin
}

func (s *Slider) clamp(x float64) float64 {
	return math.Max(s.xmin, math.Min(s.xmax, x))
}

// Listen processes button presses and releases. Pressing on the track moves
// the button to the press point; pressing on the button grabs it where it
// is. It reports whether a drag ended within the batch.
func (s *Slider) Listen(events []Event) bool {
	released := false
	for _, e := range events {
		switch {
		case e.isPrimary(EventButtonDown):
			if math.Abs(e.Pos.Y-s.location.Y) >= s.diameter/2 {
				continue
			}
			if e.Pos.X >= s.xmin && e.Pos.X <= s.xmax {
				s.absPos = Point{X: e.Pos.X, Y: s.location.Y}
				s.clicked = true
				s.dragging = true
				s.dragOffset = 0
			} else if e.Pos.Dist(s.absPos) < s.diameter/2 {
				s.clicked = true
				s.dragging = true
				s.dragOffset = s.absPos.X - e.Pos.X
			}
		case e.isPrimary(EventButtonUp):
			if s.dragging {
				s.absPos = Point{X: s.clamp(e.Pos.X + s.dragOffset), Y: s.location.Y}
				s.dragging = false
				released = true
			}
		}
	}
	return released
}

// Draw renders the track, its ticks and, once set, the button. While a
// drag is in progress the button follows pointer.
func (s *Slider) Draw(sf Surface, pointer Point) {
	sf.Rect(s.location, Center, s.width, sliderLineHeight, Stroke{}, s.line)
	s.drawTicks(sf)
	if !s.clicked {
		return
	}
	pos := s.absPos
	if s.dragging {
		pos = Point{X: s.clamp(pointer.X + s.dragOffset), Y: s.location.Y}
	}
	sf.Ellipse(pos, s.diameter, Stroke{}, s.fill)
}

// TickPositions returns the x coordinates of the tick marks.
func (s *Slider) TickPositions() []float64 {
	switch {
	case s.ticks <= 0:
		return nil
	case s.ticks == 1:
		return []float64{s.location.X}
	}
	xs := []float64{s.xmin, s.xmax}
	spacing := s.span() / float64(s.ticks-1)
	for i := 1; i < s.ticks-1; i++ {
		xs = append(xs, s.xmin+math.Floor(spacing*float64(i)))
	}
	return xs
}

func (s *Slider) drawTicks(sf Surface) {
	for _, x := range s.TickPositions() {
		sf.Rect(Point{X: x, Y: s.location.Y}, Center, sliderTickWidth, math.Floor(s.diameter/2), Stroke{}, s.line)
	}
}

// Dragging reports whether the button is currently held.
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Pos returns the button position along the track in [0, 1], or false if
// the slider has not been set since creation or the last Reset.
func (s *Slider) Pos() (float64, bool) {
	if !s.clicked {
		return 0, false
	}
	return (s.absPos.X - s.xmin) / s.span(), true
}

// SetPos places the button at fraction p of the track, rounded down to a
// whole pixel.
func (s *Slider) SetPos(p float64) error {
	if !(p >= 0 && p <= 1) {
		return fmt.Errorf("slider position %v: %w", p, ErrInvalidPosition)
	}
	s.absPos = Point{X: math.Floor(p*s.span()) + s.xmin, Y: s.location.Y}
	s.clicked = true
	return nil
}

// Reset hides the button again. Its stored position is kept.
func (s *Slider) Reset() {
	s.clicked = false
	s.dragging = false
}
