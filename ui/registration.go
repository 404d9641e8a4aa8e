package ui

import (
	"errors"
	"fmt"

	"github.com/OpticalFlyer/tracelab/boundary"
)

// Registration picks which point of a widget its location refers to, laid
// out like a numeric keypad: 7 8 9 on top, 4 5 6 in the middle and 1 2 3
// at the bottom.
type Registration int

const (
	BottomLeft Registration = iota + 1
	BottomCenter
	BottomRight
	MiddleLeft
	Center
	MiddleRight
	TopLeft
	TopCenter
	TopRight
)

var ErrInvalidRegistration = errors.New("registration must be between 1 and 9")

// shift holds the direction, in half extents, that moves a location to the
// midpoint of the widget. Screen y grows downwards, so a top anchored
// widget hangs below its location.
type shift struct {
	x, y float64
}

var registrationShifts = [...]shift{
	BottomLeft:   {x: 1, y: -1},
	BottomCenter: {x: 0, y: -1},
	BottomRight:  {x: -1, y: -1},
	MiddleLeft:   {x: 1, y: 0},
	Center:       {x: 0, y: 0},
	MiddleRight:  {x: -1, y: 0},
	TopLeft:      {x: 1, y: 1},
	TopCenter:    {x: 0, y: 1},
	TopRight:     {x: -1, y: 1},
}

var registrationNames = [...]string{
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
	MiddleLeft:   "middle-left",
	Center:       "center",
	MiddleRight:  "middle-right",
	TopLeft:      "top-left",
	TopCenter:    "top-center",
	TopRight:     "top-right",
}

func (r Registration) Valid() bool {
	return r >= BottomLeft && r <= TopRight
}

func (r Registration) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Registration(%d)", int(r))
	}
	return registrationNames[r]
}

// Geometry is the resolved placement of a widget.
type Geometry struct {
	Midpoint Point
	Bounds   boundary.Rectangle
}

// Anchor resolves a width x height box placed at loc with registration reg.
// An invalid registration is treated as Center.
func Anchor(name string, loc Point, width, height float64, reg Registration) Geometry {
	mid := loc.Add(reg.Offset(width, height))
	return Geometry{
		Midpoint: mid,
		Bounds: boundary.NewRectangle(name,
			Point{X: mid.X - width/2, Y: mid.Y - height/2},
			Point{X: mid.X + width/2, Y: mid.Y + height/2}),
	}
}

// Offset returns the vector from a registration point to the centre of a
// width x height box.
func (r Registration) Offset(width, height float64) Point {
	if !r.Valid() {
		return Point{}
	}
	s := registrationShifts[r]
	return Point{X: s.x * width / 2, Y: s.y * height / 2}
}
