package ui

import (
	"context"
	"image/color"

	"github.com/OpticalFlyer/tracelab/boundary"
)

// Point is re-exported so callers of ui rarely need the boundary package.
type Point = boundary.Point

// Surface is the drawing target handed to widgets once per frame.
// All primitives are positioned by a location and a registration anchor.
type Surface interface {
	Fill(c color.Color)
	Rect(at Point, reg Registration, width, height float64, stroke Stroke, fill color.Color)
	Ellipse(center Point, diameter float64, stroke Stroke, fill color.Color)
	Text(msg Message, at Point, reg Registration)
	TextSize(msg Message) (width, height float64)
}

// Stroke describes an outline. A zero Width draws no outline.
type Stroke struct {
	Width float64
	Color color.Color
}

// Message is a piece of text together with the font style used to render it.
type Message struct {
	Text  string
	Style string
}

// Display owns the window: it produces input and presents frames.
type Display interface {
	// Pump returns the input events gathered since the previous call.
	Pump() []Event
	// Pointer returns the current cursor position, independent of Pump.
	Pointer() Point
	CursorVisible() bool
	SetCursorVisible(visible bool)
	// Present draws one frame and returns once it is on screen.
	Present(ctx context.Context, draw func(Surface)) error
}

// Widget is an on-screen control driven by an external frame loop.
type Widget interface {
	Draw(s Surface, pointer Point)
	Listen(events []Event) bool
}

// EventType classifies input events.
type EventType int

const (
	EventButtonDown EventType = iota + 1
	EventButtonUp
	EventKeyDown
	EventQuit
)

// MouseButton identifies a pointer button. Touches report ButtonPrimary.
type MouseButton int

const (
	ButtonPrimary MouseButton = iota
	ButtonSecondary
	ButtonMiddle
)

// Event is a single input event from a Pump batch.
type Event struct {
	Type   EventType
	Button MouseButton
	Pos    Point
	Key    string
}

// PrimaryDown creates a primary button-down event at (x, y).
func PrimaryDown(x, y float64) Event {
	return Event{Type: EventButtonDown, Button: ButtonPrimary, Pos: Point{X: x, Y: y}}
}

// PrimaryUp creates a primary button-up event at (x, y).
func PrimaryUp(x, y float64) Event {
	return Event{Type: EventButtonUp, Button: ButtonPrimary, Pos: Point{X: x, Y: y}}
}

func (e Event) isPrimary(t EventType) bool {
	return e.Type == t && e.Button == ButtonPrimary
}

// QuitRequested reports whether the batch contains a quit event.
func QuitRequested(events []Event) bool {
	for _, e := range events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
