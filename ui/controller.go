package ui

import (
	"context"
	"fmt"
	"image/color"
)

// Screen manages a group of widgets drawn in order on a shared background.
type Screen struct {
	Background color.Color

	widgets []Widget
}

// NewScreen creates an empty screen
func NewScreen() *Screen {
	return &Screen{
		Background: BackgroundColor,
		widgets:    make([]Widget, 0),
	}
}

// Add adds a widget to the screen
func (sc *Screen) Add(w Widget) {
	sc.widgets = append(sc.widgets, w)
}

// Widgets returns the widgets in draw order
func (sc *Screen) Widgets() []Widget {
	return sc.widgets
}

// Draw draws all widgets
func (sc *Screen) Draw(s Surface, pointer Point) {
	if sc.Background != nil {
		s.Fill(sc.Background)
	}
	for _, w := range sc.widgets {
		w.Draw(s, pointer)
	}
}

// Listen forwards events to every widget and returns those that reported
// activity, in draw order.
func (sc *Screen) Listen(events []Event) []Widget {
	var active []Widget
	for _, w := range sc.widgets {
		if w.Listen(events) {
			active = append(active, w)
		}
	}
	return active
}

// RunUntil drives the screen frame by frame until done returns true for
// any widget that reported activity in a frame.
func (sc *Screen) RunUntil(ctx context.Context, d Display, done func(Widget) bool) error {
	wasVisible := d.CursorVisible()
	d.SetCursorVisible(true)
	defer d.SetCursorVisible(wasVisible)

	for {
		events := d.Pump()
		if QuitRequested(events) {
			return ErrQuit
		}
		active := sc.Listen(events)
		pointer := d.Pointer()
		if err := d.Present(ctx, func(s Surface) { sc.Draw(s, pointer) }); err != nil {
			return fmt.Errorf("presenting screen: %w", err)
		}
		for _, w := range active {
			if done(w) {
				return nil
			}
		}
	}
}
