package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/OpticalFlyer/tracelab/ui"
)

// handleTouchEvents turns touches into primary button events. The returned
// point is the position of the first active touch, if any.
func (w *Window) handleTouchEvents() ([]ui.Event, ui.Point, bool) {
	if w.lastTouch == nil {
		w.lastTouch = make(map[ebiten.TouchID]ui.Point)
	}

	var events []ui.Event
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		events = append(events, ui.PrimaryDown(float64(x), float64(y)))
	}

	touches := ebiten.AppendTouchIDs(make([]ebiten.TouchID, 0, 8))
	for _, id := range touches {
		x, y := ebiten.TouchPosition(id)
		w.lastTouch[id] = ui.Point{X: float64(x), Y: float64(y)}
	}

	// Ended touches report their last known position
	for id, p := range w.lastTouch {
		if !containsTouchID(touches, id) {
			events = append(events, ui.PrimaryUp(p.X, p.Y))
			delete(w.lastTouch, id)
		}
	}

	if len(touches) == 0 {
		return events, ui.Point{}, false
	}
	return events, w.lastTouch[touches[0]], true
}

func containsTouchID(ids []ebiten.TouchID, id ebiten.TouchID) bool {
	for _, tid := range ids {
		if tid == id {
			return true
		}
	}
	return false
}
