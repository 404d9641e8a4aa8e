package ui

import (
	"context"
	"image/color"
)

type drawOp struct {
	kind     string
	at       Point
	reg      Registration
	width    float64
	height   float64
	diameter float64
	stroke   Stroke
	fill     color.Color
	text     string
}

// recorder is a Surface that remembers what was drawn.
type recorder struct {
	ops []drawOp
}

func (r *recorder) Fill(c color.Color) {
	r.ops = append(r.ops, drawOp{kind: "fill", fill: c})
}

func (r *recorder) Rect(at Point, reg Registration, width, height float64, stroke Stroke, fill color.Color) {
	r.ops = append(r.ops, drawOp{kind: "rect", at: at, reg: reg, width: width, height: height, stroke: stroke, fill: fill})
}

func (r *recorder) Ellipse(center Point, diameter float64, stroke Stroke, fill color.Color) {
	r.ops = append(r.ops, drawOp{kind: "ellipse", at: center, diameter: diameter, stroke: stroke, fill: fill})
}

func (r *recorder) Text(msg Message, at Point, reg Registration) {
	r.ops = append(r.ops, drawOp{kind: "text", at: at, reg: reg, text: msg.Text})
}

func (r *recorder) TextSize(msg Message) (float64, float64) {
	return float64(len(msg.Text)) * 10, 20
}

func (r *recorder) kind(kind string) []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// filled returns ellipses drawn with the given fill.
func (r *recorder) filled(kind string, c color.Color) []drawOp {
	var out []drawOp
	for _, op := range r.kind(kind) {
		if op.fill == c {
			out = append(out, op)
		}
	}
	return out
}

// scriptedDisplay plays back one event batch per frame. Once the script
// runs out it returns empty batches.
type scriptedDisplay struct {
	batches  [][]Event
	pointers []Point
	visible  bool
	frames   []*recorder

	visibility []bool
	presentErr error
}

func (d *scriptedDisplay) Pump() []Event {
	if len(d.batches) == 0 {
		return nil
	}
	b := d.batches[0]
	d.batches = d.batches[1:]
	return b
}

func (d *scriptedDisplay) Pointer() Point {
	if len(d.pointers) == 0 {
		return Point{X: -1000, Y: -1000}
	}
	p := d.pointers[0]
	if len(d.pointers) > 1 {
		d.pointers = d.pointers[1:]
	}
	return p
}

func (d *scriptedDisplay) CursorVisible() bool {
	return d.visible
}

func (d *scriptedDisplay) SetCursorVisible(v bool) {
	d.visible = v
	d.visibility = append(d.visibility, v)
}

func (d *scriptedDisplay) Present(ctx context.Context, draw func(Surface)) error {
	if d.presentErr != nil {
		return d.presentErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r := &recorder{}
	draw(r)
	d.frames = append(d.frames, r)
	return nil
}
