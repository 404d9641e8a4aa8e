package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// ErrQuit is returned when the participant asks to quit during a blocking
// collection.
var ErrQuit = errors.New("quit requested")

// Response is a collected rating and the time it took to give it.
type Response struct {
	Value int
	RT    time.Duration
}

// LikertPrompt pairs a question with a Likert scale and blocks until the
// participant picks a value.
type LikertPrompt struct {
	Question   Message
	Background color.Color

	scale    *Likert
	width    float64
	question Point

	// now is swapped out in tests.
	now func() time.Time
}

// NewLikertPrompt creates a prompt for [first, last]. origin is the
// top-middle of the scale; the question sits just above it.
func NewLikertPrompt(first, last int, question Message, width float64, origin Point, aes *Aesthetics) (*LikertPrompt, error) {
	height := width / float64(last-first+2)
	scale, err := NewLikert(first, last, width, height, aes, TopCenter, origin)
	if err != nil {
		return nil, fmt.Errorf("likert prompt: %w", err)
	}
	return &LikertPrompt{
		Question:   question,
		Background: BackgroundColor,
		scale:      scale,
		width:      width,
		question:   Point{X: origin.X, Y: origin.Y - math.Floor(height/2)},
		now:        time.Now,
	}, nil
}

// Scale exposes the underlying Likert widget.
func (p *LikertPrompt) Scale() *Likert {
	return p.scale
}

// QuestionLocation is the bottom-centre point of the question text.
func (p *LikertPrompt) QuestionLocation() Point {
	return p.question
}

// Draw renders one frame of the prompt and feeds events to the scale.
func (p *LikertPrompt) Draw(s Surface, events []Event, pointer Point) {
	if p.Background != nil {
		s.Fill(p.Background)
	}
	s.Text(p.Question, p.question, BottomCenter)
	p.scale.Update(s, events, pointer)
}

// Collect shows the prompt until a value is chosen. The cursor is made
// visible for the duration and restored afterwards.
func (p *LikertPrompt) Collect(ctx context.Context, d Display) (Response, error) {
	wasVisible := d.CursorVisible()
	d.SetCursorVisible(true)
	defer d.SetCursorVisible(wasVisible)

	onset := p.now()
	for {
		events := d.Pump()
		if QuitRequested(events) {
			return Response{}, ErrQuit
		}
		pointer := d.Pointer()
		err := d.Present(ctx, func(s Surface) {
			p.Draw(s, events, pointer)
		})
		if err != nil {
			return Response{}, fmt.Errorf("presenting likert prompt: %w", err)
		}
		if v, ok := p.scale.Take(); ok {
			return Response{Value: v, RT: p.now().Sub(onset)}, nil
		}
	}
}
