package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompt(t *testing.T) *LikertPrompt {
	t.Helper()
	p, err := NewLikertPrompt(1, 5, Message{Text: "How vivid was it?"}, 300, Point{X: 400, Y: 200}, nil)
	require.NoError(t, err)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	p.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 1500 * time.Millisecond)
	}
	return p
}

func TestLikertPromptLayout(t *testing.T) {
	p := newTestPrompt(t)

	// 300px over 5 items plus one spare slot: 50px circles.
	g := p.Scale().Geometry()
	assert.Equal(t, 200.0, g.Bounds.Min.Y, "scale hangs from the origin")
	assert.Equal(t, 250.0, g.Bounds.Max.Y)
	assert.Equal(t, Point{X: 400, Y: 175}, p.QuestionLocation())
	assert.Equal(t, Point{X: 400, Y: 225}, p.Scale().Center(3))
}

func TestLikertPromptCollect(t *testing.T) {
	p := newTestPrompt(t)
	target := p.Scale().Center(4)

	d := &scriptedDisplay{
		batches: [][]Event{
			nil,
			{PrimaryDown(0, 0)},
			{PrimaryDown(target.X, target.Y)},
		},
		pointers: []Point{target},
		visible:  false,
	}

	resp, err := p.Collect(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Value)
	assert.Equal(t, 1500*time.Millisecond, resp.RT)

	require.Len(t, d.frames, 3)
	first := d.frames[0]
	require.NotEmpty(t, first.ops)
	assert.Equal(t, "fill", first.ops[0].kind)
	question := first.kind("text")[0]
	assert.Equal(t, "How vivid was it?", question.text)
	assert.Equal(t, BottomCenter, question.reg)

	assert.Equal(t, []bool{true, false}, d.visibility, "cursor shown then restored")
	_, ok := p.Scale().Response()
	assert.False(t, ok, "response is consumed")
}

func TestLikertPromptKeepsVisibleCursor(t *testing.T) {
	p := newTestPrompt(t)
	target := p.Scale().Center(1)
	d := &scriptedDisplay{
		batches: [][]Event{{PrimaryDown(target.X, target.Y)}},
		visible: true,
	}

	resp, err := p.Collect(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Value)
	assert.True(t, d.visible)
}

func TestLikertPromptQuit(t *testing.T) {
	p := newTestPrompt(t)
	d := &scriptedDisplay{
		batches: [][]Event{nil, {{Type: EventQuit}}},
	}

	_, err := p.Collect(context.Background(), d)
	assert.ErrorIs(t, err, ErrQuit)
	assert.False(t, d.visible, "cursor restored on quit")
}

func TestLikertPromptCancelled(t *testing.T) {
	p := newTestPrompt(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &scriptedDisplay{}
	_, err := p.Collect(ctx, d)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []bool{true, false}, d.visibility)
}

func TestLikertPromptPresentError(t *testing.T) {
	p := newTestPrompt(t)
	boom := errors.New("window closed")
	d := &scriptedDisplay{presentErr: boom}

	_, err := p.Collect(context.Background(), d)
	assert.ErrorIs(t, err, boom)
}

func TestLikertPromptDegenerate(t *testing.T) {
	_, err := NewLikertPrompt(1, 1, Message{Text: "?"}, 300, Point{}, nil)
	assert.ErrorIs(t, err, ErrDegenerateScale)
}
