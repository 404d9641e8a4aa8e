package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikertGeometry(t *testing.T) {
	tests := []struct {
		name          string
		first, last   int
		width, height float64
	}{
		{name: "Five point", first: 1, last: 5, width: 250, height: 50},
		{name: "Seven point", first: 1, last: 7, width: 500, height: 40},
		{name: "Zero based", first: 0, last: 10, width: 700, height: 30},
		{name: "Two items", first: -1, last: 0, width: 300, height: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLikert(tt.first, tt.last, tt.width, tt.height, nil, Center, Point{X: 400, Y: 300})
			require.NoError(t, err)

			bounds := l.Geometry().Bounds
			radius := tt.height / 2
			assert.InDelta(t, bounds.Min.X+radius, l.Center(tt.first).X, 1e-9)
			assert.InDelta(t, bounds.Max.X-radius, l.Center(tt.last).X, 1e-9)

			step := l.Center(tt.first+1).X - l.Center(tt.first).X
			for v := tt.first + 1; v <= tt.last; v++ {
				assert.InDelta(t, step, l.Center(v).X-l.Center(v-1).X, 1e-9)
				assert.Equal(t, 300.0, l.Center(v).Y)
			}
			assert.Equal(t, tt.last-tt.first+1, l.targets.Len())
		})
	}
}

func TestLikertRejectsDegenerateRange(t *testing.T) {
	_, err := NewLikert(3, 3, 100, 20, nil, Center, Point{})
	assert.ErrorIs(t, err, ErrDegenerateScale)

	_, err = NewLikert(5, 1, 100, 20, nil, Center, Point{})
	assert.ErrorIs(t, err, ErrDegenerateScale)

	_, err = NewLikert(1, 5, 0, 20, nil, Center, Point{})
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewLikert(1, 5, 100, 20, nil, Registration(11), Point{})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestZeroRegistrationRejectedByAllWidgets(t *testing.T) {
	_, err := NewLikert(1, 5, 100, 20, nil, Registration(0), Point{})
	assert.ErrorIs(t, err, ErrInvalidRegistration)

	_, err = NewButton(Message{Text: "ok"}, 100, 20, nil, Registration(0), Point{})
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestLikertCommitAndHighlight(t *testing.T) {
	hover := RGBA(9, 9, 9, 90)
	l, err := NewLikert(1, 5, 250, 50, NewAesthetics(Style{Hover: hover}), Center, Point{X: 400, Y: 300})
	require.NoError(t, err)

	target := l.Center(3)
	assert.Equal(t, Point{X: 400, Y: 300}, target)

	r := &recorder{}
	l.Update(r, []Event{PrimaryDown(target.X, target.Y)}, Point{X: -100, Y: -100})
	v, ok := l.Response()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Empty(t, r.filled("ellipse", *hover), "highlight appears from the next frame")

	for i := 0; i < 3; i++ {
		r = &recorder{}
		l.Update(r, nil, Point{X: -100, Y: -100})
		highlights := r.filled("ellipse", *hover)
		require.Len(t, highlights, 1)
		assert.Equal(t, target, highlights[0].at)
		assert.Equal(t, 46.0, highlights[0].diameter)
	}

	l.Reset()
	r = &recorder{}
	l.Update(r, nil, Point{X: -100, Y: -100})
	assert.Empty(t, r.filled("ellipse", *hover))
	_, ok = l.Response()
	assert.False(t, ok)
}

func TestLikertHoverDoesNotCommit(t *testing.T) {
	l, err := NewLikert(1, 5, 250, 50, nil, Center, Point{X: 400, Y: 300})
	require.NoError(t, err)

	r := &recorder{}
	l.Update(r, []Event{PrimaryUp(300, 300)}, l.Center(1))

	highlights := r.filled("ellipse", TranslucentGrey)
	require.Len(t, highlights, 1)
	assert.Equal(t, l.Center(1), highlights[0].at)

	_, ok := l.Response()
	assert.False(t, ok)

	v, ok := l.Hovered(l.Center(5))
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestLikertClickOutsideTargets(t *testing.T) {
	l, err := NewLikert(1, 5, 250, 50, nil, Center, Point{X: 400, Y: 300})
	require.NoError(t, err)

	assert.False(t, l.Listen([]Event{PrimaryDown(400, 100), PrimaryDown(0, 300)}))
	_, ok := l.Response()
	assert.False(t, ok)
}

func TestLikertOverlapGoesToLowerValue(t *testing.T) {
	l, err := NewLikert(1, 5, 250, 50, nil, Center, Point{X: 400, Y: 300})
	require.NoError(t, err)

	// Targets are 50px apart with a 30px hit radius, so the midpoint
	// between 2 and 3 is inside both.
	mid := (l.Center(2).X + l.Center(3).X) / 2
	require.True(t, l.Listen([]Event{PrimaryDown(mid, 300)}))
	v, _ := l.Take()
	assert.Equal(t, 2, v)

	_, ok := l.Take()
	assert.False(t, ok, "take consumes the response")
}

func TestLikertDrawsLabelsAndOutline(t *testing.T) {
	aes := NewAesthetics(Style{Thickness: Int(3), FontStyle: "small"})
	l, err := NewLikert(1, 3, 200, 40, aes, Center, Point{X: 200, Y: 200})
	require.NoError(t, err)

	r := &recorder{}
	l.Draw(r, Point{})
	labels := r.kind("text")
	require.Len(t, labels, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{labels[0].text, labels[1].text, labels[2].text})

	circles := r.kind("ellipse")
	require.Len(t, circles, 3)
	for _, c := range circles {
		assert.Equal(t, 3.0, c.stroke.Width)
		assert.Equal(t, 36.0, c.diameter)
	}
}

func TestLikertRelocation(t *testing.T) {
	l, err := NewLikert(1, 5, 250, 50, nil, Center, Point{X: 400, Y: 300})
	require.NoError(t, err)

	require.NoError(t, l.SetRegistration(TopCenter))
	assert.Equal(t, Point{X: 400, Y: 325}, l.Center(3))
	assert.Equal(t, TopCenter, l.Registration())

	l.SetLocation(Point{X: 100, Y: 100})
	assert.Equal(t, Point{X: 100, Y: 125}, l.Center(3))
	assert.Equal(t, 5, l.targets.Len(), "targets are replaced, not duplicated")

	require.True(t, l.Listen([]Event{PrimaryDown(100, 125)}))
	v, _ := l.Response()
	assert.Equal(t, 3, v)

	assert.ErrorIs(t, l.SetRegistration(0), ErrInvalidRegistration)
}
