package main

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/OpticalFlyer/tracelab/config"
	"github.com/OpticalFlyer/tracelab/session"
	"github.com/OpticalFlyer/tracelab/ui"
)

type nopSurface struct{}

func (nopSurface) Fill(color.Color) {}
func (nopSurface) Rect(ui.Point, ui.Registration, float64, float64, ui.Stroke, color.Color) {}
func (nopSurface) Ellipse(ui.Point, float64, ui.Stroke, color.Color) {}
func (nopSurface) Text(ui.Message, ui.Point, ui.Registration) {}
func (nopSurface) TextSize(ui.Message) (float64, float64) { return 0, 0 }

// queuedDisplay hands out one batch of events per frame.
type queuedDisplay struct {
	batches [][]ui.Event
	visible bool
	frames  int
}

func (d *queuedDisplay) Pump() []ui.Event {
	if len(d.batches) == 0 {
		return nil
	}
	b := d.batches[0]
	d.batches = d.batches[1:]
	return b
}

func (d *queuedDisplay) Pointer() ui.Point { return ui.Point{} }
func (d *queuedDisplay) CursorVisible() bool { return d.visible }
func (d *queuedDisplay) SetCursorVisible(v bool) { d.visible = v }

func (d *queuedDisplay) Present(ctx context.Context, draw func(ui.Surface)) error {
	d.frames++
	if d.frames > 100 {
		return errors.New("script did not finish")
	}
	draw(nopSurface{})
	return nil
}

func newTestExperiment(t *testing.T) (*experiment, *session.Store) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ConfigDir = filepath.Join(dir, "Config")
	cfg.LocalDir = filepath.Join(dir, "Local")
	cfg.DataDir = filepath.Join(dir, "Data")
	cfg.UseLogFile = false

	store, err := session.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	id, err := store.CreateParticipant(ctx, "p1", 7, "r", time.Now())
	require.NoError(t, err)
	p, err := store.ParticipantByID(ctx, id)
	require.NoError(t, err)

	m, err := session.NewManager(cfg, store, nil, zap.NewNop())
	require.NoError(t, err)

	st := &session.State{
		RunID:         "run-1",
		Participant:   p,
		Condition:     session.Physical,
		SessionCount:  3,
		SessionNumber: 1,
		ShowPractice:  true,
		Type:          session.TypeTesting,
		Logger:        zap.NewNop(),
		DataDir:       filepath.Join(dir, "Data", "p1_run"),
	}
	require.NoError(t, os.MkdirAll(st.DataDir, 0755))
	e, err := newExperiment(cfg, m, st)
	require.NoError(t, err)
	return e, store
}

func click(p ui.Point) []ui.Event {
	return []ui.Event{ui.PrimaryDown(p.X, p.Y)}
}

func TestExperimentRecordsQuestionnaire(t *testing.T) {
	e, store := newTestExperiment(t)
	assert.Equal(t, "Session 1 of 3", e.title())

	xmin, xmax := e.slider.Extent()
	x := xmin + (xmax-xmin)/4
	y := e.slider.Location().Y

	d := &queuedDisplay{batches: [][]ui.Event{
		click(e.begin.Geometry().Midpoint),
		click(e.rating.Scale().Center(5)),
		// Continue is ignored until the slider has been set
		click(e.next.Geometry().Midpoint),
		{ui.PrimaryDown(x, y)},
		{ui.PrimaryUp(x, y)},
		click(e.next.Geometry().Midpoint),
	}}

	ctx := context.Background()
	require.NoError(t, e.run(ctx, d))
	assert.Empty(t, d.batches)
	assert.False(t, d.visible, "cursor visibility restored")

	p, err := store.ParticipantByUserID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.SessionsCompleted)
	sessions, err := store.CountSessions(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions)

	pos, ok := e.slider.Pos()
	require.True(t, ok)
	assert.InDelta(t, 0.25, pos, 1e-9)

	raw, err := os.ReadFile(filepath.Join(e.state.DataDir, "session_1_questionnaire.yaml"))
	require.NoError(t, err)
	var q questionnaire
	require.NoError(t, yaml.Unmarshal(raw, &q))
	assert.Equal(t, "run-1", q.RunID)
	assert.Equal(t, 1, q.Session)
	assert.Equal(t, 5, q.LikertResponse)
	assert.InDelta(t, 0.25, q.SliderPos, 1e-9)
	assert.NotEmpty(t, q.Completed)
}

func TestExperimentQuit(t *testing.T) {
	e, store := newTestExperiment(t)
	d := &queuedDisplay{batches: [][]ui.Event{
		click(e.begin.Geometry().Midpoint),
		{{Type: ui.EventQuit}},
	}}

	err := e.run(context.Background(), d)
	assert.ErrorIs(t, err, ui.ErrQuit)

	p, err := store.ParticipantByUserID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.SessionsCompleted)
	assert.NoFileExists(t, e.questionnairePath())
}

func TestFeedbackName(t *testing.T) {
	assert.Equal(t, "none", feedbackName(session.FeedbackNone))
	assert.Equal(t, "all_feedback", feedbackName(session.FeedbackAll))
}
