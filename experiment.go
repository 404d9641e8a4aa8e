package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/OpticalFlyer/tracelab/config"
	"github.com/OpticalFlyer/tracelab/session"
	"github.com/OpticalFlyer/tracelab/ui"
)

const (
	confidenceQuestion = "How confident are you that you could reproduce the figures?"
	sliderTicks        = 5
)

// label is a line of static text.
type label struct {
	msg ui.Message
	at  ui.Point
	reg ui.Registration
}

func (l *label) Draw(s ui.Surface, pointer ui.Point) {
	s.Text(l.msg, l.at, l.reg)
}

func (l *label) Listen(events []ui.Event) bool {
	return false
}

// experiment is the in-window part of a session: the start screen and the
// end-of-session questionnaire.
type experiment struct {
	cfg     *config.Config
	manager *session.Manager
	state   *session.State
	logger  *zap.Logger
	now     func() time.Time

	intro      *ui.Screen
	begin      *ui.Button
	rating     *ui.LikertPrompt
	confidence *ui.Screen
	slider     *ui.Slider
	next       *ui.Button
}

func newExperiment(cfg *config.Config, m *session.Manager, st *session.State) (*experiment, error) {
	e := &experiment{
		cfg:     cfg,
		manager: m,
		state:   st,
		logger:  st.Logger,
		now:     time.Now,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if err := e.layout(); err != nil {
		return nil, fmt.Errorf("failed to lay out session screens: %w", err)
	}
	return e, nil
}

func (e *experiment) layout() error {
	w, h := float64(e.cfg.ScreenWidth), float64(e.cfg.ScreenHeight)
	mid := ui.Point{X: math.Floor(w / 2), Y: math.Floor(h / 2)}
	fg := e.cfg.DefaultColor.RGBA()
	aes := ui.NewAesthetics(ui.Style{
		Color:     &fg,
		Thickness: ui.Int(2),
	})
	bg := e.cfg.BackgroundColor.RGBA()

	var err error
	e.begin, err = ui.NewButton(ui.Message{Text: "Begin"}, 200, 60, aes, ui.TopCenter,
		ui.Point{X: mid.X, Y: mid.Y + 60})
	if err != nil {
		return err
	}
	e.intro = ui.NewScreen()
	e.intro.Background = bg
	e.intro.Add(&label{
		msg: ui.Message{Text: e.title(), Style: "title"},
		at:  ui.Point{X: mid.X, Y: mid.Y - 40},
		reg: ui.BottomCenter,
	})
	if e.state.ShowPractice {
		e.intro.Add(&label{
			msg: ui.Message{Text: "This session starts with a practice round."},
			at:  mid,
			reg: ui.Center,
		})
	}
	e.intro.Add(e.begin)

	lc := e.cfg.Likert
	e.rating, err = ui.NewLikertPrompt(lc.First, lc.Last, ui.Message{Text: lc.Question},
		math.Floor(w*lc.Width), mid, aes)
	if err != nil {
		return err
	}
	e.rating.Background = bg

	e.slider, err = ui.NewSlider(math.Floor(w*0.6), ui.SliderOptions{Ticks: sliderTicks}, mid)
	if err != nil {
		return err
	}
	e.next, err = ui.NewButton(ui.Message{Text: "Continue"}, 200, 60, aes, ui.TopCenter,
		ui.Point{X: mid.X, Y: mid.Y + 100})
	if err != nil {
		return err
	}
	e.confidence = ui.NewScreen()
	e.confidence.Background = bg
	e.confidence.Add(&label{
		msg: ui.Message{Text: confidenceQuestion},
		at:  ui.Point{X: mid.X, Y: mid.Y - 80},
		reg: ui.BottomCenter,
	})
	e.confidence.Add(e.slider)
	e.confidence.Add(e.next)
	return nil
}

func (e *experiment) title() string {
	if e.state.SessionCount > 0 {
		return fmt.Sprintf("Session %d of %d", e.state.SessionNumber, e.state.SessionCount)
	}
	return fmt.Sprintf("Session %d", e.state.SessionNumber)
}

// run is the experiment script. It runs on its own goroutine and drives
// the display one frame at a time.
func (e *experiment) run(ctx context.Context, d ui.Display) error {
	e.logger.Info("Session started",
		zap.Int("session", e.state.SessionNumber),
		zap.String("type", string(e.state.Type)))

	err := e.intro.RunUntil(ctx, d, func(w ui.Widget) bool { return w == e.begin })
	if err != nil {
		return err
	}

	resp, err := e.rating.Collect(ctx, d)
	if err != nil {
		return err
	}
	e.logger.Debug("Likert response", zap.Int("value", resp.Value), zap.Duration("rt", resp.RT))

	err = e.confidence.RunUntil(ctx, d, func(w ui.Widget) bool {
		_, set := e.slider.Pos()
		return w == e.next && set
	})
	if err != nil {
		return err
	}
	pos, _ := e.slider.Pos()

	rec := session.SessionRecord{
		LikertResponse: resp.Value,
		LikertRT:       resp.RT,
		SliderPos:      pos,
		Completed:      e.now(),
	}
	if err := e.saveQuestionnaire(rec); err != nil {
		return err
	}
	return e.manager.Complete(ctx, e.state, rec)
}

// questionnaire is the per-session answer file written to the participant's
// data folder.
type questionnaire struct {
	RunID          string  `yaml:"run_id"`
	Session        int     `yaml:"session"`
	LikertResponse int     `yaml:"likert_response"`
	LikertRTMs     int64   `yaml:"likert_rt_ms"`
	SliderPos      float64 `yaml:"slider_pos"`
	Completed      string  `yaml:"completed"`
}

func (e *experiment) questionnairePath() string {
	return filepath.Join(e.state.DataDir,
		fmt.Sprintf("session_%d_questionnaire.yaml", e.state.SessionNumber))
}

func (e *experiment) saveQuestionnaire(rec session.SessionRecord) error {
	out, err := yaml.Marshal(questionnaire{
		RunID:          e.state.RunID,
		Session:        e.state.SessionNumber,
		LikertResponse: rec.LikertResponse,
		LikertRTMs:     rec.LikertRT.Milliseconds(),
		SliderPos:      rec.SliderPos,
		Completed:      rec.Completed.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to encode questionnaire: %w", err)
	}
	path := e.questionnairePath()
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write questionnaire: %w", err)
	}
	e.logger.Info("Questionnaire saved", zap.String("path", path))
	return nil
}
