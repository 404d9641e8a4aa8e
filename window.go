package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/OpticalFlyer/tracelab/config"
	"github.com/OpticalFlyer/tracelab/ui"
)

// ErrWindowClosed is returned by Present once the game loop has stopped.
var ErrWindowClosed = errors.New("window closed")

type frame struct {
	draw func(ui.Surface)
	done chan struct{}
}

// Window implements ebiten.Game and ui.Display. The experiment script runs
// on its own goroutine and hands frames to the game loop through Present.
type Window struct {
	width, height int
	background    color.RGBA
	fonts         *ui.Fonts
	logger        *zap.Logger
	debugMode     bool

	mu            sync.Mutex
	events        []ui.Event
	pointer       ui.Point
	cursorVisible bool
	cursorDirty   bool

	frames   chan frame
	closed   chan struct{}
	finished chan error
	// buffer holds the last presented frame
	buffer *ebiten.Image

	scriptErr  error
	scriptDone bool

	// Touch state, only touched from Update
	lastTouch map[ebiten.TouchID]ui.Point
}

// NewWindow creates a window sized from the parameters.
func NewWindow(cfg *config.Config, fonts *ui.Fonts, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Window{
		width:         cfg.ScreenWidth,
		height:        cfg.ScreenHeight,
		background:    cfg.BackgroundColor.RGBA(),
		fonts:         fonts,
		logger:        logger,
		debugMode:     cfg.Debug,
		cursorVisible: true,
		frames:        make(chan frame),
		closed:        make(chan struct{}),
		finished:      make(chan error, 1),
	}

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle(cfg.ProjectName)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(true)
	return w
}

// Run starts script on its own goroutine and runs the game loop until the
// script returns. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context, script func(context.Context, ui.Display) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		w.finished <- script(ctx, w)
	}()

	err := ebiten.RunGame(w)
	close(w.closed)
	cancel()
	w.logger.Debug("Game loop stopped", zap.Bool("script_done", w.scriptDone))

	if !w.scriptDone {
		w.scriptErr = <-w.finished
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return w.scriptErr
}

func (w *Window) Update() error {
	select {
	case err := <-w.finished:
		w.scriptErr = err
		w.scriptDone = true
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		w.debugMode = !w.debugMode
	}

	var batch []ui.Event
	x, y := ebiten.CursorPosition()
	pos := ui.Point{X: float64(x), Y: float64(y)}

	if ebiten.IsWindowBeingClosed() ||
		(ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyQ)) {
		batch = append(batch, ui.Event{Type: ui.EventQuit})
	}

	for b, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb) {
			batch = append(batch, ui.Event{Type: ui.EventButtonDown, Button: ui.MouseButton(b), Pos: pos})
		}
		if inpututil.IsMouseButtonJustReleased(mb) {
			batch = append(batch, ui.Event{Type: ui.EventButtonUp, Button: ui.MouseButton(b), Pos: pos})
		}
	}

	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		batch = append(batch, ui.Event{Type: ui.EventKeyDown, Key: k.String(), Pos: pos})
	}

	touchEvents, touchPos, touching := w.handleTouchEvents()
	batch = append(batch, touchEvents...)
	if touching {
		pos = touchPos
	}

	w.mu.Lock()
	w.events = append(w.events, batch...)
	w.pointer = pos
	if w.cursorDirty {
		if w.cursorVisible {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeHidden)
		}
		w.cursorDirty = false
	}
	w.mu.Unlock()
	return nil
}

// Indexed by ui.MouseButton
var mouseButtons = []ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.buffer == nil {
		w.buffer = ebiten.NewImage(w.width, w.height)
		w.buffer.Fill(w.background)
	}

	select {
	case f := <-w.frames:
		f.draw(ui.NewCanvas(w.buffer, w.fonts))
		close(f.done)
	default:
	}
	screen.DrawImage(w.buffer, nil)

	if w.debugMode {
		p := w.Pointer()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f\nFPS: %0.2f\nPointer: %.0f,%.0f",
			ebiten.ActualTPS(), ebiten.ActualFPS(), p.X, p.Y))
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

// Pump returns and clears the events gathered since the previous call.
func (w *Window) Pump() []ui.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := w.events
	w.events = nil
	return events
}

// Pointer returns the last cursor or touch position.
func (w *Window) Pointer() ui.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pointer
}

func (w *Window) CursorVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorVisible
}

// SetCursorVisible takes effect on the next tick.
func (w *Window) SetCursorVisible(visible bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cursorVisible != visible {
		w.cursorVisible = visible
		w.cursorDirty = true
	}
}

// Present queues draw for the next frame and waits until it has been drawn.
// Once the game loop has taken the frame, Present waits for it to finish
// even if ctx is cancelled, so draw never outlives the call.
func (w *Window) Present(ctx context.Context, draw func(ui.Surface)) error {
	f := frame{draw: draw, done: make(chan struct{})}
	select {
	case w.frames <- f:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.closed:
		return ErrWindowClosed
	}
	return w.awaitFrame(f)
}

func (w *Window) awaitFrame(f frame) error {
	select {
	case <-f.done:
		return nil
	case <-w.closed:
		return ErrWindowClosed
	}
}
