package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OpticalFlyer/tracelab/config"
)

var (
	// ErrNoParticipant is returned when the operator gives up looking for
	// a participant.
	ErrNoParticipant = errors.New("no participant selected")
	// ErrIncompleteReported stops start-up after incomplete participants
	// were written to a report instead of being purged.
	ErrIncompleteReported = errors.New("incomplete participants reported")
)

// Prompter asks the operator questions before the experiment window opens.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
	Confirm(ctx context.Context, question string) (bool, error)
	Notify(ctx context.Context, message string) error
}

// Operator-facing questions.
const (
	QuestionRetry           = "Would you like to try again?"
	QuestionUserID          = "Please enter the participant's user id (leave blank to create a new participant):"
	QuestionNewUserID       = "Choose a user id for the new participant (leave blank to generate one):"
	QuestionHandedness      = "Is the participant right- or left-handed? (r/l/a)"
	QuestionCondition       = "Experimental condition (e.g. PP-VR-5):"
	QuestionAssignFigureSet = "Would you like to assign a figure set to this participant?"
	QuestionFigureSet       = "Figure set name:"
	QuestionPurge           = "Some participants were never fully initialized. Purge them (y) or write a report and quit (n)?"
	MessageNoUser           = "No participant with that user id was found."
	MessageUnknownFigureSet = "No figure set with that name exists."
	MessageGoodbye          = "Thanks for participating!"
)

// State describes the session being run. It is passed explicitly to
// everything that needs to know about the participant.
type State struct {
	RunID       string
	Participant *Participant

	Condition     Condition
	Feedback      Feedback
	SessionCount  int
	SessionNumber int
	FigureSetName string
	Figures       []Figure

	ShowPractice    bool
	TrainingSession bool
	Type            Type

	// DataDir is the participant's data folder, created by Init.
	DataDir string
	// Logger writes to the console and, when enabled, the participant log.
	Logger *zap.Logger

	closeLog func() error
}

// Close releases the participant log file.
func (s *State) Close() error {
	if s.closeLog == nil {
		return nil
	}
	err := s.closeLog()
	s.closeLog = nil
	return err
}

// Manager runs the start and end of a session against the participant
// store.
type Manager struct {
	cfg        *config.Config
	store      *Store
	prompt     Prompter
	logger     *zap.Logger
	figureSets FigureSets

	now   func() time.Time
	newID func() string
}

// NewManager loads figure sets and prepares a manager.
func NewManager(cfg *config.Config, store *Store, prompt Prompter, logger *zap.Logger) (*Manager, error) {
	sets, err := LoadFigureSets(cfg.FigureSetsFile(), cfg.FigureSetsLocalFile(), cfg.IgnoreLocalOverrides)
	if err != nil {
		return nil, fmt.Errorf("failed to load figure sets: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		cfg:        cfg,
		store:      store,
		prompt:     prompt,
		logger:     logger,
		figureSets: sets,
		now:        time.Now,
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// FigureSets returns the registered figure sets.
func (m *Manager) FigureSets() FigureSets {
	return m.figureSets
}

// Init deals with incomplete participants, identifies or creates the
// participant, restores their progress and prepares the session.
func (m *Manager) Init(ctx context.Context) (*State, error) {
	incomplete, err := m.store.FindIncomplete(ctx)
	if err != nil {
		return nil, err
	}
	if len(incomplete) > 0 {
		purge, err := m.prompt.Confirm(ctx, QuestionPurge)
		if err != nil {
			return nil, err
		}
		if !purge {
			path, err := m.Report(ctx, incomplete)
			if err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: see %s", ErrIncompleteReported, path)
		}
		if err := m.Purge(ctx, incomplete); err != nil {
			return nil, err
		}
	}

	dataDir := m.cfg.DataDir
	userID := ""
	if m.cfg.DevelopmentMode {
		dataDir = filepath.Join(dataDir, "devmode")
	} else {
		userID, err = m.prompt.Ask(ctx, QuestionUserID)
		if err != nil {
			return nil, err
		}
	}

	p, err := m.findParticipant(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}

	st, err := m.restore(p)
	if err != nil {
		return nil, err
	}
	st.DataDir = participantDir(dataDir, p.UserID, p.Created)

	if err := m.prepare(ctx, st); err != nil {
		st.Close()
		return nil, err
	}
	if err := os.MkdirAll(st.DataDir, 0755); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to create participant data dir: %w", err)
	}
	return st, nil
}

// participantDir is the data folder of one participant, named after their
// user id and creation time.
func participantDir(base, userID, created string) string {
	return filepath.Join(base, userID+"_"+created)
}

func (m *Manager) findParticipant(ctx context.Context, userID string) (*Participant, error) {
	for {
		if userID == "" {
			var err error
			if userID, err = m.createParticipant(ctx); err != nil {
				return nil, err
			}
		}

		p, err := m.store.ParticipantByUserID(ctx, userID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		m.logger.Warn("Unknown user id", zap.String("user_id", userID))
		retry, err := m.prompt.Confirm(ctx, MessageNoUser+" "+QuestionRetry)
		if err != nil {
			return nil, err
		}
		if !retry {
			if err := m.prompt.Notify(ctx, MessageGoodbye); err != nil {
				return nil, err
			}
			return nil, ErrNoParticipant
		}
		if userID, err = m.prompt.Ask(ctx, QuestionUserID); err != nil {
			return nil, err
		}
		userID = strings.TrimSpace(userID)
	}
}

// createParticipant collects the details of a new participant and returns
// their user id.
func (m *Manager) createParticipant(ctx context.Context) (string, error) {
	userID := ""
	if m.cfg.DevelopmentMode {
		userID = "dev-" + m.newID()[:8]
	} else {
		answer, err := m.prompt.Ask(ctx, QuestionNewUserID)
		if err != nil {
			return "", err
		}
		userID = strings.TrimSpace(answer)
		if userID == "" {
			userID = m.newID()
		}
	}

	handedness := "r"
	if !m.cfg.DevelopmentMode {
		answer, err := m.prompt.Ask(ctx, QuestionHandedness)
		if err != nil {
			return "", err
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "" {
			handedness = a[:1]
		}
	}

	now := m.now()
	id, err := m.store.CreateParticipant(ctx, userID, now.UnixNano(), handedness, now)
	if err != nil {
		return "", err
	}
	m.logger.Info("Created participant", zap.Int64("id", id), zap.String("user_id", userID))

	assignment, err := m.askCondition(ctx)
	if err != nil {
		return "", err
	}
	if err := m.store.UpdateCondition(ctx, id, assignment); err != nil {
		return "", err
	}

	assign, err := m.prompt.Confirm(ctx, QuestionAssignFigureSet)
	if err != nil {
		return "", err
	}
	if assign {
		name, err := m.askFigureSet(ctx)
		if err != nil {
			return "", err
		}
		if err := m.store.AssignFigureSet(ctx, id, name); err != nil {
			return "", err
		}
	}
	return userID, nil
}

func (m *Manager) askCondition(ctx context.Context) (Assignment, error) {
	for {
		answer, err := m.prompt.Ask(ctx, QuestionCondition)
		if err != nil {
			return Assignment{}, err
		}
		a, err := ParseCondition(answer)
		if err == nil {
			return a, nil
		}
		var ce *ConditionError
		if !errors.As(err, &ce) {
			return Assignment{}, err
		}
		if err := m.prompt.Notify(ctx, ce.Error()); err != nil {
			return Assignment{}, err
		}
	}
}

// askFigureSet returns a registered figure set name, or "" if the operator
// gives up.
func (m *Manager) askFigureSet(ctx context.Context) (string, error) {
	for {
		name, err := m.prompt.Ask(ctx, QuestionFigureSet)
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(name)
		if _, ok := m.figureSets[name]; ok {
			return name, nil
		}
		retry, err := m.prompt.Confirm(ctx, MessageUnknownFigureSet+" "+QuestionRetry)
		if err != nil {
			return "", err
		}
		if !retry {
			return "", nil
		}
	}
}

// restore turns a stored participant into the state of their next session.
func (m *Manager) restore(p *Participant) (*State, error) {
	st := &State{
		RunID:         m.newID(),
		Participant:   p,
		Condition:     p.Condition,
		Feedback:      p.Feedback,
		SessionCount:  p.SessionCount,
		SessionNumber: p.SessionsCompleted + 1,
		FigureSetName: p.FigureSet,
		Logger:        m.logger,
	}

	final := Condition(m.cfg.FinalCondition)
	switch {
	case st.SessionNumber == 1:
		st.ShowPractice = true
	case st.SessionCount > 1 && st.SessionNumber == st.SessionCount && st.Condition != final:
		// The final session of a multi-session study runs in the final
		// condition with its practice display.
		st.Condition = final
		st.ShowPractice = true
	}

	if m.cfg.UseLogFile {
		if err := m.openLog(st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (m *Manager) openLog(st *State) error {
	dir := m.cfg.LogDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("P%s_log_f.txt", st.Participant.UserID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open participant log: %w", err)
	}
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(f),
		zapcore.DebugLevel,
	)
	st.Logger = zap.New(zapcore.NewTee(m.logger.Core(), fileCore))
	st.closeLog = func() error {
		_ = st.Logger.Sync()
		return f.Close()
	}
	return nil
}

// prepare loads the figure set, sets the session type, clears trials left
// over from an earlier attempt at this session and marks the participant
// initialized.
func (m *Manager) prepare(ctx context.Context, st *State) error {
	if st.FigureSetName != "" {
		figures, err := m.figureSets.Resolve(st.FigureSetName, m.cfg.DefaultFigures, m.cfg.FiguresDir())
		if err != nil {
			var missing *MissingFigureError
			if errors.As(err, &missing) {
				_ = m.prompt.Notify(ctx, missing.Error())
			}
			return err
		}
		st.Figures = figures
	}

	if m.cfg.CaptureFiguresMode {
		st.TrainingSession = true
		st.Type = TypeFigureCapture
	} else {
		n, err := m.store.DeleteSessionTrials(ctx, st.Participant.ID, st.SessionNumber)
		if err != nil {
			return err
		}
		if n > 0 {
			st.Logger.Info("Discarded trials from an earlier attempt",
				zap.Int("session", st.SessionNumber), zap.Int64("trials", n))
		}
		st.TrainingSession = !m.cfg.IsTestSession(st.SessionNumber)
		st.Type = TypeTesting
		if st.TrainingSession {
			st.Type = TypeTraining
		}
	}

	if err := m.store.SetInitialized(ctx, st.Participant.ID); err != nil {
		return err
	}
	m.logHeader(st)
	return nil
}

func (m *Manager) logHeader(st *State) {
	st.Logger.Info("Session header",
		zap.String("run_id", st.RunID),
		zap.String("user_id", st.Participant.UserID),
		zap.Int("session", st.SessionNumber),
		zap.Int("session_count", st.SessionCount),
		zap.String("exp_condition", string(st.Condition)),
		zap.String("feedback", string(st.Feedback)),
		zap.String("figure_set", st.FigureSetName),
		zap.Bool("practice_session", st.ShowPractice),
		zap.String("session_type", string(st.Type)),
	)
}

// Complete records the end-of-session questionnaire and advances the
// participant's progress.
func (m *Manager) Complete(ctx context.Context, st *State, rec SessionRecord) error {
	rec.ParticipantID = st.Participant.ID
	rec.SessionNumber = st.SessionNumber
	rec.RunID = st.RunID
	rec.Condition = st.Condition
	rec.Feedback = st.Feedback
	if rec.Completed.IsZero() {
		rec.Completed = m.now()
	}

	if err := m.store.RecordSession(ctx, rec); err != nil {
		return err
	}
	if err := m.store.UpdateSessionsCompleted(ctx, st.Participant.ID, st.SessionNumber); err != nil {
		return err
	}
	st.Participant.SessionsCompleted = st.SessionNumber
	st.Logger.Info("Session complete",
		zap.Int("session", st.SessionNumber),
		zap.Int("likert", rec.LikertResponse),
		zap.Duration("likert_rt", rec.LikertRT),
		zap.Float64("slider", rec.SliderPos))
	return nil
}
