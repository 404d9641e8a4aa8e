package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no participant matches a lookup.
var ErrNotFound = errors.New("participant not found")

// TimeFormat is how creation times are stored and used in data folder
// names.
const TimeFormat = "2006-01-02 15:04:05"

// Participant is a row of the participants table.
type Participant struct {
	ID                int64
	UserID            string
	RandomSeed        int64
	Condition         Condition
	Feedback          Feedback
	SessionCount      int
	SessionsCompleted int
	FigureSet         string
	Handedness        string
	Created           string
	Initialized       bool
}

// Incomplete identifies a participant whose first session never finished
// initializing.
type Incomplete struct {
	ID      int64
	UserID  string
	Created string
}

// SessionRecord is a row of the sessions table, written when a session ends.
type SessionRecord struct {
	ParticipantID  int64
	SessionNumber  int
	RunID          string
	Condition      Condition
	Feedback       Feedback
	LikertResponse int
	LikertRT       time.Duration
	SliderPos      float64
	Completed      time.Time
}

// Store manages the participant database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps in-memory databases alive and serialises writes.
	db.SetMaxOpenConns(1)

	store := &Store{
		db:     db,
		dbPath: path,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS participants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL UNIQUE,
		random_seed INTEGER NOT NULL,
		exp_condition TEXT NOT NULL DEFAULT '',
		feedback_type TEXT NOT NULL DEFAULT '',
		session_count INTEGER NOT NULL DEFAULT 0,
		sessions_completed INTEGER NOT NULL DEFAULT 0,
		figure_set TEXT NOT NULL DEFAULT '',
		handedness TEXT NOT NULL DEFAULT '',
		created TEXT NOT NULL,
		initialized INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		participant_id INTEGER NOT NULL,
		session_number INTEGER NOT NULL,
		run_id TEXT NOT NULL,
		exp_condition TEXT NOT NULL,
		feedback_type TEXT NOT NULL,
		likert_response INTEGER NOT NULL,
		likert_rt_ms INTEGER NOT NULL,
		slider_pos REAL NOT NULL,
		completed TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_participant ON sessions(participant_id);

	CREATE TABLE IF NOT EXISTS trials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		participant_id INTEGER NOT NULL,
		session_num INTEGER NOT NULL,
		block_num INTEGER NOT NULL,
		trial_num INTEGER NOT NULL,
		figure_name TEXT NOT NULL,
		mt REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_trials_participant ON trials(participant_id, session_num);
	`
	_, err := s.db.Exec(schema)
	return err
}

const participantColumns = `id, user_id, random_seed, exp_condition, feedback_type,
	session_count, sessions_completed, figure_set, handedness, created, initialized`

func scanParticipant(row *sql.Row) (*Participant, error) {
	var p Participant
	var cond, fb string
	err := row.Scan(&p.ID, &p.UserID, &p.RandomSeed, &cond, &fb,
		&p.SessionCount, &p.SessionsCompleted, &p.FigureSet, &p.Handedness, &p.Created, &p.Initialized)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Condition = Condition(cond)
	p.Feedback = Feedback(fb)
	return &p, nil
}

// CreateParticipant inserts a participant and returns its row id.
func (s *Store) CreateParticipant(ctx context.Context, userID string, seed int64, handedness string, created time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (user_id, random_seed, handedness, created) VALUES (?, ?, ?, ?)",
		userID, seed, handedness, created.Format(TimeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to create participant %q: %w", userID, err)
	}
	return res.LastInsertId()
}

// ParticipantByUserID looks a participant up by the id they were given.
func (s *Store) ParticipantByUserID(ctx context.Context, userID string) (*Participant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE user_id = ?", userID)
	p, err := scanParticipant(row)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", userID, err)
	}
	return p, nil
}

// ParticipantByID looks a participant up by row id.
func (s *Store) ParticipantByID(ctx context.Context, id int64) (*Participant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?", id)
	p, err := scanParticipant(row)
	if err != nil {
		return nil, fmt.Errorf("participant %d: %w", id, err)
	}
	return p, nil
}

// UpdateCondition stores a parsed condition identifier.
func (s *Store) UpdateCondition(ctx context.Context, id int64, a Assignment) error {
	return s.exec(ctx, "update condition",
		"UPDATE participants SET exp_condition = ?, session_count = ?, feedback_type = ? WHERE id = ?",
		string(a.Condition), a.SessionCount, string(a.Feedback), id)
}

// AssignFigureSet records the figure set used for a participant.
func (s *Store) AssignFigureSet(ctx context.Context, id int64, name string) error {
	return s.exec(ctx, "assign figure set",
		"UPDATE participants SET figure_set = ? WHERE id = ?", name, id)
}

// SetInitialized marks a participant as fully set up.
func (s *Store) SetInitialized(ctx context.Context, id int64) error {
	return s.exec(ctx, "set initialized",
		"UPDATE participants SET initialized = 1 WHERE id = ?", id)
}

// UpdateSessionsCompleted records how many sessions a participant finished.
func (s *Store) UpdateSessionsCompleted(ctx context.Context, id int64, n int) error {
	return s.exec(ctx, "update sessions completed",
		"UPDATE participants SET sessions_completed = ? WHERE id = ?", n, id)
}

// DeleteSessionTrials removes trials already recorded for a session so it
// can be run again. It returns the number of rows removed.
func (s *Store) DeleteSessionTrials(ctx context.Context, id int64, session int) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM trials WHERE participant_id = ? AND session_num = ?", id, session)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trials: %w", err)
	}
	return res.RowsAffected()
}

// FindIncomplete lists participants that were never marked initialized.
func (s *Store) FindIncomplete(ctx context.Context) ([]Incomplete, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, created FROM participants WHERE initialized = 0 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to find incomplete participants: %w", err)
	}
	defer rows.Close()

	var out []Incomplete
	for rows.Next() {
		var p Incomplete
		if err := rows.Scan(&p.ID, &p.UserID, &p.Created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PurgeParticipant deletes a participant with all of their sessions and
// trials in one transaction.
func (s *Store) PurgeParticipant(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin purge: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM participants WHERE id = ?",
		"DELETE FROM sessions WHERE participant_id = ?",
		"DELETE FROM trials WHERE participant_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("failed to purge participant %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// CountSessions returns how many session rows a participant has.
func (s *Store) CountSessions(ctx context.Context, id int64) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM sessions WHERE participant_id = ?", id)
}

// CountTrials returns how many trial rows a participant has.
func (s *Store) CountTrials(ctx context.Context, id int64) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM trials WHERE participant_id = ?", id)
}

// RecordSession stores the end-of-session questionnaire.
func (s *Store) RecordSession(ctx context.Context, r SessionRecord) error {
	return s.exec(ctx, "record session",
		`INSERT INTO sessions (participant_id, session_number, run_id, exp_condition, feedback_type,
			likert_response, likert_rt_ms, slider_pos, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ParticipantID, r.SessionNumber, r.RunID, string(r.Condition), string(r.Feedback),
		r.LikertResponse, r.LikertRT.Milliseconds(), r.SliderPos, r.Completed.Format(TimeFormat))
}

func (s *Store) exec(ctx context.Context, what, query string, args ...interface{}) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}
