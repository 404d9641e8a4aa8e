package session

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

var reportHeader = []string{
	"user_id", "random_seed", "exp_condition", "feedback_type", "session_count",
	"sessions_completed", "figure_set", "handedness", "created", "session_rows", "trial_rows",
}

// Purge deletes incomplete participants, their rows and their data folders.
func (m *Manager) Purge(ctx context.Context, incomplete []Incomplete) error {
	for _, p := range incomplete {
		if err := m.store.PurgeParticipant(ctx, p.ID); err != nil {
			return err
		}
		dir := participantDir(m.cfg.DataDir, p.UserID, p.Created)
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("Could not remove participant data", zap.String("dir", dir), zap.Error(err))
		}
		m.logger.Info("Purged incomplete participant",
			zap.Int64("id", p.ID), zap.String("user_id", p.UserID))
	}
	return nil
}

// Report writes incomplete participants to a tab separated file in the
// local directory and returns its path.
func (m *Manager) Report(ctx context.Context, incomplete []Incomplete) (string, error) {
	if err := os.MkdirAll(m.cfg.LocalDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create local dir: %w", err)
	}
	path := filepath.Join(m.cfg.LocalDir,
		"uninitialized_users_"+m.now().Format("2006-01-02_15-04-05")+".tsv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(reportHeader); err != nil {
		return "", err
	}
	for _, inc := range incomplete {
		p, err := m.store.ParticipantByID(ctx, inc.ID)
		if err != nil {
			return "", err
		}
		sessions, err := m.store.CountSessions(ctx, inc.ID)
		if err != nil {
			return "", err
		}
		trials, err := m.store.CountTrials(ctx, inc.ID)
		if err != nil {
			return "", err
		}
		if err := w.Write([]string{
			p.UserID,
			strconv.FormatInt(p.RandomSeed, 10),
			string(p.Condition),
			string(p.Feedback),
			strconv.Itoa(p.SessionCount),
			strconv.Itoa(p.SessionsCompleted),
			p.FigureSet,
			p.Handedness,
			p.Created,
			strconv.Itoa(sessions),
			strconv.Itoa(trials),
		}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	m.logger.Info("Reported incomplete participants",
		zap.String("path", path), zap.Int("count", len(incomplete)))
	return path, nil
}
