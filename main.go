package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/OpticalFlyer/tracelab/config"
	"github.com/OpticalFlyer/tracelab/prompt"
	"github.com/OpticalFlyer/tracelab/session"
	"github.com/OpticalFlyer/tracelab/ui"
)

var (
	configPath string
	verbose    bool
	purge      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tracelab",
	Short: "TraceLab - motor learning experiment runner",
	Long: `TraceLab runs figure tracing sessions for motor learning studies.

Participants are stored in a local SQLite database. Each run restores a
participant, shows the session and collects the end-of-session ratings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a session for a participant",
	Args:  cobra.NoArgs,
	RunE:  runSession,
}

var incompleteCmd = &cobra.Command{
	Use:   "incomplete",
	Short: "Report or purge participants that were never fully initialized",
	Args:  cobra.NoArgs,
	RunE:  handleIncomplete,
}

var conditionCmd = &cobra.Command{
	Use:   "condition <id>",
	Short: "Check an experimental condition string such as PP-VR-5",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := session.ParseCondition(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "condition: %s\nfeedback: %s\nsessions: %d\n",
			a.Condition, feedbackName(a.Feedback), a.SessionCount)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ExpAssets/Config/params.yaml", "Experiment parameter file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	incompleteCmd.Flags().BoolVar(&purge, "purge", false, "Delete incomplete participants instead of reporting them")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(incompleteCmd)
	rootCmd.AddCommand(conditionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func feedbackName(f session.Feedback) string {
	if f == session.FeedbackNone {
		return "none"
	}
	return string(f)
}

// openManager loads the parameters and opens the participant database.
func openManager() (*config.Config, *session.Store, *session.Manager, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := session.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, err
	}
	m, err := session.NewManager(cfg, store, prompt.NewTerminal(), logger)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	return cfg, store, m, nil
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, store, m, err := openManager()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	st, err := m.Init(ctx)
	switch {
	case errors.Is(err, session.ErrIncompleteReported):
		logger.Info("Incomplete participants reported, exiting")
		return nil
	case errors.Is(err, session.ErrNoParticipant):
		return nil
	case err != nil:
		return err
	}
	defer st.Close()

	fonts, err := ui.NewFonts(ui.DefaultFontStyles())
	if err != nil {
		return err
	}
	win := NewWindow(cfg, fonts, st.Logger)
	exp, err := newExperiment(cfg, m, st)
	if err != nil {
		return err
	}
	err = win.Run(ctx, exp.run)
	if errors.Is(err, ui.ErrQuit) {
		st.Logger.Info("Session aborted by participant", zap.Int("session", st.SessionNumber))
		return nil
	}
	return err
}

func handleIncomplete(cmd *cobra.Command, args []string) error {
	_, store, m, err := openManager()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	incomplete, err := store.FindIncomplete(ctx)
	if err != nil {
		return err
	}
	if len(incomplete) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No incomplete participants.")
		return nil
	}
	if purge {
		if err := m.Purge(ctx, incomplete); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %d participant(s).\n", len(incomplete))
		return nil
	}
	path, err := m.Report(ctx, incomplete)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
