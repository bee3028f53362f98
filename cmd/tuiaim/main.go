// Package main provides the CLI entrypoint for tuiaim.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/tuiaim/internal/asset"
	"github.com/verte-zerg/tuiaim/internal/config"
	"github.com/verte-zerg/tuiaim/internal/layout"
	"github.com/verte-zerg/tuiaim/internal/level"
	"github.com/verte-zerg/tuiaim/internal/model"
	"github.com/verte-zerg/tuiaim/internal/prompt"
	"github.com/verte-zerg/tuiaim/internal/recoil"
	"github.com/verte-zerg/tuiaim/internal/score"
	"github.com/verte-zerg/tuiaim/internal/stats"
	"github.com/verte-zerg/tuiaim/internal/statsui"
	"github.com/verte-zerg/tuiaim/internal/store"
	"github.com/verte-zerg/tuiaim/internal/trainer"
	"github.com/verte-zerg/tuiaim/internal/tui"
	"github.com/verte-zerg/tuiaim/internal/window"
)

const (
	defaultLevels       = 100
	defaultFPS          = 60
	defaultTopScores    = 10
	defaultCurveWindow  = 5
	defaultScoreBackend = config.BackendJSON
)

var (
	trainDir          string
	trainUser         string
	trainLevels       int
	trainDiameter     float64
	trainShake        float64
	trainFPS          int
	trainWindow       bool
	trainScoreBackend string
	trainSeed         int64

	scoresTop     int
	scoresBackend string

	historyUser        string
	historyLast        int
	historyCurveWindow int
	historyPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiaim",
		Short:         "Recoil-control aim trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTrainCmd,
	}

	rootCmd.Flags().StringVar(&trainDir, "dir", "", "directory of reward images")
	rootCmd.Flags().StringVar(&trainUser, "user", "", "player name (prompted when empty)")
	rootCmd.Flags().IntVar(&trainLevels, "levels", defaultLevels, "number of levels")
	rootCmd.Flags().Float64Var(&trainDiameter, "diameter", level.DefaultDiameter, "tolerance radius of the first level")
	rootCmd.Flags().Float64Var(&trainShake, "shake", recoil.DefaultShake, "recoil amplification")
	rootCmd.Flags().IntVar(&trainFPS, "fps", defaultFPS, "frames per second")
	rootCmd.Flags().BoolVar(&trainWindow, "window", displayAvailable(), "open a desktop window (default when a display is available)")
	rootCmd.Flags().StringVar(&trainScoreBackend, "score-backend", defaultScoreBackend, "score store (json|sqlite)")
	rootCmd.Flags().Int64Var(&trainSeed, "seed", 0, "random seed (0 uses the clock)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newAssetsCmd())

	return rootCmd
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("%v; using defaults\n", err)
		fileCfg = config.FileConfig{}
	}
	applyStringConfig(cmd, "dir", &trainDir, fileCfg.Training.Dir)
	applyStringConfig(cmd, "user", &trainUser, fileCfg.Training.User)
	applyIntConfig(cmd, "levels", &trainLevels, fileCfg.Training.Levels)
	applyFloatConfig(cmd, "diameter", &trainDiameter, fileCfg.Training.Diameter)
	applyFloatConfig(cmd, "shake", &trainShake, fileCfg.Training.Shake)
	applyIntConfig(cmd, "fps", &trainFPS, fileCfg.Training.FPS)
	applyBoolConfig(cmd, "window", &trainWindow, fileCfg.Training.Window)
	applyStringConfig(cmd, "score-backend", &trainScoreBackend, fileCfg.Storage.ScoreBackend)

	diameter, ok := config.ResolveDiameter(trainDiameter, level.DefaultDiameter)
	if !ok {
		logErrf("invalid diameter %g; using %g\n", trainDiameter, diameter)
	}

	cfg := model.Config{
		Dir:          strings.TrimSpace(trainDir),
		User:         strings.TrimSpace(trainUser),
		Levels:       trainLevels,
		Diameter:     diameter,
		Shake:        trainShake,
		FPS:          trainFPS,
		Seed:         trainSeed,
		Window:       trainWindow,
		ScoreBackend: strings.ToLower(strings.TrimSpace(trainScoreBackend)),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	if cfg.User == "" {
		name, err := prompt.AskName(tea.WithAltScreen())
		if err != nil {
			logErrf("%v\n", err)
		}
		cfg.User = name
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if !cfg.Window {
		logFile, err := openLogFile()
		if err != nil {
			logErrf("%v\n", err)
		} else {
			defer func() {
				if cerr := logFile.Close(); cerr != nil {
					// Best-effort close for the log file.
					_ = cerr
				}
			}()
			logger = log.Default()
		}
	}

	ctx := context.Background()
	sess, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sess.close()
	ctrl := sess.ctrl

	startedAt := time.Now()
	if cfg.Window {
		game := window.New(ctx, ctrl, window.Options{FPS: cfg.FPS, Dir: cfg.Dir, Lister: asset.List})
		if err := window.Run(game); err != nil {
			return err
		}
	} else {
		m := tui.NewModel(ctx, ctrl, tui.Options{FPS: cfg.FPS, Dir: cfg.Dir, Lister: asset.List})
		program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
	}

	run := sess.finish(ctx, startedAt, time.Now())
	if run.Finished {
		logErrf("Training complete. Score: %d\n", run.Score)
	}
	return nil
}

// openLogFile sends the standard logger to the state log while the terminal
// frontend owns the screen.
func openLogFile() (*os.File, error) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "tuiaim")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// session is everything a training run needs besides its frontend. A nil
// history means runs are not recorded.
type session struct {
	ctrl    *trainer.Controller
	history *store.Store
	logger  *log.Logger
}

// openSession builds the controller for cfg. Storage failures are logged and
// the run goes on without history.
func openSession(ctx context.Context, cfg model.Config, logger *log.Logger) (*session, error) {
	history, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Printf("failed to open db, run history disabled: %v", err)
		history = nil
	}
	ledger := score.Open(ctx, scorePersister(cfg.ScoreBackend, history, logger), cfg.User, logger)

	paths, err := asset.List(cfg.Dir)
	if err != nil {
		logger.Printf("%v", err)
	}
	gen := recoil.New(recoil.NewSource(cfg.Seed), cfg.Shake)
	settings := trainer.Settings{
		TotalLevels:  cfg.Levels,
		BaseDiameter: cfg.Diameter,
		Width:        layout.FieldWidth,
		Height:       layout.FieldHeight,
	}
	ctrl, err := trainer.New(settings, ledger, asset.FileLoader{}, asset.NewPool(paths), gen, logger)
	if err != nil {
		if history != nil {
			if cerr := history.Close(); cerr != nil {
				// Best-effort close on setup failure.
				_ = cerr
			}
		}
		return nil, err
	}
	return &session{ctrl: ctrl, history: history, logger: logger}, nil
}

// finish records the run in the history when one is open.
func (s *session) finish(ctx context.Context, startedAt, endedAt time.Time) model.RunRecord {
	run := s.ctrl.Summary(startedAt, endedAt)
	if s.history != nil {
		if err := s.history.InsertRun(ctx, run); err != nil {
			s.logger.Printf("failed to save run: %v", err)
		}
	}
	return run
}

func (s *session) close() {
	if s.history == nil {
		return
	}
	if err := s.history.Close(); err != nil {
		s.logger.Printf("failed to close db: %v", err)
	}
}

func scorePersister(backend string, st *store.Store, logger *log.Logger) score.Persister {
	if backend == config.BackendSQLite {
		if st != nil {
			return st
		}
		logger.Printf("sqlite score store unavailable; using %s", config.DefaultScorePath())
	}
	return store.NewScoreFile(config.DefaultScorePath())
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the high-score table",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
	cmd.Flags().IntVar(&scoresTop, "top", defaultTopScores, "number of entries")
	cmd.Flags().StringVar(&scoresBackend, "score-backend", defaultScoreBackend, "score store (json|sqlite)")
	return cmd
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("%v; using defaults\n", err)
		fileCfg = config.FileConfig{}
	}
	applyStringConfig(cmd, "score-backend", &scoresBackend, fileCfg.Storage.ScoreBackend)
	backend := strings.ToLower(strings.TrimSpace(scoresBackend))
	if !config.ValidBackend(backend) {
		return fmt.Errorf("--score-backend must be %q or %q", config.BackendJSON, config.BackendSQLite)
	}
	if scoresTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}

	var persister score.Persister
	if backend == config.BackendSQLite {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		persister = st
	} else {
		persister = store.NewScoreFile(config.DefaultScorePath())
	}

	records, err := stats.LoadScores(context.Background(), persister, scoresTop)
	if err != nil {
		return fmt.Errorf("failed to load scores: %w", err)
	}
	return stats.RenderScores(cmd.OutOrStdout(), records, "")
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past training runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyUser, "user", "", "user filter")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print text instead of the interactive view")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.HistoryConfig{
		User:        strings.TrimSpace(historyUser),
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if !historyPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs); err != nil {
		return err
	}
	if err := stats.RenderRuns(out, report.Runs); err != nil {
		return err
	}
	return stats.RenderCurvesWithSize(out, report.Runs, cfg.CurveWindow, 0, 0, false)
}

func newAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets DIR",
		Short: "List the images a directory contributes",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssetsCmd,
	}
}

func runAssetsCmd(cmd *cobra.Command, args []string) error {
	paths, err := asset.List(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logErrf("No images found in %s\n", args[0])
		return nil
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// displayAvailable reports whether a desktop window can be opened.
func displayAvailable() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiaim configuration
# Uncomment a value to enable it. CLI flags override config values.

[training]
# dir = "~/Pictures/rewards"  # Directory of reward images
# user = "player"             # Player name (skips the prompt)
# levels = %d                # Number of levels
# diameter = %.1f            # Tolerance radius of the first level
# shake = %.1f                # Recoil amplification
# fps = %d                    # Frames per second
# window = true               # Desktop window; false keeps the terminal

[storage]
# score-backend = %q        # Score store: "json" or "sqlite"
`,
		defaultLevels,
		level.DefaultDiameter,
		recoil.DefaultShake,
		defaultFPS,
		defaultScoreBackend,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Levels < 1 {
		return fmt.Errorf("--levels must be >= 1")
	}
	if cfg.Shake < 0 {
		return fmt.Errorf("--shake must be >= 0")
	}
	if cfg.FPS <= 0 {
		return fmt.Errorf("--fps must be > 0")
	}
	if !config.ValidBackend(cfg.ScoreBackend) {
		return fmt.Errorf("--score-backend must be %q or %q", config.BackendJSON, config.BackendSQLite)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
