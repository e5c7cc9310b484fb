// Package main provides the CLI entrypoint for studyplan.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/studyplan/internal/applog"
	"github.com/verte-zerg/studyplan/internal/config"
	"github.com/verte-zerg/studyplan/internal/form"
	"github.com/verte-zerg/studyplan/internal/importer"
	"github.com/verte-zerg/studyplan/internal/model"
	"github.com/verte-zerg/studyplan/internal/planner"
	"github.com/verte-zerg/studyplan/internal/progress"
	"github.com/verte-zerg/studyplan/internal/report"
	"github.com/verte-zerg/studyplan/internal/store"
	"github.com/verte-zerg/studyplan/internal/tui"
)

const defaultLogLevel = "info"

var (
	rootDBPath   string
	rootLogLevel string

	progressDate string
	progressDone []string
)

// app carries the resolved runtime for one command invocation.
type app struct {
	cfg    model.Config
	logger *zap.Logger
	store  *store.Store
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studyplan",
		Short:         "Weekly study timetable and progress tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", config.DefaultDBPath(), "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSubjectCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	m := tui.NewModel(a.store, a.logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	return nil
}

func newSubjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subject",
		Short: "Manage subjects",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME WEIGHT",
		Short: "Add a subject",
		Args:  cobra.ExactArgs(2),
		RunE:  runSubjectAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Remove every subject with NAME",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubjectRemoveCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subjects",
		Args:  cobra.NoArgs,
		RunE:  runSubjectListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import FILE",
		Short: "Add subjects from a name,weight file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubjectImportCmd,
	})
	return cmd
}

func runSubjectAddCmd(cmd *cobra.Command, args []string) error {
	input, err := form.ParseSubject(args[0], args[1])
	if err != nil {
		return err
	}
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	sub, err := a.store.AddSubject(cmd.Context(), input.Name, input.Weight)
	if err != nil {
		return err
	}
	return writeLine(cmd, "Added "+report.SubjectLabel(sub))
}

func runSubjectRemoveCmd(cmd *cobra.Command, args []string) error {
	name, err := form.RemoveTarget(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	n, err := a.store.RemoveSubject(cmd.Context(), name)
	if err != nil {
		return err
	}
	return writeLine(cmd, fmt.Sprintf("Removed %d subject(s) named %q", n, name))
}

func runSubjectListCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	subjects, err := a.store.ListSubjects(cmd.Context())
	if err != nil {
		return err
	}
	if len(subjects) == 0 {
		logErrln("No subjects yet. Add one with: studyplan subject add NAME WEIGHT")
		return nil
	}
	for _, line := range report.SubjectLines(subjects) {
		if err := writeLine(cmd, line); err != nil {
			return err
		}
	}
	return nil
}

func runSubjectImportCmd(cmd *cobra.Command, args []string) error {
	inputs, err := importer.LoadSubjects(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	for _, input := range inputs {
		if _, err := a.store.AddSubject(cmd.Context(), input.Name, input.Weight); err != nil {
			return err
		}
	}
	return writeLine(cmd, fmt.Sprintf("Imported %d subject(s)", len(inputs)))
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the weekly timetable",
		Args:  cobra.NoArgs,
		RunE:  runPlanCmd,
	}
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	subjects, err := a.store.ListSubjects(cmd.Context())
	if err != nil {
		return err
	}
	rows, err := planner.GenerateTimetable(subjects)
	if err != nil {
		return err
	}
	return report.WriteTable(cmd.OutOrStdout(), report.TimetableLines(rows))
}

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Save today's progress for the current timetable",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().StringVar(&progressDate, "date", "", "date to record (YYYY-MM-DD, default: today)")
	cmd.Flags().StringArrayVar(&progressDone, "done", nil, "subject completed today (repeatable)")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	today, err := form.ParseDate(progressDate, time.Now())
	if err != nil {
		return err
	}
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	subjects, err := a.store.ListSubjects(cmd.Context())
	if err != nil {
		return err
	}
	session, err := planner.NewSession(subjects)
	if err != nil {
		return err
	}
	for _, name := range progressDone {
		name = strings.TrimSpace(name)
		if !session.Set(name, true) {
			return model.Invalid(fmt.Sprintf("Unknown subject %q.", name))
		}
	}
	saved, err := progress.NewTracker(a.store, a.logger).Save(cmd.Context(), today, session)
	if err != nil {
		return err
	}
	return writeLine(cmd, fmt.Sprintf("Saved %d row(s) for %s", len(saved), today.Format(model.DateLayout)))
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show study history, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	history, err := a.store.ListHistory(cmd.Context())
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return writeLine(cmd, report.NoHistoryMsg)
	}
	if err := report.WriteTable(cmd.OutOrStdout(), report.HistoryLines(history)); err != nil {
		return err
	}
	return writeLine(cmd, "\n"+report.SummaryLine(progress.Summarize(history)))
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

// openApp resolves config (flags > env > .env > file > defaults), builds the
// logger and opens the store. console mirrors logs to stderr for non-TUI runs.
func openApp(cmd *cobra.Command, console bool) (*app, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	cfg := model.Config{
		DBPath:   rootDBPath,
		LogLevel: rootLogLevel,
		LogPath:  config.DefaultLogPath(),
	}
	applyStringConfig(cmd, "db", &cfg.DBPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "log-level", &cfg.LogLevel, fileCfg.Log.Level)
	if fileCfg.Log.Path != nil {
		cfg.LogPath = *fileCfg.Log.Path
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return nil, fmt.Errorf("--db must not be empty")
	}

	logger, err := applog.New(applog.Options{
		Level:   cfg.LogLevel,
		Path:    cfg.LogPath,
		Console: console && cfg.LogLevel == "debug",
	})
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("command started", zap.String("command", cmd.CommandPath()), zap.String("db", cfg.DBPath))
	return &app{cfg: cfg, logger: logger, store: st}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	if err := a.logger.Sync(); err != nil {
		// Best-effort flush.
		_ = err
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studyplan configuration
# Uncomment a value to enable it. Environment variables (%s, %s, %s)
# override this file, and CLI flags override both.

[store]
# path = %q

[log]
# level = %q   # debug, info, warn, error
# path = %q
`,
		config.EnvDBPath,
		config.EnvLogLevel,
		config.EnvLogPath,
		config.DefaultDBPath(),
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func writeLine(cmd *cobra.Command, line string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
