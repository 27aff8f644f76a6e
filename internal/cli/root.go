// Package cli wires configuration, logging and the terminal UI behind the
// procdeck command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prabalesh/procdeck/internal/board"
	"github.com/prabalesh/procdeck/internal/collector"
	"github.com/prabalesh/procdeck/internal/config"
	"github.com/prabalesh/procdeck/internal/process"
	"github.com/prabalesh/procdeck/internal/ui"
)

const logFile = "procdeck.log"

type rootOptions struct {
	configPath string
	launcher   string
	logLevel   string
	columns    int
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "procdeck [profile.json]",
		Short: "Organize and launch groups of processes",
		Long: `procdeck arranges commands into groups, launches and stops them
together, and saves the arrangement as a JSON profile.

Without an argument the last opened profile is loaded.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.StringVar(&opts.launcher, "launcher", "", fmt.Sprintf("how processes are spawned: %v", process.Launchers))
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.IntVar(&opts.columns, "columns", 0, "groups per grid row")

	cmd.AddCommand(newCheckCmd())
	return cmd
}

// loadConfig reads the config file and applies the flags given on the
// command line for this run.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Store, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	conf := config.NewStore(path)
	if err := conf.Read(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	conf.Override(func(c *config.Config) {
		if flags.Changed("launcher") {
			c.Launcher = opts.launcher
		}
		if flags.Changed("log-level") {
			c.LogLevel = opts.logLevel
		}
		if flags.Changed("columns") {
			c.Columns = opts.columns
		}
	})
	return conf, nil
}

func runUI(cmd *cobra.Command, opts *rootOptions, args []string) error {
	conf, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	cfg := conf.Get()

	logger, closer, err := setupLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	processLogs := filepath.Join(cfg.LogDir, "processes")
	if n, err := process.PruneLogs(processLogs, process.LogRetention, time.Now()); err != nil {
		logger.Warn("pruning process logs", "dir", processLogs, "err", err)
	} else if n > 0 {
		logger.Info("pruned process logs", "dir", processLogs, "removed", n)
	}

	launcher, err := process.NewLauncher(cfg.Launcher, processLogs)
	if err != nil {
		return err
	}
	logger.Info("starting", "config", conf.Path(), "launcher", cfg.Launcher, "columns", cfg.Columns)

	b := board.New(board.Options{Columns: cfg.Columns, Launcher: launcher, Logger: logger})
	app := ui.NewApp(ui.Options{
		Board:     b,
		Config:    conf,
		Collector: collector.NewStatsCollector(),
		Logger:    logger,
	})

	switch {
	case len(args) == 1:
		if err := app.LoadProfile(args[0]); err != nil {
			return err
		}
	case cfg.LastProfile != "":
		if err := app.LoadProfile(cfg.LastProfile); err != nil {
			// a stale last_profile must not keep the UI from starting
			logger.Warn("last profile not loaded", "path", cfg.LastProfile, "err", err)
		}
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("ui stopped", "err", err)
		return fmt.Errorf("running ui: %w", err)
	}
	logger.Info("exiting", "running", b.Running())
	return nil
}

// setupLogger opens <dir>/procdeck.log. The terminal belongs to the UI, so
// nothing is logged to stdout or stderr.
func setupLogger(dir, level string) (*slog.Logger, io.Closer, error) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel})), f, nil
}
