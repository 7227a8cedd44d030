package cli

import (
	"endify/app"
	"endify/config"
	"endify/config/setup"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Execute runs the endify command line
func Execute() error {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "endify",
		Short: "Personal task planner with reminders",
		Long: `endify keeps track of assignments and other tasks, reminds you when they
are due and reports how your workload is spread over the week.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// One-shot commands print results on stdout, so logs go elsewhere
			var w io.Writer = os.Stderr
			if cmd.Name() == "serve" {
				w = os.Stdout
			}

			rt.cfg = cfg
			rt.logger = setupLogger(cfg, w)
			slog.SetDefault(rt.logger)
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCmd(rt),
		newAddCmd(rt),
		newListCmd(rt),
		newDoneCmd(rt),
		newDeleteCmd(rt),
		newOverdueCmd(rt),
		newStatsCmd(rt),
		newThemeCmd(rt),
	)

	return rootCmd
}

// withApp opens storage, runs fn and closes storage again
func (rt *runtime) withApp(fn func(a *app.App) error) error {
	application, err := setup.InitCLI(rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer application.Store.Close()

	return fn(application)
}

func setupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
