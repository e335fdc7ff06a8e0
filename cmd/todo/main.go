package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todo/configs"
	"todo/delivery/cli"
	"todo/infrastructure/logger"
	"todo/repository/memory"
	"todo/task"
)

var Version = "dev"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Todo - an in-memory task tracker for the terminal",
		Long: `Todo keeps a list of tasks for the length of one session.

Tasks carry a priority, optional due date, tags and a daily, weekly or
monthly recurrence. Completing a recurring task schedules the next one.
Nothing is written to disk.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, in, out)
		},
	}
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.String("sort", "", "Default list order (none, title, priority, due-date)")
	flags.Bool("color", true, "Colour output when writing to a terminal")

	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func runMenu(cmd *cobra.Command, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.InitFromConfig(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	session := logger.With(zap.String("session_id", uuid.NewString()))
	log := session.Named("main")
	log.Info("Session started",
		zap.String("version", Version),
		zap.String("environment", cfg.App.Env),
	)

	sortKey, err := task.ParseSortKey(cfg.Display.DefaultSort)
	if err != nil {
		return err
	}

	taskService, err := task.NewService(
		memory.NewTaskRepository(),
		task.WithLogger(session.Named("task")),
	)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	menu, err := cli.NewMenu(taskService, in, out,
		cli.WithLogger(session.Named("cli")),
		cli.WithDefaultSort(sortKey),
		cli.WithDueSoonDays(cfg.Reminders.DueSoonDays),
		cli.WithColor(cfg.Display.Color),
	)
	if err != nil {
		return fmt.Errorf("failed to create menu: %w", err)
	}

	if cfg.Reminders.ShowOnStartup {
		menu.ShowReminders()
	}

	if err := menu.Run(); err != nil {
		log.Error("Menu stopped", zap.Error(err))
		return err
	}

	stats := taskService.GetStats()
	log.Info("Session ended",
		zap.Int("tasks", stats.Total),
		zap.Int("completed", stats.Completed),
	)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "todo %s\n", Version)
			return err
		},
	}
}

// loadConfig reads the config file named by --config, env and the bound flags
func loadConfig(cmd *cobra.Command) (*configs.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := configs.LoadConfig(path, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
