package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goresidue/internal/config"
	"github.com/njchilds90/goresidue/internal/logger"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	debug      bool
	logFile    string

	cfg     config.Config
	log     *slog.Logger
	cleanup func() error
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	lc := logger.Config{Path: cfg.Log.Path, Debug: cfg.Log.Debug || a.debug}
	if cmd.Flags().Changed("log-file") {
		lc.Path = a.logFile
	}
	l, cleanup, err := logger.Setup(lc)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.log, a.cleanup = l, cleanup
	return nil
}

func (a *app) close() error {
	if a.cleanup == nil {
		return nil
	}
	err := a.cleanup()
	a.cleanup = nil
	return err
}

func Execute() {
	cmd, a := newRootCmd()
	err := cmd.Execute()
	_ = a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{cfg: config.Default(), log: logger.Discard()}

	cmd := &cobra.Command{
		Use:           "residue",
		Short:         "Residue theorem analyzer for complex functions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", `write JSON logs to this file ("-" for stderr)`)

	cmd.AddCommand(analyzeCmd(a), examplesCmd(), theoryCmd(), versionCmd())
	return cmd, a
}
