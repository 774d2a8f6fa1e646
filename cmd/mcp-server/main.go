// Command mcp-server serves the residue tools over HTTP for AI agent
// frameworks.
//
// Usage:
//
//	go run ./cmd/mcp-server --port 8080
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	goresidue "github.com/njchilds90/goresidue"
	"github.com/njchilds90/goresidue/internal/buildinfo"
	"github.com/njchilds90/goresidue/internal/logger"
	"github.com/njchilds90/goresidue/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port     int
		variable string
		logFile  string
		debug    bool
	)

	cmd := &cobra.Command{
		Use:          "mcp-server",
		Short:        "HTTP tool server for the residue analyzer",
		Version:      buildinfo.String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, cleanup, err := logger.Setup(logger.Config{Path: logFile, Debug: debug})
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			addr := fmt.Sprintf(":%d", port)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(&goresidue.Analyzer{Variable: variable}, log),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			log.Info("server.listening", "addr", addr, "version", buildinfo.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "residue MCP server listening on %s\n", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("server.stopped", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&variable, "var", goresidue.DefaultVariable, "default complex variable for tool calls")
	cmd.Flags().StringVar(&logFile, "log-file", "-", `JSON log destination ("-" for stderr, "" to discard)`)
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}
