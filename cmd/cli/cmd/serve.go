// Package cmd - serve command
package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"size-convert/internal/config"
	"size-convert/internal/logging"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the size resolution HTTP API until interrupted.

Endpoints:
  POST /resolve              resolve a measurement
  GET  /brands               list known brands
  POST /history              save a result to a user's history
  GET  /history/{userId}     list a user's history
  GET  /health               report data source availability
  GET  /version              print version information`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		config.Get().Server.Addr = serveAddr
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	err = a.Serve(ctx)
	logging.Named("cli").Info("service_stopped")
	return err
}
