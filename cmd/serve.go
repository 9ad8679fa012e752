package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpserver "github.com/OliveiraNt/offset-scout/internal/adapters/http"
	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/spf13/cobra"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API, the WebSocket bridge and /metrics",
	Long: `Serve the HTTP API, the WebSocket bridge and Prometheus metrics.

The config file is watched and timeout policies are reloaded on change.

Examples:
  offset-scout serve
  offset-scout serve --addr :9090
  OFFSET_SCOUT_ADDR=127.0.0.1:8080 offset-scout serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr from config, then :8080)")
	_ = v.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := v.GetString("addr")
	if addr == "" {
		addr = cur.repo.Config().Server.Addr
	}
	if addr == "" {
		addr = defaultAddr
	}

	if err := cur.repo.Watch(); err != nil {
		utils.Logger.Warn("config hot reload disabled", "path", cur.repo.Path(), "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return httpserver.New(cur.bridge, cur.metrics).Run(ctx, addr)
}
