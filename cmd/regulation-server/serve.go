// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/regulation-server/internal/httpapi"
	"github.com/pdiddy/regulation-server/internal/mcp"
	"github.com/pdiddy/regulation-server/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the regulation queries over MCP (stdio) or HTTP",
	Long: `Serve loads the data directory once and then answers queries until it
is interrupted.

With --transport stdio (the default) it speaks line-delimited JSON-RPC 2.0 on
stdin and stdout and exposes the tools get_regulation, get_region, and
search_regulations. With --transport http it serves a JSON API plus the same
JSON-RPC dispatcher at POST /mcp.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("transport", string(types.TransportStdio), "transport: stdio or http")
	serveCmd.Flags().String("addr", "", "listen address for the http transport (default :8080)")
	serveCmd.Flags().Duration("shutdown-timeout", 0, "graceful shutdown timeout for the http transport (default 5s)")

	_ = viper.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("shutdown_timeout", serveCmd.Flags().Lookup("shutdown-timeout"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := serverConfig()

	app, err := loadApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rpc := mcp.NewServer(app, version, logger)

	switch cfg.Transport {
	case types.TransportStdio:
		logger.Info("serving MCP on stdio")
		if err := rpc.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case types.TransportHTTP:
		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
		}
		gin.SetMode(gin.ReleaseMode)
		handler := httpapi.NewHandler(app, rpc, logger)
		return httpapi.Serve(ctx, ln, handler.Router(), cfg.ShutdownTimeout, logger)
	default:
		return fmt.Errorf("unknown transport %q: use stdio or http", cfg.Transport)
	}
}
