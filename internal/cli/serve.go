package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/rpggio/feeuplift/internal/mcp"
	"github.com/rpggio/feeuplift/internal/transport"
)

func newServeCmd(a *app) *cobra.Command {
	var stdio bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP endpoint",
		Long: `Serve the REST API with the MCP endpoint mounted at /mcp. With --stdio the
MCP server speaks JSON-RPC over stdin/stdout instead and logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode := "http"
			// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
			logWriter := io.Writer(os.Stdout)
			if stdio {
				mode = "stdio"
				logWriter = os.Stderr
			}
			if err := a.open(cmd.Context(), logWriter); err != nil {
				return err
			}
			if !stdio && a.cfg.Transport.Mode == "stdio" {
				mode = "stdio"
			}

			mcpServer := mcp.NewServer(mcp.Config{
				Cases:         a.cases,
				TransportMode: mode,
				Logger:        a.logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if mode == "stdio" {
				return runStdio(ctx, a.logger, mcpServer)
			}
			addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
			return runHTTP(ctx, a.logger, mcpServer, a.cases, addr)
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "serve MCP over stdin/stdout")
	return cmd
}

func runStdio(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, cases transport.CaseService, addr string) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           transport.NewServer(cases, mcpHandler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
