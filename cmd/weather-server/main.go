// Command weather-server exposes National Weather Service data as MCP
// tools over stdio or SSE. stdio is the default so the binary can be
// spawned directly by an MCP client; all logging goes to stderr.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KamdynS/weather-agent/config"
	servermcp "github.com/KamdynS/weather-agent/server/mcp"
	"github.com/KamdynS/weather-agent/tools"
	weathertools "github.com/KamdynS/weather-agent/tools/weather"
	"github.com/KamdynS/weather-agent/weather"
)

const (
	serverName    = "weather"
	serverVersion = "0.1.0"

	cacheSizeBytes = 16 << 20
	cacheTTL       = 5 * time.Minute
)

func main() {
	// stdout belongs to the stdio transport; everything else goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		transport string
		addr      string
		baseURL   string
		userAgent string
	)

	cmd := &cobra.Command{
		Use:   "weather-server",
		Short: "MCP server for National Weather Service alerts and forecasts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if userAgent == "" {
				userAgent = cfg.NWSUserAgent
			}

			srv, err := buildServer(userAgent, baseURL)
			if err != nil {
				return err
			}

			switch transport {
			case "stdio":
				return srv.ServeStdio()
			case "sse":
				return serveSSE(srv, addr)
			default:
				return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "transport to serve on: stdio or sse")
	cmd.Flags().StringVar(&addr, "addr", ":8765", "listen address for the sse transport")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "advertised base URL for sse clients")
	cmd.Flags().StringVar(&userAgent, "nws-user-agent", "", "User-Agent sent to the NWS API (overrides NWS_USER_AGENT)")
	return cmd
}

func buildServer(userAgent, baseURL string) (*servermcp.Server, error) {
	cache, err := weather.NewCache(cacheSizeBytes)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	client := weather.NewClient(weather.Config{
		UserAgent: userAgent,
		Cache:     cache,
		CacheTTL:  cacheTTL,
	})

	reg := tools.NewRegistry()
	alerts, err := weathertools.NewAlertsTool(client)
	if err != nil {
		return nil, err
	}
	forecast, err := weathertools.NewForecastTool(client)
	if err != nil {
		return nil, err
	}
	for _, t := range []tools.Tool{alerts, forecast} {
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}

	return servermcp.NewServer(reg, servermcp.Config{
		Name:    serverName,
		Version: serverVersion,
		BaseURL: baseURL,
	})
}

func serveSSE(srv *servermcp.Server, addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ServeSSE(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
