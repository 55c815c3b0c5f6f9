package commands

import (
	"github.com/spf13/cobra"

	httpserver "github.com/KamdynS/weather-agent/server/http"
)

// serve: expose the agent over HTTP for non-CLI callers.
func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent over an HTTP chat API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := httpserver.NewServer(newAgent, httpserver.Config{Port: port})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port")
	return cmd
}
