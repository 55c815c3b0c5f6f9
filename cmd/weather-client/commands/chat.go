package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KamdynS/weather-agent/agent"
)

// chat: interactive loop sharing one session, so follow-up questions see
// the earlier turns.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive weather conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, version := serverInfo()
			fmt.Printf("Connected to %s %s (session %s). Type 'quit' to exit.\n", name, version, sessionID)

			a := newAgent(sessionID)
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					return nil
				}

				out, err := a.Run(cmd.Context(), agent.Message{Role: "user", Content: line})
				if err != nil {
					fmt.Fprintf(os.Stderr, "error: %v\n", err)
					continue
				}
				fmt.Println(out.Content)
			}
		},
	}
}

func serverInfo() (string, string) {
	type infoReporter interface {
		ServerInfo() (string, string)
	}
	if r, ok := mcpClient.(infoReporter); ok {
		return r.ServerInfo()
	}
	return "mcp server", ""
}
