package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KamdynS/weather-agent/agent"
)

// ask <question...>: one question, one answer.
func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single weather question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			out, err := newAgent(sessionID).Run(cmd.Context(), agent.Message{
				Role:    "user",
				Content: question,
			})
			if err != nil {
				return err
			}
			fmt.Println(out.Content)
			return nil
		},
	}
}
