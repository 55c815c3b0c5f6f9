package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tools: print the server's tool catalog without calling a model.
func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools advertised by the connected MCP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := mcpClient.ListTools(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("server advertises no tools")
				return nil
			}
			for _, t := range infos {
				fmt.Printf("%s\n    %s\n", t.Name, t.Description)
			}
			return nil
		},
	}
}
