package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/openplay-go/internal/api/response"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <code>",
		Short: "Show the latest matches, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sessionPath(args[0], "history")
			if limit > 0 {
				path += fmt.Sprintf("?limit=%d", limit)
			}

			var result response.HistoryResponse
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of matches to show (0 for all)")

	return cmd
}
