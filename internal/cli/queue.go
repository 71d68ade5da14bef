package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/openplay-go/internal/api/response"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Waiting queue commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init <code>",
		Short: "Clear the courts and shuffle every player into the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(sessionPath(args[0], "queue", "init"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <code>",
		Short: "Show the waiting queue, front first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.QueueResponse
			if err := client.Get(sessionPath(args[0], "queue"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	})

	return cmd
}
