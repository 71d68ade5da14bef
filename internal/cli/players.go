package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Player roster commands",
	}

	cmd.AddCommand(newPlayersAddCmd())
	cmd.AddCommand(newPlayersRemoveCmd())

	return cmd
}

func newPlayersAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <code> <name>...",
		Short: "Sign players up and queue them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AddPlayersResponse
			if err := client.Post(sessionPath(args[0], "players"), request.AddPlayersRequest{Players: args[1:]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <name>",
		Short: "Remove a player from the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Delete(sessionPath(args[0], "players", args[1]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
