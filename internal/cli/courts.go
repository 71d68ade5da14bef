package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
)

func newCourtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courts",
		Short: "Court rotation commands",
	}

	cmd.AddCommand(newCourtsRefillCmd())
	cmd.AddCommand(newCourtsResultCmd())
	cmd.AddCommand(newCourtsResetCmd())
	cmd.AddCommand(newCourtsUpdateCmd())

	return cmd
}

func newCourtsRefillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refill <code> [court]",
		Short: "Fill every court, or one court, from the queue",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := sessionPath(args[0], "courts", "refill")
			if len(args) == 2 {
				path = sessionPath(args[0], "courts", args[1], "refill")
			}

			var result response.Session
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCourtsResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <code> <court> <team>",
		Short: "Report the winning team of a court (team1 or team2)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ResultResponse
			if err := client.Post(sessionPath(args[0], "courts", args[1], "result"), request.ResultRequest{Winner: args[2]}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCourtsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code> <court>",
		Short: "Send a court's players back to the queue and refill",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(sessionPath(args[0], "courts", args[1], "reset"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCourtsUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "update <code> <court=team>...",
		Short:   "Report several court results at once, then refill",
		Example: `  openplay courts update ABC234 0=team1 2=team2`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, err := parsePending(args[1:])
			if err != nil {
				return err
			}

			var result response.UpdateAllResponse
			if err := client.Post(sessionPath(args[0], "results"), request.UpdateAllRequest{Pending: pending}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

// parsePending turns court=team arguments into the pending results map
func parsePending(args []string) (map[string]string, error) {
	pending := make(map[string]string, len(args))
	for _, arg := range args {
		court, team, ok := strings.Cut(arg, "=")
		if !ok || court == "" || team == "" {
			return nil, fmt.Errorf("invalid result %q: expected court=team", arg)
		}
		pending[court] = team
	}
	return pending, nil
}
