package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/openplay-go/internal/api/request"
	"github.com/mcoot/openplay-go/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionDeleteCmd())
	cmd.AddCommand(newSessionLoginCmd())
	cmd.AddCommand(newSessionConfigCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var (
		courts     int
		maxPlayers int
		autoFill   bool
		password   string
		players    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		Long: `Create a new open play session.

The organizer token in the response is saved to the token file so later
commands against the session are authorized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateSessionRequest{
				AutoFill: autoFill,
				Password: password,
				Players:  players,
			}
			if cmd.Flags().Changed("courts") {
				req.CourtCount = &courts
			}
			if cmd.Flags().Changed("max-players") {
				req.MaxPlayers = &maxPlayers
			}

			var result response.CreateSessionResponse
			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			if err := cfg.SaveToken(result.Token.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&courts, "courts", 0, "Number of courts (default: server default)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Player cap (default: server default)")
	cmd.Flags().BoolVar(&autoFill, "auto-fill", false, "Refill courts after every change")
	cmd.Flags().StringVar(&password, "password", "", "Organizer password (empty leaves the session open)")
	cmd.Flags().StringSliceVar(&players, "players", nil, "Players to sign up, comma separated")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List session codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionList
			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Delete(sessionPath(code), nil); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Deleted session %s", code))
			return nil
		},
	}
}

func newSessionLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <code>",
		Short: "Log in as the organizer of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Token
			if err := client.Post(sessionPath(args[0], "login"), request.LoginRequest{Password: password}, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Organizer password")

	return cmd
}

func newSessionConfigCmd() *cobra.Command {
	var (
		courts     int
		maxPlayers int
		autoFill   bool
	)

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Update session configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req request.UpdateConfigRequest
			if cmd.Flags().Changed("courts") {
				req.CourtCount = &courts
			}
			if cmd.Flags().Changed("max-players") {
				req.MaxPlayers = &maxPlayers
			}
			if cmd.Flags().Changed("auto-fill") {
				req.AutoFill = &autoFill
			}
			if req.CourtCount == nil && req.MaxPlayers == nil && req.AutoFill == nil {
				return fmt.Errorf("at least one of --courts, --max-players or --auto-fill is required")
			}

			var result response.Session
			if err := client.Patch(sessionPath(args[0], "config"), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&courts, "courts", 0, "Number of courts")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Player cap")
	cmd.Flags().BoolVar(&autoFill, "auto-fill", false, "Refill courts after every change")

	return cmd
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Clear every player, court and match but keep the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(sessionPath(args[0], "reset"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}
