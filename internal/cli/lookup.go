package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-refresh-service/internal/refresh"
	"github.com/preston-bernstein/nba-refresh-service/internal/server"
)

// lookupCmd wires the shared plumbing of the one-shot commands: config, logger on stderr, a
// refresh service, and JSON on stdout.
func lookupCmd(opts *options, use, short string, args cobra.PositionalArgs, run func(cmd *cobra.Command, svc *refresh.Service, args []string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc := server.NewRefreshService(cfg, logger, nil)

			ctx, cancel := opts.lookupContext(cmd.Context())
			defer cancel()
			cmd.SetContext(ctx)

			out, err := run(cmd, svc, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func liveCmd(opts *options) *cobra.Command {
	return lookupCmd(opts, "live", "Print today's games", cobra.NoArgs,
		func(cmd *cobra.Command, svc *refresh.Service, _ []string) (any, error) {
			return svc.LiveGames(cmd.Context()), nil
		})
}

func playersCmd(opts *options) *cobra.Command {
	return lookupCmd(opts, "players <query>", "Search players and print their season averages", cobra.MinimumNArgs(1),
		func(cmd *cobra.Command, svc *refresh.Service, args []string) (any, error) {
			return svc.PlayerStats(cmd.Context(), strings.Join(args, " ")), nil
		})
}

func teamCmd(opts *options) *cobra.Command {
	return lookupCmd(opts, "team <id>", "Print a team's per-game averages", cobra.ExactArgs(1),
		func(cmd *cobra.Command, svc *refresh.Service, args []string) (any, error) {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid team id %q", args[0])
			}
			stats := svc.TeamStats(cmd.Context(), id)
			if stats == nil {
				return nil, fmt.Errorf("team %d unavailable", id)
			}
			return stats, nil
		})
}

func scheduleCmd(opts *options) *cobra.Command {
	return lookupCmd(opts, "schedule", "Print games from today onwards", cobra.NoArgs,
		func(cmd *cobra.Command, svc *refresh.Service, _ []string) (any, error) {
			return svc.UpcomingGames(cmd.Context()), nil
		})
}
