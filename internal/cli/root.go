// Package cli exposes the refresher as a cobra command tree: the daemon plus one-shot lookups
// that print the same payloads subscribers receive.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/nba-refresh-service/internal/config"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
)

const (
	serviceName    = "nba-refresh-service"
	defaultTimeout = time.Minute
)

// options are shared by every subcommand.
type options struct {
	version string
	cfgPath string
	timeout time.Duration
}

// NewRootCommand builds the refresher command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{version: version}

	root := &cobra.Command{
		Use:           "refresher",
		Short:         "Basketball data refresh service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgPath, "config", "", "config file (yaml); environment variables take precedence")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "deadline for one-shot lookups")

	root.AddCommand(serveCmd(opts))
	root.AddCommand(liveCmd(opts))
	root.AddCommand(playersCmd(opts))
	root.AddCommand(teamCmd(opts))
	root.AddCommand(scheduleCmd(opts))
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(version string, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// load reads configuration and builds a logger writing to w.
func (o *options) load(w io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(o.cfgPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
		Version: o.version,
		Writer:  w,
	})
	return cfg, logger, nil
}

func (o *options) lookupContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if o.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, o.timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
