// Command kwctl submits keyword analyses to a keywordlens server and
// follows them until the CSV is ready.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/keywordlens/internal/client"
	"github.com/kiranshivaraju/keywordlens/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(cfg).ExecuteContext(ctx)
}

// app carries the settings shared by every subcommand.
type app struct {
	cfg config.ClientConfig
}

func (a *app) client() *client.Client {
	return client.New(a.cfg.APIURL, a.cfg.Timeout)
}

func newRootCmd(cfg config.ClientConfig) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "kwctl",
		Short:         "Keyword analysis client",
		Long:          `kwctl submits a domain for keyword analysis, polls the job and downloads the keyword CSV.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.APIURL, "api", cfg.APIURL, "keywordlens API base URL (KEYWORDLENS_API_URL)")
	flags.DurationVar(&a.cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	flags.DurationVar(&a.cfg.PollInterval, "interval", cfg.PollInterval, "delay between status checks (POLL_INTERVAL)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newWatchCmd(a),
		newStatusCmd(a),
		newNotificationsCmd(a),
		newSubscribeCmd(a),
		newSubscriptionsCmd(a),
	)
	return root
}
