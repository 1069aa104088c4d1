package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/keywordlens/internal/monitor"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

func newWatchCmd(a *app) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "watch <job-id>",
		Short: "Follow an existing job until it finishes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := monitor.NewPoller(monitor.NewStatusFetcher(a.client()), args[0], domain,
				monitor.WithInterval(a.cfg.PollInterval),
				monitor.OnSnapshot(func(s models.JobSnapshot) {
					fmt.Fprintln(out, monitor.Line(&s))
				}),
			)
			p.Start()
			defer p.Cancel()

			select {
			case <-p.Done():
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}

			snap, ok := p.Snapshot()
			if ok && snap.Status == models.JobStatusFailed {
				return fmt.Errorf("job %s failed: %s", snap.JobID, monitor.Describe(&snap).Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "domain the job belongs to")
	return cmd
}
