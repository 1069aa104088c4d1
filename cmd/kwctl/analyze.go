package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/keywordlens/internal/monitor"
	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var email, output string

	cmd := &cobra.Command{
		Use:   "analyze <domain>",
		Short: "Submit a domain and wait for its keyword CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s := newSession(a, out)
			defer s.ctrl.Close()

			s.ctrl.SetDomain(args[0])
			s.ctrl.SetEmail(email)
			if err := s.ctrl.Submit(cmd.Context()); err != nil {
				return err
			}
			return s.finish(cmd.Context(), output)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "address the results are sent to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV destination (default keywords-<domain>.csv)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// session drives a monitor.Controller for one command and reports when
// the watched job reaches a terminal view.
type session struct {
	ctrl *monitor.Controller
	out  io.Writer
	// terminal receives the first CSVReadyView or failed JobMonitorView.
	terminal chan monitor.View
}

func newSession(a *app, out io.Writer) *session {
	api := a.client()
	s := &session{out: out, terminal: make(chan monitor.View, 1)}
	s.ctrl = monitor.NewController(api, monitor.NewStatusFetcher(api),
		monitor.WithPollInterval(a.cfg.PollInterval),
		monitor.WithOnChange(s.onChange),
	)
	return s
}

func (s *session) onChange(v monitor.View) {
	renderView(s.out, v)
	if isTerminal(v) {
		select {
		case s.terminal <- v:
		default:
		}
	}
}

func isTerminal(v monitor.View) bool {
	switch v := v.(type) {
	case monitor.CSVReadyView:
		return true
	case monitor.JobMonitorView:
		return v.Snapshot != nil && v.Snapshot.Status == models.JobStatusFailed
	}
	return false
}

// finish waits for the current view to settle and saves the CSV if one
// was produced.
func (s *session) finish(ctx context.Context, output string) error {
	v := s.ctrl.View()
	switch v.(type) {
	case monitor.FormView:
		return nil
	case monitor.JobMonitorView:
		select {
		case v = <-s.terminal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if jm, ok := v.(monitor.JobMonitorView); ok {
		return fmt.Errorf("analysis of %s failed: %s", jm.Domain, monitor.Describe(jm.Snapshot).Message)
	}
	ready, ok := v.(monitor.CSVReadyView)
	if !ok {
		return errors.New("unexpected view " + v.Name())
	}

	body, err := s.ctrl.Download(ctx)
	if err != nil {
		return err
	}
	if output == "" {
		output = csvFilename(ready.Domain)
	}
	return writeCSV(s.out, output, body)
}
