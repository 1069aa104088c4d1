package main

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var generate bool
	var output string

	cmd := &cobra.Command{
		Use:   "status <domain>",
		Short: "Show whether a domain already has keyword data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(a, cmd.OutOrStdout())
			defer s.ctrl.Close()

			if err := s.ctrl.CheckDomain(cmd.Context(), args[0]); err != nil {
				return err
			}
			if !generate {
				return nil
			}
			if err := s.ctrl.GenerateCSV(cmd.Context()); err != nil {
				return err
			}
			return s.finish(cmd.Context(), output)
		},
	}

	cmd.Flags().BoolVar(&generate, "generate", false, "generate the CSV and wait for it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV destination (default keywords-<domain>.csv)")
	return cmd
}
