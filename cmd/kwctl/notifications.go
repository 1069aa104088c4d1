package main

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.client().Notifications(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No analyses yet.")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Domain", "Status", "Job ID", "Time"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, n := range items {
				table.Append([]string{n.Domain, n.Status, n.JobID, n.Timestamp.Local().Format(time.RFC3339)})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of analyses to list")
	return cmd
}

func newSubscribeCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "subscribe <domain>",
		Short: "Get notified by email when a domain's analysis changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := a.client().Subscribe(cmd.Context(), args[0], email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscribed %s to %s (%s)\n", sub.Email, sub.Domain, sub.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "address to notify")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSubscriptionsCmd(a *app) *cobra.Command {
	var domain string

	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "List email subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := a.client().Subscriptions(cmd.Context(), domain)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No subscriptions.")
				return nil
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Domain", "Email", "Status", "Created"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, s := range subs {
				table.Append([]string{s.Domain, s.Email, s.Status, s.CreatedAt.Local().Format(time.RFC3339)})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "only list subscriptions for this domain")
	return cmd
}
