package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docsummary/internal/domain"
	"docsummary/internal/streamclient"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the server's status feed until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := streamclient.New(serverURL, nil)
		stage := color.New(color.FgCyan, color.Bold).SprintFunc()
		out := cmd.OutOrStdout()

		var last domain.StatusUpdate
		return client.WatchStatus(cmd.Context(), func(u domain.StatusUpdate) error {
			// the feed resends the same sample every interval
			if u.Stage == last.Stage && u.Message == last.Message {
				return nil
			}
			last = u
			_, err := fmt.Fprintf(out, "%s  %-15s %s\n", u.Timestamp, stage(u.Stage), u.Message)
			return err
		})
	},
}
