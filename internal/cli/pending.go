package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPendingCommand creates the pending command.
func NewPendingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show the pending queue depth and last sync time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer app.close()

			count, err := app.queue.PendingCount()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pending: %d\n", count)

			last, err := app.queue.LastSync()
			if err != nil {
				return err
			}
			if last.IsZero() {
				fmt.Fprintln(out, "Last sync: never")
			} else {
				fmt.Fprintf(out, "Last sync: %s\n", last.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}
