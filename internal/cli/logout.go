package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCommand creates the logout command. Logging out only clears the
// cached session: pending records stay queued and are delivered after the
// next login.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.sessions.Clear(); err != nil {
				return err
			}
			pending, err := app.queue.PendingCount()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			if pending > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) remain queued for the next login\n", pending)
			}
			return nil
		},
	}
}
