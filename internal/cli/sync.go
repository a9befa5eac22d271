package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/syncq"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Deliver the pending queue to the collection endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer app.close()

			report, err := app.queue.Sync(cmd.Context(), syncq.ModeInteractive)
			if errors.Is(err, syncq.ErrSyncInFlight) {
				return errors.New("a sync pass is already running")
			}
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printReport(out io.Writer, r *syncq.Report) {
	switch r.Status {
	case syncq.StatusIdle:
		fmt.Fprintln(out, "Nothing to deliver")
	case syncq.StatusOffline:
		fmt.Fprintln(out, "Offline: queue untouched, will retry later")
	case syncq.StatusComplete:
		fmt.Fprintf(out, "Delivered %d record(s)\n", r.Delivered)
	case syncq.StatusPartial:
		fmt.Fprintf(out, "Delivered %d record(s), %d still pending\n", r.Delivered, r.Failed)
	}
}
