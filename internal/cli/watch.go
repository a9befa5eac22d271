package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/syncq"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	ProbeInterval time.Duration
	MaxBackoff    time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Probe connectivity and flush the queue on reconnect",
		Long: `Run in the foreground, probing the collection endpoint and flushing
the pending queue each time connectivity comes back. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()

			w := syncq.NewWatcher(app.queue)
			if opts.ProbeInterval > 0 {
				w.ProbeInterval = opts.ProbeInterval
			}
			if opts.MaxBackoff > 0 {
				w.MaxBackoff = opts.MaxBackoff
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (probe every %s)\n", app.cfg.APIURL, w.ProbeInterval)
			w.Run(cmd.Context())
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.ProbeInterval, "probe-interval", 0, "connectivity probe cadence (default 15s)")
	cmd.Flags().DurationVar(&opts.MaxBackoff, "max-backoff", 0, "cap for the offline probe backoff (default 5m)")

	return cmd
}
