package cli

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/models"
	"github.com/vigiahq/vigia/internal/transport"
)

// DashboardOptions holds flags for the dashboard command.
type DashboardOptions struct {
	*RootOptions
	WindowDays    int
	InformantType string
	Community     string
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DashboardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the aggregated semaphore dashboard",
		Long: `Query the collection endpoint for the aggregated dashboard inside a
rolling window and render it as text. Requires a session with the
dashboard capability.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.WindowDays, "window-days", 30, "rolling window in days")
	cmd.Flags().StringVar(&opts.InformantType, "informant-type", "", "filter by informant type")
	cmd.Flags().StringVar(&opts.Community, "community", "", "filter by community")

	return cmd
}

func runDashboard(cmd *cobra.Command, opts *DashboardOptions) error {
	app, err := opts.open()
	if err != nil {
		return err
	}
	defer app.close()

	sess, err := app.sessions.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("not logged in (run \"vigia login\" first)")
	}
	if !sess.CanDashboard {
		return errors.New("this session has no dashboard access")
	}

	summary, err := app.transport.DashboardSummary(cmd.Context(), sess.Token, transport.SummaryQuery{
		WindowDays:    opts.WindowDays,
		InformantType: opts.InformantType,
		Community:     opts.Community,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Overall: %s\n", summary.Color)
	fmt.Fprintf(out, "Responses: %d  Informants: %d  Avg score: %.1f  Mean daily: %.1f\n",
		summary.Responses, summary.Informants, summary.AvgScore, summary.MeanDailyScore)
	fmt.Fprintf(out, "Colors: green=%d yellow=%d red=%d\n",
		summary.ColorCounts[string(models.ColorGreen)],
		summary.ColorCounts[string(models.ColorYellow)],
		summary.ColorCounts[string(models.ColorRed)])

	if len(summary.ByDay) > 0 {
		days := make([]string, 0, len(summary.ByDay))
		for d := range summary.ByDay {
			days = append(days, d)
		}
		sort.Strings(days)
		fmt.Fprintln(out, "\nDaily mean score:")
		for _, d := range days {
			fmt.Fprintf(out, "  %s  %.1f\n", d, summary.ByDay[d])
		}
	}

	if len(summary.Sample) > 0 {
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CAPTURED\tINFORMANT\tCOMMUNITY\tTOPIC\tCOLOR\tSCORE")
		for _, row := range summary.Sample {
			score := "-"
			if row.Score != nil {
				score = fmt.Sprintf("%d", *row.Score)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.CapturedAt, row.InformantType, row.Community, row.Topic, row.Color, score)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
