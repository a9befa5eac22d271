package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/eligibility"
	"github.com/vigiahq/vigia/internal/models"
	"github.com/vigiahq/vigia/internal/syncq"
)

// CaptureOptions holds flags for the capture command.
type CaptureOptions struct {
	*RootOptions
	File string
	Send bool
}

// NewCaptureCommand creates the capture command.
func NewCaptureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CaptureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Validate, classify and queue a survey response",
		Long: `Validate a survey response, classify it with the semaphore engine and
append it to the durable queue. The response is read as JSON from the
file given with --file, or from stdin when the file is "-".

The record is queued even when the endpoint is unreachable; use --send to
attempt delivery immediately after queueing.

Example:
  vigia capture -f response.json
  cat response.json | vigia capture -f - --send`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "JSON file with the survey response (\"-\" for stdin)")
	cmd.Flags().BoolVar(&opts.Send, "send", false, "attempt delivery immediately after queueing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runCapture(cmd *cobra.Command, opts *CaptureOptions) error {
	app, err := opts.open()
	if err != nil {
		return err
	}
	defer app.close()

	var data []byte
	if opts.File == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(opts.File)
	}
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var response models.SurveyResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&response); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	sess, err := app.sessions.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		return errors.New("not logged in (run \"vigia login\" first)")
	}

	rec, err := app.queue.CreateRecord(response, *sess)
	if err != nil {
		var verrs eligibility.ValidationErrors
		if errors.As(err, &verrs) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Response is incomplete:")
			for _, v := range verrs {
				fmt.Fprintf(out, "  %s: %s\n", v.Field, v.Message)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Queued %s\n", rec.ID)
	printClassification(out, rec.Result)

	if opts.Send {
		report, err := app.queue.Sync(cmd.Context(), syncq.ModeInteractive)
		if err != nil {
			return err
		}
		printReport(out, report)
	}
	return nil
}

func printClassification(out io.Writer, res models.ClassificationResult) {
	if res.Score != nil {
		fmt.Fprintf(out, "Semaphore: %s (score %d, reliability %.1f)\n", res.Color, *res.Score, res.Reliability)
	} else {
		fmt.Fprintf(out, "Semaphore: %s (reliability %.1f)\n", res.Color, res.Reliability)
	}
	for _, t := range res.Triggers {
		fmt.Fprintf(out, "  trigger: %s\n", t)
	}
}
