package cli

import (
	"bufio"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/syncq"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	User     string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the collection endpoint",
		Long: `Authenticate against the collection endpoint and cache the session
locally. When the password flag is omitted it is read from stdin.

A successful login also flushes any records left pending from previous
sessions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "login name")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *LoginOptions) error {
	app, err := opts.open()
	if err != nil {
		return err
	}
	defer app.close()

	password := opts.Password
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	ctx := cmd.Context()
	sess, err := app.transport.Login(ctx, opts.User, password)
	if err != nil {
		return err
	}
	if err := app.sessions.Save(*sess); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.Name)

	// Flush anything that accumulated while logged out.
	if report, err := app.queue.Sync(ctx, syncq.ModeSilent); err != nil {
		log.Printf("cli: post-login sync: %v", err)
	} else if report.Delivered > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d pending record(s)\n", report.Delivered)
	}
	return nil
}
