// Package cli implements the vigia field client commands.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigiahq/vigia/internal/config"
	"github.com/vigiahq/vigia/internal/session"
	"github.com/vigiahq/vigia/internal/store"
	"github.com/vigiahq/vigia/internal/syncq"
	"github.com/vigiahq/vigia/internal/transport"
)

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand builds the vigia command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vigia",
		Short: "Offline-first field survey client",
		Long: `vigia captures field survey responses into a durable local queue,
classifies each one with the semaphore engine, and delivers the queue to
the collection endpoint whenever connectivity allows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to client config file (default $VIGIA_CONFIG)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewCaptureCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewPendingCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// appContext is the wired client: durable store, session cache, transport
// and sync queue, built once per command invocation.
type appContext struct {
	cfg       *config.ClientConfig
	store     *store.Store
	sessions  *session.Cache
	transport *transport.Client
	queue     *syncq.Queue
}

func (o *RootOptions) open() (*appContext, error) {
	path := o.ConfigPath
	if path == "" {
		path = getenvDefault("VIGIA_CONFIG", "")
	}
	cfg, err := config.LoadClient(path)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	tr := transport.NewClient(cfg.APIURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	return &appContext{
		cfg:       cfg,
		store:     st,
		sessions:  session.NewCache(st),
		transport: tr,
		queue:     syncq.New(st, tr),
	}, nil
}

func (a *appContext) close() {
	_ = a.store.Close()
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
