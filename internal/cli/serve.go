package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vantagedata/dashlayout/internal/server"
	"github.com/vantagedata/dashlayout/pkg/dashboard"
	"github.com/vantagedata/dashlayout/pkg/events"
	"github.com/vantagedata/dashlayout/pkg/panels"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for layouts and panel widths until interrupted.

Layout and panel changes are logged as they are published.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	logger := loggerFromContext(ctx)

	b, err := c.openBackends(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	bus := events.NewBus()
	changes := make(chan events.Event, 64)
	for _, topic := range []events.Topic{events.TopicLayoutChanged, events.TopicPanelsChanged} {
		unsubscribe := bus.Subscribe(topic, func(e events.Event) {
			select {
			case changes <- e:
			default:
				logger.Warn("dropping change notification", "topic", e.Topic)
			}
		})
		defer unsubscribe()
	}

	srv, err := server.New(server.Options{
		Grid:            c.Config.Grid,
		Constraints:     c.Config.Panels,
		Repository:      b.repo,
		Store:           b.store,
		Keyer:           c.keyer(),
		Bus:             bus,
		Logger:          logger,
		ReadTimeout:     c.Config.Server.ReadTimeout,
		WriteTimeout:    c.Config.Server.WriteTimeout,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	printSuccess("Serving dashlayout API")
	printKeyValue("address", addr)
	printKeyValue("layouts", c.Config.Layouts.Backend)
	printKeyValue("storage", c.Config.Storage.Backend)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-changes:
				switch p := e.Payload.(type) {
				case dashboard.LayoutChanged:
					logger.Info("layout changed", "user", p.UserID, "op", p.Op, "items", len(p.Items))
				case panels.Changed:
					logger.Info("panels changed", "scope", p.Scope, "left", p.Widths.Left, "right", p.Widths.Right)
				}
			}
		}
	})
	return g.Wait()
}
