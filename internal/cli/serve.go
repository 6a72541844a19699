package cli

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and editor server",
		Long: `Serve starts the HTTP server exposing the deck API, the export
endpoints, and the websocket editor channel. Decks are read from and
written to the configured deck store.`,
		Example: `  deckforge serve
  deckforge serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			engine, err := c.newEngine(cfg, false)
			if err != nil {
				return err
			}
			gen := c.newGenerator(cfg, false)
			if gen == nil {
				c.Logger.Warn("No generation endpoint configured; deck creation will not generate slides")
			}

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(store, gen, engine,
					server.WithLogger(c.Logger),
					server.WithAssetStore(c.newAssetStore(cfg)),
				).Handler(),
			}

			go func() {
				<-cmd.Context().Done()
				_ = srv.Close()
			}()

			c.Logger.Info("Server listening", "addr", addr)
			printInfo("Serving on %s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, falls back to :8080)")

	return cmd
}
