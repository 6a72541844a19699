package cli

import (
	"github.com/spf13/cobra"
)

// decksCommand creates the "decks" command group.
func (c *CLI) decksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decks",
		Short: "Manage stored decks",
	}

	cmd.AddCommand(c.decksListCommand())
	cmd.AddCommand(c.decksShowCommand())
	cmd.AddCommand(c.decksDeleteCommand())

	return cmd
}

func (c *CLI) decksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deck IDs in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No decks stored")
				return nil
			}
			for _, id := range ids {
				printDetail("%s", id)
			}
			printInfo("%d deck(s)", len(ids))
			return nil
		},
	}
}

func (c *CLI) decksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deck-id>",
		Short: "Show a deck's slides and overlays",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			d, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeyValue("Title", d.Title)
			printKeyValue("ID", d.ID)
			var textCount, imageCount int
			for _, s := range d.Slides {
				textCount += len(s.TextBlocks)
				imageCount += len(s.ImageBlocks)
			}
			printStats(len(d.Slides), textCount, imageCount)
			for _, s := range d.Slides {
				printDetail("slide %d: %d text block(s), %d image(s)",
					s.Number, len(s.TextBlocks), len(s.ImageBlocks))
				for _, tb := range s.TextBlocks {
					printDetail("  %q at (%.0f%%, %.0f%%) %s",
						tb.Content, tb.XPercent, tb.YPercent, tb.Size)
				}
			}
			return nil
		},
	}
}

func (c *CLI) decksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted deck %s", args[0])
			return nil
		},
	}
}
