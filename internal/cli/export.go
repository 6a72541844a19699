package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/pkg/deckstore"
	"github.com/deckforge/deckforge/pkg/export"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		outDir  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [deck-id]",
		Short: "Export a deck as PNG, PDF, or PPTX",
		Long: `Export renders a stored deck into one of three targets:

  png   one slide-<n>.png file per slide at 1920x1080
  pdf   presentation.pdf, one 16:9 page per slide with selectable text
  pptx  presentation.pptx, an editable PowerPoint package

Without a deck ID an interactive picker lists the stored decks. Export
is atomic: if any slide fails, no files are written.`,
		Example: `  deckforge export 4f1c... --format pdf
  deckforge export --format pptx --out ./dist`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			var id string
			if len(args) == 1 {
				id = args[0]
			} else {
				id, err = pickDeck(cmd, store)
				if err != nil {
					return err
				}
				if id == "" {
					printInfo("No deck selected")
					return nil
				}
			}

			d, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			engine, err := c.newEngine(cfg, noCache)
			if err != nil {
				return err
			}

			spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Exporting %d slides as %s", len(d.Slides), f))
			spin.Start()
			paths, err := engine.Export(cmd.Context(), &d, f, outDir)
			if err != nil {
				spin.StopWithError("Export failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Exported %d file(s)", len(paths)))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "png", "export format: png, pdf, or pptx")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the asset cache")

	return cmd
}

// pickDeck shows the interactive deck picker and returns the chosen ID.
func pickDeck(cmd *cobra.Command, store deckstore.Store) (string, error) {
	ids, err := store.List(cmd.Context())
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	if !isTerminal() {
		// Non-interactive: default to the only deck, otherwise require an ID.
		if len(ids) == 1 {
			return ids[0], nil
		}
		return "", fmt.Errorf("multiple decks stored; pass a deck ID")
	}

	model := NewDeckListModel(ids)
	final, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(DeckListModel); ok {
		return m.Selected, nil
	}
	return "", nil
}
