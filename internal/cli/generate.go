package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/generate"
)

// generateCommand creates the "generate" command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		title       string
		prompts     []string
		promptsFile string
		references  []string
		noCache     bool
		noTUI       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a slide deck from prompts",
		Long: `Generate creates one slide per prompt through the configured generation
service and saves the resulting deck to the deck store.

Prompts come from repeated --prompt flags or from a file with one prompt
per line. Failed slides are reported individually; the deck keeps every
slide that succeeded.`,
		Example: `  deckforge generate --title "Q3 Review" --prompt "title slide: Q3 in review" --prompt "revenue chart backdrop"
  deckforge generate --title Launch --prompts-file prompts.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			if promptsFile != "" {
				filePrompts, err := readPromptsFile(promptsFile)
				if err != nil {
					return err
				}
				prompts = append(prompts, filePrompts...)
			}
			if len(prompts) == 0 {
				return errors.New(errors.ErrCodeInvalidPrompt, "no prompts given (use --prompt or --prompts-file)")
			}
			if err := errors.ValidateDeckTitle(title); err != nil {
				return err
			}
			for _, p := range prompts {
				if err := errors.ValidatePrompt(p); err != nil {
					return err
				}
			}
			for _, ref := range references {
				if err := errors.ValidateReferenceURL(ref); err != nil {
					return err
				}
			}

			gen := c.newGenerator(cfg, noCache)
			if gen == nil {
				return errors.New(errors.ErrCodeGenerationFailed, "no generation endpoint configured (set [generation] endpoint in %s)", appName+" config")
			}
			store, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer store.Close(cmd.Context())

			reqs := make([]generate.Request, len(prompts))
			for i, p := range prompts {
				reqs[i] = generate.Request{Prompt: p, ReferenceImages: references}
			}

			prog := newProgress(c.Logger)
			var tui *tea.Program
			if !noTUI && isTerminal() {
				model := newGenerateModel(title, prompts)
				tui = tea.NewProgram(model)
				go func() { _, _ = tui.Run() }()
				defer tui.Quit()
			}

			d, failures := generateWithProgress(cmd.Context(), gen, title, reqs, tui)

			if err := store.Put(cmd.Context(), d); err != nil {
				return err
			}
			if tui != nil {
				tui.Quit()
				tui.Wait()
			}

			prog.done(fmt.Sprintf("Generated %d of %d slides", len(d.Slides), len(prompts)))
			printKeyValue("Deck ID", d.ID)
			for n, ferr := range failures {
				printWarning("slide %d failed: %s", n, errors.UserMessage(ferr))
			}
			if len(d.Slides) > 0 {
				printNextStep("Export it", fmt.Sprintf("deckforge export %s --format pdf", d.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "deck title (required)")
	cmd.Flags().StringArrayVarP(&prompts, "prompt", "p", nil, "slide prompt (repeatable)")
	cmd.Flags().StringVar(&promptsFile, "prompts-file", "", "file with one prompt per line")
	cmd.Flags().StringArrayVar(&references, "reference", nil, "reference image URL applied to every slide (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "disable the progress display")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// readPromptsFile reads one prompt per line, skipping blanks and comments.
func readPromptsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompts file: %w", err)
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		prompts = append(prompts, line)
	}
	return prompts, scanner.Err()
}

func isTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
