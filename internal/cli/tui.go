package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deckforge/deckforge/pkg/deck"
	"github.com/deckforge/deckforge/pkg/errors"
	"github.com/deckforge/deckforge/pkg/generate"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Generation Progress
// =============================================================================

// slideState tracks one prompt through the generation batch.
type slideState int

const (
	slidePending slideState = iota
	slideRunning
	slideDone
	slideFailed
)

// slideUpdateMsg reports a state change for one slide.
type slideUpdateMsg struct {
	index int
	state slideState
	err   error
}

// generateModel is the bubbletea model for batch generation progress.
type generateModel struct {
	title   string
	prompts []string
	states  []slideState
	errs    []error
	frame   int
}

type tickMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func newGenerateModel(title string, prompts []string) generateModel {
	return generateModel{
		title:   title,
		prompts: prompts,
		states:  make([]slideState, len(prompts)),
		errs:    make([]error, len(prompts)),
	}
}

const tickInterval = 80 * time.Millisecond

func (m generateModel) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case slideUpdateMsg:
		if msg.index >= 0 && msg.index < len(m.states) {
			m.states[msg.index] = msg.state
			m.errs[msg.index] = msg.err
		}
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m generateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generating: " + m.title))
	b.WriteString("\n\n")

	for i, prompt := range m.prompts {
		var icon string
		switch m.states[i] {
		case slideRunning:
			icon = styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])
		case slideDone:
			icon = styleIconSuccess.Render(iconSuccess)
		case slideFailed:
			icon = styleIconError.Render(iconError)
		default:
			icon = listDimStyle.Render("·")
		}

		line := fmt.Sprintf("%s slide %d  %s", icon, i+1, truncatePrompt(prompt))
		if m.states[i] == slideFailed && m.errs[i] != nil {
			line += "  " + StyleWarning.Render(errors.UserMessage(m.errs[i]))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func truncatePrompt(p string) string {
	const max = 48
	if len(p) <= max {
		return listNormalStyle.Render(p)
	}
	return listNormalStyle.Render(p[:max-3] + "...")
}

// generateWithProgress runs the batch one slide at a time, mirroring the
// client's per-slide isolation, and streams state into the TUI when one
// is attached.
func generateWithProgress(ctx context.Context, gen *generate.Client, title string, reqs []generate.Request, tui *tea.Program) (deck.Deck, map[int]error) {
	notify := func(msg slideUpdateMsg) {
		if tui != nil {
			tui.Send(msg)
		}
	}

	d := deck.New(title)
	failures := make(map[int]error)
	for i, req := range reqs {
		notify(slideUpdateMsg{index: i, state: slideRunning})
		res, err := gen.Generate(ctx, req)
		if err != nil {
			failures[i+1] = err
			notify(slideUpdateMsg{index: i, state: slideFailed, err: err})
			continue
		}
		d = d.AppendSlide(deck.Slide{
			Number:          i + 1,
			BaseImage:       res.ImageURL,
			UpscaledImage:   res.UpscaledURL,
			CleanBackground: res.CleanBackgroundURL,
			TextBlocks:      res.TextBlocks,
		})
		notify(slideUpdateMsg{index: i, state: slideDone})
	}
	return d, failures
}

// =============================================================================
// DeckListModel - Interactive deck selection
// =============================================================================

// DeckListModel is the bubbletea model for picking a deck from the store.
type DeckListModel struct {
	IDs      []string
	Cursor   int
	Selected string
}

// NewDeckListModel creates a new deck list model.
func NewDeckListModel(ids []string) DeckListModel {
	return DeckListModel{IDs: ids}
}

func (m DeckListModel) Init() tea.Cmd { return nil }

func (m DeckListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.IDs)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.IDs) > 0 {
				m.Selected = m.IDs[m.Cursor]
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DeckListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Deck"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, id := range m.IDs {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + id
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.IDs))))
	return b.String()
}
