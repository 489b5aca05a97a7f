package components

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mdcards/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const maxSuggestions = 5

// argKind says what a command's single argument completes against.
type argKind int

const (
	argNone argKind = iota
	argDeck
	argResponse
)

type command struct {
	name string
	arg  argKind
	help string
}

// commands must stay in sync with the switch in app/model.go executePalette.
var commands = []command{
	{name: "review:deck", arg: argDeck, help: "[deck]"},
	{name: "review:all"},
	{name: "review:answer", arg: argResponse, help: "<hard|good|easy>"},
	{name: "review:finish"},
	{name: "deck:reload"},
}

var responses = []string{"hard", "good", "easy"}

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	decks   []string
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 256
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

// SetDecks sets the deck paths offered after review:deck.
func (p *Palette) SetDecks(paths []string) {
	p.decks = slices.Clone(paths)
}

// Suggestions lists completions for input: command names while the first
// word is typed, then the argument values of the chosen command.
func (p Palette) Suggestions(input string) []string {
	head, arg, hasArg := strings.Cut(strings.TrimLeft(input, " "), " ")
	head = strings.ToLower(head)
	var out []string
	if !hasArg {
		for _, c := range commands {
			if strings.HasPrefix(c.name, head) {
				out = append(out, c.name)
			}
		}
		return limit(out)
	}
	var values []string
	for _, c := range commands {
		if c.name != head {
			continue
		}
		switch c.arg {
		case argDeck:
			values = p.decks
		case argResponse:
			values = responses
		}
	}
	arg = strings.TrimSpace(arg)
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(arg)) {
			out = append(out, head+" "+v)
		}
	}
	return limit(out)
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if s := p.Suggestions(p.input.Value()); len(s) > 0 {
				p.input.SetValue(s[0] + " ")
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if suggestions := p.Suggestions(p.input.Value()); len(suggestions) > 0 {
		sb.WriteString("\n")
		for _, s := range suggestions {
			sb.WriteString(hintStyle.Render("  "+s+usage(s)) + "\n")
		}
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

// usage appends the argument help to a bare command name.
func usage(suggestion string) string {
	for _, c := range commands {
		if c.name == suggestion && c.help != "" {
			return " " + c.help
		}
	}
	return ""
}

func limit(s []string) []string {
	if len(s) > maxSuggestions {
		return s[:maxSuggestions]
	}
	return s
}
