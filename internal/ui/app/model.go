package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	deckdto "mdcards/internal/modules/deck/dto"
	reviewdto "mdcards/internal/modules/review/dto"
	apperrors "mdcards/internal/platform/errors"
	"mdcards/internal/ui/components"
	"mdcards/internal/ui/theme"
	decksview "mdcards/internal/ui/views/decks"
	reviewview "mdcards/internal/ui/views/review"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type deckPort interface {
	ListDecks(ctx context.Context) ([]deckdto.DeckOutput, error)
	GetDeck(ctx context.Context, path string) (deckdto.DeckDetailOutput, error)
}

type reviewPort interface {
	Begin(ctx context.Context, decks []string) (reviewdto.CurrentOutput, error)
	Current(ctx context.Context) (reviewdto.CurrentOutput, error)
	Answer(ctx context.Context, response string) (reviewdto.AnswerOutput, error)
	Finish(ctx context.Context) (reviewdto.FinishOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDecks tabID = iota
	tabReview
	tabCount
)

var tabLabels = [tabCount]string{"Decks", "Review"}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	current reviewdto.CurrentOutput
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	All     key.Binding
	Reveal  key.Binding
	Hard    key.Binding
	Good    key.Binding
	Easy    key.Binding
	Finish  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "review deck")),
		All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "review all")),
		Reveal:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "show answer")),
		Hard:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "hard")),
		Good:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "good")),
		Easy:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "easy")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish review")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.All},
		{k.Reveal, k.Hard, k.Good, k.Easy, k.Finish},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; decks and reviews are rendered by sub-views.
type Model struct {
	vaultPath string

	review reviewPort

	deckView   decksview.Model
	reviewView reviewview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	label     string
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(vaultPath string, decks deckPort, review reviewPort) Model {
	return Model{
		vaultPath:  vaultPath,
		review:     review,
		deckView:   decksview.New(deckPortBridge{p: decks}),
		reviewView: reviewview.New(reviewPortBridge{p: review}),
		activeTab:  tabDecks,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.deckView.Init(),
		m.loadActiveCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveReview) {
				m.status = "active review check: " + msg.err.Error()
			}
			return m, nil
		}
		m.label = msg.current.Label
		m.reviewView.Resume(msg.current)
		m.status = "review recovered: " + msg.current.Label
		return m, nil

	case decksview.DecksLoadedMsg:
		paths := make([]string, len(msg.Decks))
		for i, d := range msg.Decks {
			paths[i] = d.Path
		}
		m.palette.SetDecks(paths)
		var cmd tea.Cmd
		m.deckView, cmd = m.deckView.Update(msg)
		return m, cmd

	case reviewview.StartedMsg:
		if msg.Err != nil {
			m.status = "review start failed: " + msg.Err.Error()
		} else {
			m.label = msg.Current.Label
			m.status = fmt.Sprintf("review started: %d cards", msg.Current.Progress.Total)
			m.activeTab = tabReview
		}
		var cmd tea.Cmd
		m.reviewView, cmd = m.reviewView.Update(msg)
		return m, cmd

	case reviewview.AnsweredMsg:
		if msg.Err != nil {
			m.status = "answer failed: " + msg.Err.Error()
		} else {
			m.status = "answered " + msg.Out.Response
			if msg.Out.Unmatched > 0 {
				m.status += fmt.Sprintf(" (%d not written back)", msg.Out.Unmatched)
			}
			if msg.Out.Finished != nil {
				m.label = ""
				m.status = "review complete"
				cmds = append(cmds, m.deckView.Reload())
			}
		}
		var cmd tea.Cmd
		m.reviewView, cmd = m.reviewView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case reviewview.FinishedMsg:
		if msg.Err != nil {
			m.status = "finish failed: " + msg.Err.Error()
		} else {
			m.label = ""
			m.status = "review saved: " + msg.Out.Path
			cmds = append(cmds, m.deckView.Reload())
		}
		var cmd tea.Cmd
		m.reviewView, cmd = m.reviewView.Update(msg)
		return m, tea.Batch(append(cmds, cmd)...)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		if m.activeTab == tabDecks && m.deckView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "enter":
			if m.activeTab == tabDecks {
				return m, m.beginSelected()
			}
		case "a":
			if m.activeTab == tabDecks {
				return m, m.reviewView.Begin(nil)
			}
		case " ":
			if m.activeTab == tabReview {
				m.reviewView.Reveal()
				return m, nil
			}
		case "1", "2", "3":
			if m.activeTab == tabReview {
				return m, m.reviewView.Answer(msg.String())
			}
		case "f":
			if m.activeTab == tabReview {
				return m, m.reviewView.Finish()
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDecks:
		m.deckView, tabCmd = m.deckView.Update(msg)
	case tabReview:
		m.reviewView, tabCmd = m.reviewView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()

	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabReview:
		content = m.reviewView.View()
	default:
		content = m.deckView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mdcards  " + strings.Join(parts, sep) + theme.Muted.Render("   "+m.vaultPath)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.label != "" {
		left = theme.Hot.Render("● "+m.label) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "review:deck":
		if deck := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0])); deck != "" {
			m.status = "starting review: " + deck
			return m, m.reviewView.Begin([]string{deck})
		}
		return m, m.beginSelected()

	case "review:all":
		return m, m.reviewView.Begin(nil)

	case "review:answer":
		if len(parts) < 2 {
			m.status = "usage: review:answer <hard|good|easy>"
			return m, nil
		}
		m.activeTab = tabReview
		m.reviewView.Reveal()
		return m, m.reviewView.Answer(parts[1])

	case "review:finish":
		m.activeTab = tabReview
		return m, m.reviewView.Finish()

	case "deck:reload":
		m.activeTab = tabDecks
		m.status = "reloading decks"
		return m, m.deckView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) beginSelected() tea.Cmd {
	path, title, ok := m.deckView.SelectedDeck()
	if !ok {
		m.status = "no deck selected"
		return nil
	}
	m.status = "starting review: " + title
	return m.reviewView.Begin([]string{path})
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.deckView, _ = m.deckView.Update(sz)
	m.reviewView, _ = m.reviewView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		current, err := m.review.Current(context.Background())
		return activeLoadedMsg{current: current, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type deckPortBridge struct{ p deckPort }

func (b deckPortBridge) ListDecks(ctx context.Context) ([]deckdto.DeckOutput, error) {
	return b.p.ListDecks(ctx)
}
func (b deckPortBridge) GetDeck(ctx context.Context, path string) (deckdto.DeckDetailOutput, error) {
	return b.p.GetDeck(ctx, path)
}

type reviewPortBridge struct{ p reviewPort }

func (b reviewPortBridge) Begin(ctx context.Context, decks []string) (reviewdto.CurrentOutput, error) {
	return b.p.Begin(ctx, decks)
}
func (b reviewPortBridge) Answer(ctx context.Context, response string) (reviewdto.AnswerOutput, error) {
	return b.p.Answer(ctx, response)
}
func (b reviewPortBridge) Finish(ctx context.Context) (reviewdto.FinishOutput, error) {
	return b.p.Finish(ctx)
}
