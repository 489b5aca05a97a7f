package decks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	deckdto "mdcards/internal/modules/deck/dto"
	"mdcards/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListDecks(ctx context.Context) ([]deckdto.DeckOutput, error)
	GetDeck(ctx context.Context, path string) (deckdto.DeckDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type DecksLoadedMsg struct {
	Decks []deckdto.DeckOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail deckdto.DeckDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type deckItem struct {
	deck deckdto.DeckOutput
}

func (i deckItem) Title() string { return i.deck.Title }
func (i deckItem) Description() string {
	return fmt.Sprintf("%d cards  %d due  %d new", i.deck.CardCount, i.deck.DueCount, i.deck.NewCount)
}
func (i deckItem) FilterValue() string { return i.deck.Title + " " + i.deck.Path }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	detail  deckdto.DeckDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Decks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDecksCmd(), m.spinner.Tick)
}

// Reload refreshes deck counts, typically after a review changed schedules.
func (m *Model) Reload() tea.Cmd {
	return m.loadDecksCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case DecksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Decks: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Decks"
		items := make([]list.Item, len(msg.Decks))
		for i, d := range msg.Decks {
			items[i] = deckItem{deck: d}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if item, ok := m.list.SelectedItem().(deckItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.deck.Path))
		} else if len(msg.Decks) > 0 {
			cmds = append(cmds, m.loadDetailCmd(msg.Decks[0].Path))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(deckItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.deck.Path))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Scanning decks…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedDeck returns the path and title of the highlighted deck.
func (m Model) SelectedDeck() (path, title string, ok bool) {
	if item, ok := m.list.SelectedItem().(deckItem); ok {
		return item.deck.Path, item.deck.Title, true
	}
	return "", "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail.Deck
	if d.Path == "" {
		return theme.Muted.Render("Select a deck to see its cards")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("file:  ") + d.Path + "\n")
	sb.WriteString(fmt.Sprintf("%s%d total, %d due, %d new\n",
		theme.Muted.Render("cards: "), d.CardCount, d.DueCount, d.NewCount))
	if len(d.Tags) > 0 {
		sb.WriteString(theme.Muted.Render("tags:  ") + strings.Join(d.Tags, ", ") + "\n")
	}
	sb.WriteString("\n")
	for _, c := range m.detail.Cards {
		sb.WriteString(cardLine(c) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: review deck  a: review all decks"))
	return sb.String()
}

func cardLine(c deckdto.CardOutput) string {
	front := firstLine(c.Front)
	switch {
	case c.Schedule == nil:
		return theme.Hot.Render("new  ") + front
	case c.Schedule.IsDue:
		return theme.Hard.Render("due  ") + front
	default:
		return theme.Muted.Render(humanize.Time(c.Schedule.Due)+"  ") + front
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func (m Model) loadDecksCmd() tea.Cmd {
	return func() tea.Msg {
		decks, err := m.port.ListDecks(context.Background())
		return DecksLoadedMsg{Decks: decks, Err: err}
	}
}

func (m Model) loadDetailCmd(path string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.GetDeck(context.Background(), path)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
