package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	reviewdto "mdcards/internal/modules/review/dto"
	"mdcards/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the minimal interface this view needs from the review use-case.
type Port interface {
	Begin(ctx context.Context, decks []string) (reviewdto.CurrentOutput, error)
	Answer(ctx context.Context, response string) (reviewdto.AnswerOutput, error)
	Finish(ctx context.Context) (reviewdto.FinishOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// StartedMsg is sent when a review has been started or resumed.
type StartedMsg struct {
	Current reviewdto.CurrentOutput
	Err     error
}

// AnsweredMsg carries the outcome of grading the current card.
type AnsweredMsg struct {
	Out reviewdto.AnswerOutput
	Err error
}

// FinishedMsg is sent once the review note has been written.
type FinishedMsg struct {
	Out reviewdto.FinishOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the self-contained Bubble Tea model for the Review tab.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	bar      progress.Model
	current  reviewdto.CurrentOutput
	last     string
	finished *reviewdto.FinishOutput
	errText  string
	revealed bool
	pending  bool
	loading  bool
	width    int
	height   int
}

// New creates a Review Model backed by the given port.
func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:     port,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		bar:      progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green))),
	}
}

// Init is a no-op: the view is idle until Begin is called.
func (m Model) Init() tea.Cmd { return nil }

// Active reports whether a card is waiting for an answer.
func (m Model) Active() bool {
	return m.current.Card != nil && m.finished == nil
}

// Begin starts a review over decks, or resumes the one in progress.
func (m *Model) Begin(decks []string) tea.Cmd {
	m.loading = true
	m.finished = nil
	m.errText = ""
	return tea.Batch(m.beginCmd(decks), m.spinner.Tick)
}

// Resume adopts a review found at startup without calling the port.
func (m *Model) Resume(current reviewdto.CurrentOutput) {
	m.current = current
	m.revealed = false
	m.pending = false
	m.finished = nil
	m.viewport.SetContent(m.renderCard())
}

// Reveal shows the back of the current card.
func (m *Model) Reveal() {
	if !m.Active() {
		return
	}
	m.revealed = true
	m.viewport.SetContent(m.renderCard())
}

// Answer grades the current card. Answers before the back is revealed, or
// while an earlier answer is still in flight, are ignored.
func (m *Model) Answer(response string) tea.Cmd {
	if !m.Active() || !m.revealed || m.loading || m.pending {
		return nil
	}
	m.pending = true
	return m.answerCmd(response)
}

// Finish ends the review early.
func (m *Model) Finish() tea.Cmd {
	if m.current.SessionID == "" || m.finished != nil || m.pending {
		return nil
	}
	m.pending = true
	return m.finishCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderCard())

	case StartedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.Resume(msg.Current)

	case AnsweredMsg:
		m.pending = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.errText = ""
		m.last = msg.Out.Response
		m.current.Card = msg.Out.Next
		m.current.Progress = msg.Out.Progress
		m.finished = msg.Out.Finished
		m.revealed = false
		m.viewport.SetContent(m.renderCard())
		m.viewport.GotoTop()

	case FinishedMsg:
		m.pending = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.finished = &msg.Out
		m.viewport.SetContent(m.renderCard())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 1 {
		bodyH = 1
	}

	if m.loading {
		body := lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Collecting cards…")
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}

	vp := m.viewport
	vp.Height = bodyH
	return lipgloss.JoinVertical(lipgloss.Left, header, vp.View(), footer)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 4
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.bar.Width = m.width - 4
	if m.bar.Width < 10 {
		m.bar.Width = 10
	}
}

func (m Model) renderHeader() string {
	if m.current.SessionID == "" {
		return theme.Title.Render("Review") +
			theme.Muted.Render("  Pick a deck on the Decks tab (enter) or review all (a)") + "\n"
	}
	p := m.current.Progress
	parts := []string{
		theme.Title.Render(m.current.Label),
		theme.Muted.Render(fmt.Sprintf("%d/%d", p.Current, p.Total)),
	}
	if m.last != "" {
		parts = append(parts, theme.Muted.Render("last: ")+theme.Response(m.last).Render(m.last))
	}
	return strings.Join(parts, "  ") + "\n" + m.bar.ViewAs(float64(p.Percentage)/100) + "\n"
}

func (m Model) renderFooter() string {
	if m.errText != "" {
		return theme.Hard.Render("error: " + m.errText)
	}
	switch {
	case m.finished != nil, m.current.SessionID == "":
		return ""
	case !m.revealed:
		return theme.Muted.Render("space: show answer  f: finish")
	default:
		return theme.Hard.Render("1 hard") + "  " + theme.Good.Render("2 good") + "  " +
			theme.Easy.Render("3 easy") + theme.Muted.Render("  f: finish")
	}
}

func (m Model) renderCard() string {
	if f := m.finished; f != nil {
		return renderFinish(*f)
	}
	c := m.current.Card
	if c == nil {
		return ""
	}
	pane := theme.PaneActive.Width(max(m.width-4, 20))

	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(c.SourceFile) + "\n\n")
	sb.WriteString(pane.Render(c.Front) + "\n")
	if m.revealed {
		sb.WriteString(theme.Pane.Width(max(m.width-4, 20)).Render(c.Back) + "\n")
	}
	if s := c.Schedule; s != nil {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("interval %dd  ease %d  due %s",
			s.Interval, s.Ease, humanize.Time(s.Due))))
	} else {
		sb.WriteString(theme.Hot.Render("new card"))
	}
	return sb.String()
}

func renderFinish(f reviewdto.FinishOutput) string {
	var sb strings.Builder
	if f.Completed {
		sb.WriteString(theme.Title.Render("Review complete") + "\n\n")
	} else {
		sb.WriteString(theme.Title.Render("Review finished early") + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("%s%d of %d cards in %d min\n",
		theme.Muted.Render("answered: "), f.Answered, f.Total, f.DurationMin))
	sb.WriteString(theme.Hard.Render(fmt.Sprintf("hard %d", f.Tally.Hard)) + "  " +
		theme.Good.Render(fmt.Sprintf("good %d", f.Tally.Good)) + "  " +
		theme.Easy.Render(fmt.Sprintf("easy %d", f.Tally.Easy)) + "\n")
	if f.Path != "" {
		sb.WriteString(theme.Muted.Render("note:     ") + f.Path + "\n")
	}
	return sb.String()
}

func (m Model) beginCmd(decks []string) tea.Cmd {
	return func() tea.Msg {
		current, err := m.port.Begin(context.Background(), decks)
		return StartedMsg{Current: current, Err: err}
	}
}

func (m Model) answerCmd(response string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Answer(context.Background(), response)
		return AnsweredMsg{Out: out, Err: err}
	}
}

func (m Model) finishCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Finish(context.Background())
		return FinishedMsg{Out: out, Err: err}
	}
}
