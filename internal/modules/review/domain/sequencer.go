package domain

import (
	"fmt"
	"math"
	"sort"
	"time"

	apperrors "mdcards/internal/platform/errors"
)

type State int

const (
	StateIdle State = iota
	StateActive
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Answered describes one applied response. Before and After are independent
// values; neither aliases the sequencer's storage.
type Answered struct {
	Position int
	Response Response
	Before   Card
	After    Card
}

// Snapshot is the persisted form of a sequencer. Cards are stored already
// ordered, so restoring never re-sorts.
type Snapshot struct {
	Cards  []Card `json:"cards"`
	Cursor int    `json:"cursor"`
}

// Sequencer walks one review batch. It is not safe for concurrent use.
type Sequencer struct {
	cards  []Card
	cursor int
	calc   *Calculator
}

// NewSequencer copies cards and orders them once: due cards first, then
// the rest, each group by due date. Never-reviewed cards count as not due
// and due at now. The sort is stable.
func NewSequencer(cards []Card, calc *Calculator, now time.Time) *Sequencer {
	ordered := make([]Card, 0, len(cards))
	for _, c := range cards {
		ordered = append(ordered, c.clone())
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.IsDue() != b.IsDue() {
			return a.IsDue()
		}
		return a.dueAt(now).Before(b.dueAt(now))
	})
	return &Sequencer{cards: ordered, calc: calc}
}

func RestoreSequencer(snapshot Snapshot, calc *Calculator) (*Sequencer, error) {
	if snapshot.Cursor < 0 {
		return nil, fmt.Errorf("%w: negative review cursor %d", apperrors.ErrInvalidInput, snapshot.Cursor)
	}
	cards := make([]Card, 0, len(snapshot.Cards))
	for _, c := range snapshot.Cards {
		cards = append(cards, c.clone())
	}
	return &Sequencer{cards: cards, cursor: snapshot.Cursor, calc: calc}, nil
}

func (s *Sequencer) Snapshot() Snapshot {
	return Snapshot{Cards: s.Cards(), Cursor: s.cursor}
}

func (s *Sequencer) Current() (Card, bool) {
	if s.cursor >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[s.cursor].clone(), true
}

// Answer applies resp to the current card and advances. With no current
// card it only advances. An invalid response changes nothing.
func (s *Sequencer) Answer(resp Response) (Answered, bool, error) {
	if s.cursor >= len(s.cards) {
		s.cursor++
		return Answered{}, false, nil
	}
	before := s.cards[s.cursor]
	schedule, err := s.calc.ForCard(before, resp)
	if err != nil {
		return Answered{}, false, err
	}
	after := before.withSchedule(schedule, s.calc.Now())
	s.cards[s.cursor] = after

	answered := Answered{
		Position: s.cursor,
		Response: resp,
		Before:   before.clone(),
		After:    after.clone(),
	}
	s.cursor++
	return answered, true, nil
}

// Next answers the current card and returns the one after it.
func (s *Sequencer) Next(resp Response) (Card, bool, error) {
	if _, _, err := s.Answer(resp); err != nil {
		return Card{}, false, err
	}
	card, ok := s.Current()
	return card, ok, nil
}

func (s *Sequencer) HasMore() bool {
	return s.cursor < len(s.cards)
}

func (s *Sequencer) Progress() Progress {
	total := len(s.cards)
	current := min(s.cursor, total)
	pct := 0
	if total > 0 {
		pct = int(math.Floor(float64(current)/float64(total)*100 + 0.5))
	}
	return Progress{Current: current, Total: total, Percentage: pct}
}

// Cards returns a copy of the batch in review order, answered cards
// carrying their new schedules.
func (s *Sequencer) Cards() []Card {
	out := make([]Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c.clone())
	}
	return out
}

// AnsweredCards returns copies of the cards answered so far.
func (s *Sequencer) AnsweredCards() []Card {
	n := min(s.cursor, len(s.cards))
	out := make([]Card, 0, n)
	for _, c := range s.cards[:n] {
		out = append(out, c.clone())
	}
	return out
}

func (s *Sequencer) State() State {
	switch {
	case len(s.cards) == 0:
		return StateIdle
	case s.cursor >= len(s.cards):
		return StateComplete
	default:
		return StateActive
	}
}
