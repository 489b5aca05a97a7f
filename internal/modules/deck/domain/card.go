package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "mdcards/internal/platform/errors"
)

type CardType string

const (
	CardTypeBasic             CardType = "basic"
	CardTypeReversed          CardType = "reversed"
	CardTypeMultiLine         CardType = "multiLine"
	CardTypeMultiLineReversed CardType = "multiLineReversed"
)

// IsReversed reports whether the card is the generated sibling of another.
func (t CardType) IsReversed() bool {
	return t == CardTypeReversed || t == CardTypeMultiLineReversed
}

// ScheduleInfo is what an SRS metadata line says about a card.
// Ease is stored as a percentage (250 means 2.5x).
type ScheduleInfo struct {
	Interval int
	Ease     int
	Due      time.Time
	IsDue    bool
}

type Card struct {
	Front      string
	Back       string
	Type       CardType
	Context    []string
	SourceFile string
	Schedule   *ScheduleInfo
}

func (c Card) IsNew() bool {
	return c.Schedule == nil
}

// WithDueFlag returns a copy whose schedule reports IsDue relative to now.
func (c Card) WithDueFlag(now time.Time) Card {
	if c.Schedule == nil {
		return c
	}
	s := *c.Schedule
	s.IsDue = !s.Due.After(now)
	c.Schedule = &s
	return c
}

// CardUpdate carries a new schedule for the card identified by Front/Back
// inside SourceFile.
type CardUpdate struct {
	SourceFile string
	Front      string
	Back       string
	Interval   int
	Ease       int
	Due        time.Time
}

type MergeResult struct {
	Content   string
	Matched   int
	Unmatched []CardUpdate
}

type Syntax struct {
	Separator        string
	InverseSeparator string
}

func DefaultSyntax() Syntax {
	return Syntax{Separator: ";;", InverseSeparator: ";;;"}
}

func (s Syntax) Validate() error {
	if strings.TrimSpace(s.Separator) == "" || strings.TrimSpace(s.InverseSeparator) == "" {
		return fmt.Errorf("%w: separators must not be blank", apperrors.ErrInvalidInput)
	}
	if s.Separator == s.InverseSeparator {
		return fmt.Errorf("%w: separator and inverse separator must differ", apperrors.ErrInvalidInput)
	}
	if strings.Contains(s.Separator, s.InverseSeparator) {
		return fmt.Errorf("%w: separator %q must not contain inverse separator %q", apperrors.ErrInvalidInput, s.Separator, s.InverseSeparator)
	}
	return nil
}

// orDefault fills in the default separators when either one is unset.
func (s Syntax) orDefault() Syntax {
	if s.Separator == "" || s.InverseSeparator == "" {
		return DefaultSyntax()
	}
	return s
}
