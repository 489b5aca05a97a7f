package domain

import (
	"slices"
	"time"
)

// Card is the review-side copy of a deck card.
type Card struct {
	Front      string        `json:"front"`
	Back       string        `json:"back"`
	Type       string        `json:"type"`
	Context    []string      `json:"context"`
	SourceFile string        `json:"source_file"`
	Schedule   *ScheduleInfo `json:"schedule,omitempty"`
}

type ScheduleInfo struct {
	Interval int       `json:"interval"`
	Ease     int       `json:"ease"`
	Due      time.Time `json:"due"`
	IsDue    bool      `json:"is_due"`
}

func (c Card) IsNew() bool {
	return c.Schedule == nil
}

// IsReversed reports whether the card is the generated back-to-front
// sibling of another card. Reversed cards own no metadata line.
func (c Card) IsReversed() bool {
	return c.Type == "reversed" || c.Type == "multiLineReversed"
}

// IsDue is false for cards that were never reviewed.
func (c Card) IsDue() bool {
	return c.Schedule != nil && c.Schedule.IsDue
}

// dueAt is the ordering key; unscheduled cards sort as due at now.
func (c Card) dueAt(now time.Time) time.Time {
	if c.Schedule == nil {
		return now
	}
	return c.Schedule.Due
}

func (c Card) withSchedule(s Schedule, now time.Time) Card {
	c.Context = slices.Clone(c.Context)
	c.Schedule = &ScheduleInfo{
		Interval: s.Interval,
		Ease:     s.Ease,
		Due:      s.Due,
		IsDue:    !s.Due.After(now),
	}
	return c
}

func (c Card) clone() Card {
	c.Context = slices.Clone(c.Context)
	if c.Context == nil {
		c.Context = []string{}
	}
	if c.Schedule != nil {
		s := *c.Schedule
		c.Schedule = &s
	}
	return c
}
