package domain

import "time"

const SchemaVersion = 1

// Tally counts responses given during one review.
type Tally struct {
	Hard int `json:"hard"`
	Good int `json:"good"`
	Easy int `json:"easy"`
}

func (t *Tally) Add(r Response) {
	switch r {
	case Hard:
		t.Hard++
	case Good:
		t.Good++
	case Easy:
		t.Easy++
	}
}

func (t Tally) Total() int {
	return t.Hard + t.Good + t.Easy
}

// ActiveReview is the persisted state of the review in progress.
type ActiveReview struct {
	SchemaVersion int       `json:"schema_version"`
	SessionID     string    `json:"session_id"`
	Label         string    `json:"label"`
	Decks         []string  `json:"decks"`
	DueOnly       bool      `json:"due_only"`
	StartedAt     time.Time `json:"started_at"`
	Tally         Tally     `json:"tally"`
	Sequence      Snapshot  `json:"sequence"`
}

// Review is a finished review, as written to the review note.
type Review struct {
	ID          string
	Label       string
	Decks       []string
	StartedAt   time.Time
	EndedAt     time.Time
	DurationMin int
	Total       int
	Answered    int
	Tally       Tally
	Completed   bool
}

// LogEntry records one answer.
type LogEntry struct {
	SessionID      string
	SourceFile     string
	Front          string
	Back           string
	Response       Response
	IntervalBefore int
	EaseBefore     int
	IntervalAfter  int
	EaseAfter      int
	Due            time.Time
	ReviewedAt     time.Time
}

// SaveReport is what the deck side says about persisting schedules.
type SaveReport struct {
	Matched   int
	Unmatched int
	// Skipped counts reversed cards, which are never written back.
	Skipped int
}
