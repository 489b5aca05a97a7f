package dto

import "time"

type ReindexInput struct{}

type LoadCardsInput struct {
	// Paths limits loading to these decks; empty means every deck.
	Paths []string
}

type ScheduleOutput struct {
	Interval int
	Ease     int
	Due      time.Time
	IsDue    bool
}

type CardOutput struct {
	Front      string
	Back       string
	Type       string
	Context    []string
	SourceFile string
	Schedule   *ScheduleOutput
}

type DeckOutput struct {
	Path      string
	Title     string
	Tags      []string
	CardCount int
	DueCount  int
	NewCount  int
}

type DeckDetailOutput struct {
	Deck  DeckOutput
	Cards []CardOutput
}

type ScheduleUpdateInput struct {
	SourceFile string
	Front      string
	Back       string
	Interval   int
	Ease       int
	Due        time.Time
}

type SaveSchedulesInput struct {
	Updates []ScheduleUpdateInput
}

type SaveSchedulesOutput struct {
	FilesWritten int
	Matched      int
	Unmatched    []ScheduleUpdateInput
}

type DueSummaryOutput struct {
	Path    string
	Total   int
	Due     int
	New     int
	NextDue *time.Time
}
