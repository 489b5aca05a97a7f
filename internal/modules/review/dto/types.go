package dto

import "time"

type StartInput struct {
	Decks   []string
	DueOnly bool
}

type AnswerInput struct {
	Response string
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
	SourceFile string
	Schedule   *ScheduleOutput
}

type ProgressOutput struct {
	Current    int
	Total      int
	Percentage int
}

type TallyOutput struct {
	Hard int
	Good int
	Easy int
}

type StartOutput struct {
	SessionID string
	Label     string
	StartedAt time.Time
	Total     int
	Current   *CardOutput
	Progress  ProgressOutput
}

type CurrentOutput struct {
	SessionID string
	Label     string
	State     string
	Card      *CardOutput
	Progress  ProgressOutput
}

type FinishOutput struct {
	SessionID   string
	Path        string
	DurationMin int
	Total       int
	Answered    int
	Tally       TallyOutput
	Completed   bool
}

type AnswerOutput struct {
	Response  string
	Answered  CardOutput
	Next      *CardOutput
	Progress  ProgressOutput
	Unmatched int
	// Finished is set when this answer completed the review.
	Finished *FinishOutput
}

type ActiveReviewOutput struct {
	SessionID string
	Label     string
	Decks     []string
	DueOnly   bool
	StartedAt time.Time
	Progress  ProgressOutput
	Tally     TallyOutput
}

type HistoryEntryOutput struct {
	SessionID     string
	SourceFile    string
	Front         string
	Response      string
	IntervalAfter int
	EaseAfter     int
	Due           time.Time
	ReviewedAt    time.Time
}
