package service

import (
	"context"
	"fmt"
	"log/slog"

	"mdcards/internal/modules/review/domain"
	reviewout "mdcards/internal/modules/review/port/out"
	"mdcards/internal/platform/clock"
	apperrors "mdcards/internal/platform/errors"
	"mdcards/internal/platform/id"
)

type ReviewService struct {
	clock  clock.Clock
	idGen  id.Generator
	calc   *domain.Calculator
	log    reviewout.ReviewLog
	notes  reviewout.ReviewNoteStore
	logger *slog.Logger
}

func NewReviewService(clock clock.Clock, idGen id.Generator, calc *domain.Calculator, log reviewout.ReviewLog, notes reviewout.ReviewNoteStore, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{clock: clock, idGen: idGen, calc: calc, log: log, notes: notes, logger: logger}
}

// Start orders cards into a new review. With dueOnly, cards scheduled for
// later are left out; never-reviewed cards stay in.
func (s *ReviewService) Start(_ context.Context, label string, decks []string, dueOnly bool, cards []domain.Card) (domain.ActiveReview, error) {
	if dueOnly {
		kept := make([]domain.Card, 0, len(cards))
		for _, c := range cards {
			if c.IsNew() || c.IsDue() {
				kept = append(kept, c)
			}
		}
		cards = kept
	}
	if len(cards) == 0 {
		return domain.ActiveReview{}, apperrors.ErrNoCardsToReview
	}
	now := s.clock.Now()
	seq := domain.NewSequencer(cards, s.calc, now)
	if decks == nil {
		decks = []string{}
	}
	s.logger.Debug("review started", "label", label, "cards", len(cards))
	return domain.ActiveReview{
		SchemaVersion: domain.SchemaVersion,
		SessionID:     s.idGen.New(),
		Label:         label,
		Decks:         decks,
		DueOnly:       dueOnly,
		StartedAt:     now,
		Sequence:      seq.Snapshot(),
	}, nil
}

func (s *ReviewService) Sequencer(active domain.ActiveReview) (*domain.Sequencer, error) {
	return domain.RestoreSequencer(active.Sequence, s.calc)
}

// Answer applies resp to the current card of active. The returned review
// carries the advanced sequence; nothing is persisted here.
func (s *ReviewService) Answer(_ context.Context, active domain.ActiveReview, resp domain.Response) (domain.ActiveReview, domain.Answered, bool, error) {
	seq, err := s.Sequencer(active)
	if err != nil {
		return active, domain.Answered{}, false, err
	}
	answered, ok, err := seq.Answer(resp)
	if err != nil {
		return active, domain.Answered{}, false, err
	}
	if ok {
		active.Tally.Add(resp)
	}
	active.Sequence = seq.Snapshot()
	return active, answered, ok, nil
}

// Record appends an answer to the review log. Call it once the card's
// schedule has reached its deck file.
func (s *ReviewService) Record(ctx context.Context, sessionID string, answered domain.Answered) error {
	entry := domain.LogEntry{
		SessionID:     sessionID,
		SourceFile:    answered.After.SourceFile,
		Front:         answered.After.Front,
		Back:          answered.After.Back,
		Response:      answered.Response,
		IntervalAfter: answered.After.Schedule.Interval,
		EaseAfter:     answered.After.Schedule.Ease,
		Due:           answered.After.Schedule.Due,
		ReviewedAt:    s.clock.Now(),
	}
	if before := answered.Before.Schedule; before != nil {
		entry.IntervalBefore = before.Interval
		entry.EaseBefore = before.Ease
	}
	return s.log.Append(ctx, entry)
}

// End closes the review and writes its note.
func (s *ReviewService) End(ctx context.Context, active domain.ActiveReview) (domain.Review, string, error) {
	seq, err := s.Sequencer(active)
	if err != nil {
		return domain.Review{}, "", err
	}
	endedAt := s.clock.Now()
	duration := int(endedAt.Sub(active.StartedAt).Minutes())
	if duration < 0 {
		duration = 0
	}
	progress := seq.Progress()
	review := domain.Review{
		ID:          active.SessionID,
		Label:       active.Label,
		Decks:       active.Decks,
		StartedAt:   active.StartedAt,
		EndedAt:     endedAt,
		DurationMin: duration,
		Total:       progress.Total,
		Answered:    progress.Current,
		Tally:       active.Tally,
		Completed:   !seq.HasMore(),
	}
	path, err := s.notes.Save(ctx, review)
	if err != nil {
		return domain.Review{}, "", fmt.Errorf("save review note: %w", err)
	}
	s.logger.Info("review finished", "session", review.ID, "answered", review.Answered, "total", review.Total)
	return review, path, nil
}

func (s *ReviewService) History(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrInvalidInput)
	}
	return s.log.Recent(ctx, limit)
}
