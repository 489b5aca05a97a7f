package usecase

import (
	"context"
	"errors"
	"fmt"

	"mdcards/internal/modules/review/domain"
	reviewdto "mdcards/internal/modules/review/dto"
	reviewin "mdcards/internal/modules/review/port/in"
	reviewout "mdcards/internal/modules/review/port/out"
	"mdcards/internal/modules/review/service"
	apperrors "mdcards/internal/platform/errors"
)

const allDecksLabel = "All decks"

type Interactor struct {
	svc         *service.ReviewService
	cards       reviewout.CardSource
	sink        reviewout.ScheduleSink
	activeStore reviewout.ActiveReviewStore
}

func NewInteractor(svc *service.ReviewService, cards reviewout.CardSource, sink reviewout.ScheduleSink, activeStore reviewout.ActiveReviewStore) reviewin.Usecase {
	return &Interactor{svc: svc, cards: cards, sink: sink, activeStore: activeStore}
}

func (i *Interactor) Start(ctx context.Context, input reviewdto.StartInput) (reviewdto.StartOutput, error) {
	_, err := i.activeStore.LoadActive(ctx)
	if err == nil {
		return reviewdto.StartOutput{}, apperrors.ErrActiveReviewExists
	}
	if !errors.Is(err, apperrors.ErrNoActiveReview) {
		return reviewdto.StartOutput{}, err
	}

	cards, err := i.cards.LoadCards(ctx, input.Decks)
	if err != nil {
		return reviewdto.StartOutput{}, err
	}
	label, err := i.label(ctx, input.Decks)
	if err != nil {
		return reviewdto.StartOutput{}, err
	}
	active, err := i.svc.Start(ctx, label, input.Decks, input.DueOnly, cards)
	if err != nil {
		return reviewdto.StartOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return reviewdto.StartOutput{}, err
	}
	seq, err := i.svc.Sequencer(active)
	if err != nil {
		return reviewdto.StartOutput{}, err
	}
	return reviewdto.StartOutput{
		SessionID: active.SessionID,
		Label:     active.Label,
		StartedAt: active.StartedAt,
		Total:     seq.Progress().Total,
		Current:   currentCard(seq),
		Progress:  toProgress(seq.Progress()),
	}, nil
}

func (i *Interactor) Current(ctx context.Context) (reviewdto.CurrentOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return reviewdto.CurrentOutput{}, err
	}
	seq, err := i.svc.Sequencer(active)
	if err != nil {
		return reviewdto.CurrentOutput{}, err
	}
	return reviewdto.CurrentOutput{
		SessionID: active.SessionID,
		Label:     active.Label,
		State:     seq.State().String(),
		Card:      currentCard(seq),
		Progress:  toProgress(seq.Progress()),
	}, nil
}

// Answer grades the current card, writes its schedule to the deck file
// right away and finishes the review once no cards are left.
func (i *Interactor) Answer(ctx context.Context, input reviewdto.AnswerInput) (reviewdto.AnswerOutput, error) {
	resp, err := domain.ParseResponse(input.Response)
	if err != nil {
		return reviewdto.AnswerOutput{}, err
	}
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return reviewdto.AnswerOutput{}, err
	}
	active, answered, ok, err := i.svc.Answer(ctx, active, resp)
	if err != nil {
		return reviewdto.AnswerOutput{}, err
	}

	out := reviewdto.AnswerOutput{Response: resp.String()}
	if ok {
		report, err := i.sink.SaveSchedules(ctx, []domain.Card{answered.After})
		if err != nil {
			return reviewdto.AnswerOutput{}, fmt.Errorf("save answered card: %w", err)
		}
		if err := i.svc.Record(ctx, active.SessionID, answered); err != nil {
			return reviewdto.AnswerOutput{}, err
		}
		out.Answered = toCardOutput(answered.After)
		out.Unmatched = report.Unmatched
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return reviewdto.AnswerOutput{}, err
	}

	seq, err := i.svc.Sequencer(active)
	if err != nil {
		return reviewdto.AnswerOutput{}, err
	}
	out.Next = currentCard(seq)
	out.Progress = toProgress(seq.Progress())
	if !seq.HasMore() {
		finished, err := i.finish(ctx, active)
		if err != nil {
			return reviewdto.AnswerOutput{}, err
		}
		out.Finished = &finished
	}
	return out, nil
}

func (i *Interactor) Finish(ctx context.Context) (reviewdto.FinishOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return reviewdto.FinishOutput{}, err
	}
	return i.finish(ctx, active)
}

func (i *Interactor) Abort(ctx context.Context) error {
	if _, err := i.activeStore.LoadActive(ctx); err != nil {
		return err
	}
	return i.activeStore.ClearActive(ctx)
}

func (i *Interactor) GetActive(ctx context.Context) (reviewdto.ActiveReviewOutput, error) {
	active, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return reviewdto.ActiveReviewOutput{}, err
	}
	seq, err := i.svc.Sequencer(active)
	if err != nil {
		return reviewdto.ActiveReviewOutput{}, err
	}
	return reviewdto.ActiveReviewOutput{
		SessionID: active.SessionID,
		Label:     active.Label,
		Decks:     active.Decks,
		DueOnly:   active.DueOnly,
		StartedAt: active.StartedAt,
		Progress:  toProgress(seq.Progress()),
		Tally:     toTally(active.Tally),
	}, nil
}

func (i *Interactor) History(ctx context.Context, limit int) ([]reviewdto.HistoryEntryOutput, error) {
	entries, err := i.svc.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]reviewdto.HistoryEntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, reviewdto.HistoryEntryOutput{
			SessionID:     e.SessionID,
			SourceFile:    e.SourceFile,
			Front:         e.Front,
			Response:      e.Response.String(),
			IntervalAfter: e.IntervalAfter,
			EaseAfter:     e.EaseAfter,
			Due:           e.Due,
			ReviewedAt:    e.ReviewedAt,
		})
	}
	return out, nil
}

// finish saves every answered card once more as a batch, writes the review
// note and clears the active review.
func (i *Interactor) finish(ctx context.Context, active domain.ActiveReview) (reviewdto.FinishOutput, error) {
	seq, err := i.svc.Sequencer(active)
	if err != nil {
		return reviewdto.FinishOutput{}, err
	}
	if answered := seq.AnsweredCards(); len(answered) > 0 {
		if _, err := i.sink.SaveSchedules(ctx, answered); err != nil {
			return reviewdto.FinishOutput{}, fmt.Errorf("save review schedules: %w", err)
		}
	}
	review, path, err := i.svc.End(ctx, active)
	if err != nil {
		return reviewdto.FinishOutput{}, err
	}
	if err := i.activeStore.ClearActive(ctx); err != nil {
		return reviewdto.FinishOutput{}, err
	}
	return reviewdto.FinishOutput{
		SessionID:   review.ID,
		Path:        path,
		DurationMin: review.DurationMin,
		Total:       review.Total,
		Answered:    review.Answered,
		Tally:       toTally(review.Tally),
		Completed:   review.Completed,
	}, nil
}

func (i *Interactor) label(ctx context.Context, decks []string) (string, error) {
	switch len(decks) {
	case 0:
		return allDecksLabel, nil
	case 1:
		return i.cards.DeckTitle(ctx, decks[0])
	default:
		return fmt.Sprintf("%d decks", len(decks)), nil
	}
}

func currentCard(seq *domain.Sequencer) *reviewdto.CardOutput {
	card, ok := seq.Current()
	if !ok {
		return nil
	}
	out := toCardOutput(card)
	return &out
}

func toCardOutput(card domain.Card) reviewdto.CardOutput {
	out := reviewdto.CardOutput{
		Front:      card.Front,
		Back:       card.Back,
		Type:       card.Type,
		SourceFile: card.SourceFile,
	}
	if card.Schedule != nil {
		out.Schedule = &reviewdto.ScheduleOutput{
			Interval: card.Schedule.Interval,
			Ease:     card.Schedule.Ease,
			Due:      card.Schedule.Due,
			IsDue:    card.Schedule.IsDue,
		}
	}
	return out
}

func toProgress(p domain.Progress) reviewdto.ProgressOutput {
	return reviewdto.ProgressOutput{Current: p.Current, Total: p.Total, Percentage: p.Percentage}
}

func toTally(t domain.Tally) reviewdto.TallyOutput {
	return reviewdto.TallyOutput{Hard: t.Hard, Good: t.Good, Easy: t.Easy}
}
