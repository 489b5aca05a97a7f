package usecase

import (
	"context"

	"mdcards/internal/modules/deck/domain"
	"mdcards/internal/modules/deck/dto"
	deckin "mdcards/internal/modules/deck/port/in"
	"mdcards/internal/modules/deck/service"
)

type Interactor struct {
	svc *service.DeckService
}

func NewInteractor(svc *service.DeckService) deckin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ListDecks(ctx context.Context) ([]dto.DeckOutput, error) {
	decks, err := i.svc.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeckOutput, 0, len(decks))
	for _, deck := range decks {
		out = append(out, toDeckOutput(deck))
	}
	return out, nil
}

func (i *Interactor) GetDeck(ctx context.Context, path string) (dto.DeckDetailOutput, error) {
	deck, err := i.svc.GetDeck(ctx, path)
	if err != nil {
		return dto.DeckDetailOutput{}, err
	}
	return dto.DeckDetailOutput{Deck: toDeckOutput(deck), Cards: toCardOutputs(deck.Cards)}, nil
}

func (i *Interactor) LoadCards(ctx context.Context, input dto.LoadCardsInput) ([]dto.CardOutput, error) {
	cards, err := i.svc.LoadCards(ctx, input.Paths)
	if err != nil {
		return nil, err
	}
	return toCardOutputs(cards), nil
}

func (i *Interactor) SaveSchedules(ctx context.Context, input dto.SaveSchedulesInput) (dto.SaveSchedulesOutput, error) {
	updates := make([]domain.CardUpdate, 0, len(input.Updates))
	for _, u := range input.Updates {
		updates = append(updates, domain.CardUpdate{
			SourceFile: u.SourceFile,
			Front:      u.Front,
			Back:       u.Back,
			Interval:   u.Interval,
			Ease:       u.Ease,
			Due:        u.Due,
		})
	}
	report, err := i.svc.SaveSchedules(ctx, updates)
	if err != nil {
		return dto.SaveSchedulesOutput{}, err
	}
	unmatched := make([]dto.ScheduleUpdateInput, 0, len(report.Unmatched))
	for _, u := range report.Unmatched {
		unmatched = append(unmatched, dto.ScheduleUpdateInput{
			SourceFile: u.SourceFile,
			Front:      u.Front,
			Back:       u.Back,
			Interval:   u.Interval,
			Ease:       u.Ease,
			Due:        u.Due,
		})
	}
	return dto.SaveSchedulesOutput{FilesWritten: report.FilesWritten, Matched: report.Matched, Unmatched: unmatched}, nil
}

func (i *Interactor) DueSummary(ctx context.Context) ([]dto.DueSummaryOutput, error) {
	summaries, err := i.svc.DueSummary(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DueSummaryOutput, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.DueSummaryOutput{Path: s.Path, Total: s.Total, Due: s.Due, New: s.New, NextDue: s.NextDue})
	}
	return out, nil
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func toDeckOutput(deck domain.Deck) dto.DeckOutput {
	total, due, fresh := deck.Counts()
	return dto.DeckOutput{
		Path:      deck.Path,
		Title:     deck.Title,
		Tags:      deck.Tags,
		CardCount: total,
		DueCount:  due,
		NewCount:  fresh,
	}
}

func toCardOutputs(cards []domain.Card) []dto.CardOutput {
	out := make([]dto.CardOutput, 0, len(cards))
	for _, c := range cards {
		card := dto.CardOutput{
			Front:      c.Front,
			Back:       c.Back,
			Type:       string(c.Type),
			Context:    c.Context,
			SourceFile: c.SourceFile,
		}
		if c.Schedule != nil {
			card.Schedule = &dto.ScheduleOutput{
				Interval: c.Schedule.Interval,
				Ease:     c.Schedule.Ease,
				Due:      c.Schedule.Due,
				IsDue:    c.Schedule.IsDue,
			}
		}
		out = append(out, card)
	}
	return out
}
