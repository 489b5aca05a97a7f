package out

import (
	"context"

	deckdto "mdcards/internal/modules/deck/dto"
	deckin "mdcards/internal/modules/deck/port/in"
	"mdcards/internal/modules/review/domain"
	reviewout "mdcards/internal/modules/review/port/out"
)

// DeckCardAdapter serves review cards from the deck module.
type DeckCardAdapter struct {
	decks deckin.Usecase
}

func NewDeckCardAdapter(decks deckin.Usecase) reviewout.CardSource {
	return &DeckCardAdapter{decks: decks}
}

func (a *DeckCardAdapter) LoadCards(ctx context.Context, decks []string) ([]domain.Card, error) {
	cards, err := a.decks.LoadCards(ctx, deckdto.LoadCardsInput{Paths: decks})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		card := domain.Card{
			Front:      c.Front,
			Back:       c.Back,
			Type:       c.Type,
			Context:    append([]string{}, c.Context...),
			SourceFile: c.SourceFile,
		}
		if c.Schedule != nil {
			card.Schedule = &domain.ScheduleInfo{
				Interval: c.Schedule.Interval,
				Ease:     c.Schedule.Ease,
				Due:      c.Schedule.Due,
				IsDue:    c.Schedule.IsDue,
			}
		}
		out = append(out, card)
	}
	return out, nil
}

func (a *DeckCardAdapter) DeckTitle(ctx context.Context, deck string) (string, error) {
	detail, err := a.decks.GetDeck(ctx, deck)
	if err != nil {
		return "", err
	}
	return detail.Deck.Title, nil
}

// DeckScheduleAdapter writes answered cards back through the deck module.
type DeckScheduleAdapter struct {
	decks deckin.Usecase
}

func NewDeckScheduleAdapter(decks deckin.Usecase) reviewout.ScheduleSink {
	return &DeckScheduleAdapter{decks: decks}
}

func (a *DeckScheduleAdapter) SaveSchedules(ctx context.Context, cards []domain.Card) (domain.SaveReport, error) {
	updates := make([]deckdto.ScheduleUpdateInput, 0, len(cards))
	skipped := 0
	for _, c := range cards {
		if c.Schedule == nil {
			continue
		}
		if c.IsReversed() {
			skipped++
			continue
		}
		updates = append(updates, deckdto.ScheduleUpdateInput{
			SourceFile: c.SourceFile,
			Front:      c.Front,
			Back:       c.Back,
			Interval:   c.Schedule.Interval,
			Ease:       c.Schedule.Ease,
			Due:        c.Schedule.Due,
		})
	}
	if len(updates) == 0 {
		return domain.SaveReport{Skipped: skipped}, nil
	}
	out, err := a.decks.SaveSchedules(ctx, deckdto.SaveSchedulesInput{Updates: updates})
	if err != nil {
		return domain.SaveReport{}, err
	}
	return domain.SaveReport{Matched: out.Matched, Unmatched: len(out.Unmatched), Skipped: skipped}, nil
}
