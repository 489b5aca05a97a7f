package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"mdcards/internal/modules/deck/domain"
	deckout "mdcards/internal/modules/deck/port/out"
	"mdcards/internal/platform/clock"
	apperrors "mdcards/internal/platform/errors"
)

type DeckService struct {
	clock     clock.Clock
	store     deckout.DeckStore
	projector deckout.ScheduleProjector
	syntax    domain.Syntax
	logger    *slog.Logger
}

func NewDeckService(clock clock.Clock, store deckout.DeckStore, projector deckout.ScheduleProjector, syntax domain.Syntax, logger *slog.Logger) *DeckService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckService{clock: clock, store: store, projector: projector, syntax: syntax, logger: logger}
}

// SaveReport summarises one SaveSchedules call.
type SaveReport struct {
	FilesWritten int
	Matched      int
	Unmatched    []domain.CardUpdate
}

func (s *DeckService) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	paths, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadDecks(ctx, paths)
}

func (s *DeckService) GetDeck(ctx context.Context, deckPath string) (domain.Deck, error) {
	decks, err := s.loadDecks(ctx, []string{deckPath})
	if err != nil {
		return domain.Deck{}, err
	}
	return decks[0], nil
}

// LoadCards parses the given decks, or every deck when paths is empty, and
// refreshes their projection rows on the way.
func (s *DeckService) LoadCards(ctx context.Context, paths []string) ([]domain.Card, error) {
	if len(paths) == 0 {
		all, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		paths = all
	}
	decks, err := s.loadDecks(ctx, paths)
	if err != nil {
		return nil, err
	}
	cards := make([]domain.Card, 0)
	for _, deck := range decks {
		if err := s.projector.ReplaceDeck(ctx, deck.Path, deck.Cards); err != nil {
			return nil, err
		}
		cards = append(cards, deck.Cards...)
	}
	return cards, nil
}

// SaveSchedules merges updates into their files, one read and at most one
// write per file. Unmatched updates are reported and logged, not failed.
func (s *DeckService) SaveSchedules(ctx context.Context, updates []domain.CardUpdate) (SaveReport, error) {
	order := make([]string, 0)
	byFile := map[string][]domain.CardUpdate{}
	for _, u := range updates {
		if strings.TrimSpace(u.SourceFile) == "" {
			return SaveReport{}, fmt.Errorf("%w: update for %q has no source file", apperrors.ErrInvalidInput, u.Front)
		}
		file := path.Clean(u.SourceFile)
		if _, seen := byFile[file]; !seen {
			order = append(order, file)
		}
		byFile[file] = append(byFile[file], u)
	}

	report := SaveReport{Unmatched: []domain.CardUpdate{}}
	for _, file := range order {
		deckFile, err := s.store.Read(ctx, file)
		if err != nil {
			return report, err
		}
		result := domain.UpdateContent(deckFile.Content, byFile[file], s.syntax)
		report.Matched += result.Matched
		for _, u := range result.Unmatched {
			s.logger.Warn("card not found in deck", "file", file, "front", u.Front, "back", u.Back)
			report.Unmatched = append(report.Unmatched, u)
		}
		if result.Content == deckFile.Content {
			continue
		}
		if err := s.store.Write(ctx, file, result.Content); err != nil {
			return report, err
		}
		report.FilesWritten++
		deckFile.Content = result.Content
		deck := domain.NewDeck(deckFile, s.syntax, s.clock.Now())
		if err := s.projector.ReplaceDeck(ctx, deck.Path, deck.Cards); err != nil {
			return report, err
		}
		s.logger.Debug("schedules saved", "file", file, "matched", result.Matched)
	}
	return report, nil
}

func (s *DeckService) DueSummary(ctx context.Context) ([]domain.DueSummary, error) {
	return s.projector.DueSummary(ctx, s.clock.Now())
}

// Reindex rebuilds the schedule projection from the vault.
func (s *DeckService) Reindex(ctx context.Context) error {
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	decks, err := s.ListDecks(ctx)
	if err != nil {
		return err
	}
	for _, deck := range decks {
		if err := s.projector.ReplaceDeck(ctx, deck.Path, deck.Cards); err != nil {
			return err
		}
	}
	s.logger.Info("reindexed decks", "count", len(decks))
	return nil
}

func (s *DeckService) loadDecks(ctx context.Context, paths []string) ([]domain.Deck, error) {
	now := s.clock.Now()
	decks := make([]domain.Deck, 0, len(paths))
	for _, p := range paths {
		p = path.Clean(strings.TrimSpace(p))
		if !domain.IsDeckFile(p) {
			return nil, fmt.Errorf("%w: %q is not a .md or .txt file", apperrors.ErrInvalidInput, p)
		}
		file, err := s.store.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		decks = append(decks, domain.NewDeck(file, s.syntax, now))
	}
	return decks, nil
}
