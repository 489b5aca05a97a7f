package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	reviewout "mdcards/internal/modules/review/adapter/out"
	"mdcards/internal/modules/review/domain"
	reviewdto "mdcards/internal/modules/review/dto"
	reviewin "mdcards/internal/modules/review/port/in"
	"mdcards/internal/modules/review/service"
	"mdcards/internal/modules/review/usecase"
	"mdcards/internal/platform/clock"
	apperrors "mdcards/internal/platform/errors"
	"mdcards/internal/platform/logging"
)

var start = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{}

func (fakeID) New() string { return "review-1" }

type fakeCards struct {
	cards []domain.Card
	asked []string
}

func (f *fakeCards) LoadCards(_ context.Context, decks []string) ([]domain.Card, error) {
	f.asked = decks
	return f.cards, nil
}

func (f *fakeCards) DeckTitle(context.Context, string) (string, error) {
	return "Capitals", nil
}

type fakeSink struct {
	batches [][]domain.Card
	fail    error
}

func (f *fakeSink) SaveSchedules(_ context.Context, cards []domain.Card) (domain.SaveReport, error) {
	if f.fail != nil {
		return domain.SaveReport{}, f.fail
	}
	f.batches = append(f.batches, cards)
	return domain.SaveReport{Matched: len(cards)}, nil
}

type memoryLog struct {
	entries []domain.LogEntry
}

func (m *memoryLog) Append(_ context.Context, entry domain.LogEntry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryLog) Recent(_ context.Context, limit int) ([]domain.LogEntry, error) {
	out := make([]domain.LogEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type fixture struct {
	uc    reviewin.Usecase
	cards *fakeCards
	sink  *fakeSink
	log   *memoryLog
	vault string
}

func newFixture(t *testing.T, clk clock.Clock, cards []domain.Card) fixture {
	t.Helper()
	vault := t.TempDir()
	calc, err := domain.NewCalculator(domain.DefaultSettings(), clk)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	log := &memoryLog{}
	source := &fakeCards{cards: cards}
	sink := &fakeSink{}
	svc := service.NewReviewService(clk, fakeID{}, calc, log, reviewout.NewVaultNoteStore(filepath.Join(vault, "reviews")), logging.Discard())
	active := reviewout.NewFileActiveReviewStore(filepath.Join(vault, ".mdcards", "active-review.json"))
	return fixture{
		uc:    usecase.NewInteractor(svc, source, sink, active),
		cards: source,
		sink:  sink,
		log:   log,
		vault: vault,
	}
}

func card(front string, schedule *domain.ScheduleInfo) domain.Card {
	return domain.Card{Front: front, Back: front + "!", Type: "basic", Context: []string{}, SourceFile: "capitals.md", Schedule: schedule}
}

func TestReviewLifecycle(t *testing.T) {
	t.Parallel()
	clk := &fakeClock{values: []time.Time{start, start.Add(time.Minute), start.Add(2 * time.Minute), start.Add(25 * time.Minute)}}
	f := newFixture(t, clk, []domain.Card{
		card("new", nil),
		card("due", &domain.ScheduleInfo{Interval: 4, Ease: 250, Due: start.Add(-time.Hour), IsDue: true}),
	})
	ctx := context.Background()

	started, err := f.uc.Start(ctx, reviewdto.StartInput{Decks: []string{"capitals.md"}})
	if err != nil {
		t.Fatalf("start review: %v", err)
	}
	if started.SessionID != "review-1" || started.Label != "Capitals" || started.Total != 2 {
		t.Fatalf("unexpected start output: %+v", started)
	}
	if started.Current == nil || started.Current.Front != "due" {
		t.Fatalf("expected due card first, got %+v", started.Current)
	}
	if _, err := f.uc.Start(ctx, reviewdto.StartInput{}); !errors.Is(err, apperrors.ErrActiveReviewExists) {
		t.Fatalf("expected active review exists, got %v", err)
	}

	first, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "good"})
	if err != nil {
		t.Fatalf("answer good: %v", err)
	}
	if first.Answered.Schedule == nil || first.Answered.Schedule.Interval != 10 || first.Finished != nil {
		t.Fatalf("unexpected first answer: %+v", first)
	}
	if first.Next == nil || first.Next.Front != "new" || first.Progress.Percentage != 50 {
		t.Fatalf("unexpected next card: %+v", first)
	}
	if len(f.sink.batches) != 1 || len(f.sink.batches[0]) != 1 {
		t.Fatalf("expected immediate single-card save, got %d batches", len(f.sink.batches))
	}

	current, err := f.uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.State != "active" || current.Card == nil || current.Card.Front != "new" {
		t.Fatalf("unexpected current: %+v", current)
	}

	last, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "3"})
	if err != nil {
		t.Fatalf("answer easy: %v", err)
	}
	if last.Finished == nil || !last.Finished.Completed || last.Finished.Answered != 2 {
		t.Fatalf("expected automatic finish, got %+v", last)
	}
	if last.Finished.Tally.Good != 1 || last.Finished.Tally.Easy != 1 {
		t.Fatalf("unexpected tally: %+v", last.Finished.Tally)
	}
	if len(f.sink.batches) != 3 || len(f.sink.batches[2]) != 2 {
		t.Fatalf("expected final batch save of both cards, got %+v", f.sink.batches)
	}

	note, err := os.ReadFile(last.Finished.Path)
	if err != nil {
		t.Fatalf("read review note: %v", err)
	}
	if !strings.Contains(string(note), "label: Capitals") || !strings.Contains(string(note), "- [[capitals]]") {
		t.Fatalf("unexpected review note:\n%s", note)
	}
	if !strings.Contains(last.Finished.Path, filepath.Join("reviews", "2026", "10", "17", "090000-capitals.md")) {
		t.Fatalf("unexpected note path: %s", last.Finished.Path)
	}

	if _, err := f.uc.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveReview) {
		t.Fatalf("expected no active review, got %v", err)
	}
	history, err := f.uc.History(ctx, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Front != "new" || history[0].Response != "easy" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if f.log.entries[0].IntervalBefore != 4 || f.log.entries[1].IntervalBefore != 0 {
		t.Fatalf("unexpected log entries: %+v", f.log.entries)
	}
}

func TestAnswerRejectsInvalidResponseWithoutAdvancing(t *testing.T) {
	t.Parallel()
	f := newFixture(t, clock.Fixed(start), []domain.Card{card("a", nil), card("b", nil)})
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, reviewdto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if f.cards.asked != nil {
		t.Fatalf("expected all decks, got %v", f.cards.asked)
	}
	if _, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "again"}); !errors.Is(err, apperrors.ErrInvalidResponse) {
		t.Fatalf("expected invalid response, got %v", err)
	}
	current, err := f.uc.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Progress.Current != 0 || current.Label != "All decks" {
		t.Fatalf("unexpected current: %+v", current)
	}
}

func TestAnswerKeepsStateWhenSaveFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t, clock.Fixed(start), []domain.Card{card("a", nil), card("b", nil)})
	ctx := context.Background()
	if _, err := f.uc.Start(ctx, reviewdto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.sink.fail = errors.New("disk full")
	if _, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "good"}); err == nil {
		t.Fatalf("expected save error")
	}
	active, err := f.uc.GetActive(ctx)
	if err != nil {
		t.Fatalf("get active: %v", err)
	}
	if active.Progress.Current != 0 || active.Tally.Good != 0 {
		t.Fatalf("state advanced despite failed save: %+v", active)
	}
	for i := 0; i < 2; i++ {
		if _, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "good"}); err == nil {
			t.Fatalf("expected save error on retry")
		}
	}
	if len(f.log.entries) != 0 {
		t.Fatalf("review log has %d entries for unsaved answers", len(f.log.entries))
	}

	f.sink.fail = nil
	if _, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "good"}); err != nil {
		t.Fatalf("answer after recovery: %v", err)
	}
	if len(f.log.entries) != 1 || f.log.entries[0].Front != "a" {
		t.Fatalf("unexpected log entries: %+v", f.log.entries)
	}
}

func TestStartDueOnlyAndEmpty(t *testing.T) {
	t.Parallel()
	later := &domain.ScheduleInfo{Interval: 3, Ease: 250, Due: start.AddDate(0, 0, 3)}
	f := newFixture(t, clock.Fixed(start), []domain.Card{card("later", later)})
	ctx := context.Background()

	if _, err := f.uc.Start(ctx, reviewdto.StartInput{DueOnly: true}); !errors.Is(err, apperrors.ErrNoCardsToReview) {
		t.Fatalf("expected no cards, got %v", err)
	}
	out, err := f.uc.Start(ctx, reviewdto.StartInput{})
	if err != nil {
		t.Fatalf("start without filter: %v", err)
	}
	if out.Total != 1 {
		t.Fatalf("unexpected total: %d", out.Total)
	}
}

func TestFinishEarlyAndAbort(t *testing.T) {
	t.Parallel()
	f := newFixture(t, clock.Fixed(start), []domain.Card{card("a", nil), card("b", nil)})
	ctx := context.Background()

	if err := f.uc.Abort(ctx); !errors.Is(err, apperrors.ErrNoActiveReview) {
		t.Fatalf("expected no active review, got %v", err)
	}
	if _, err := f.uc.Start(ctx, reviewdto.StartInput{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.uc.Abort(ctx); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if len(f.sink.batches) != 0 {
		t.Fatalf("abort must not write schedules")
	}

	if _, err := f.uc.Start(ctx, reviewdto.StartInput{}); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if _, err := f.uc.Answer(ctx, reviewdto.AnswerInput{Response: "hard"}); err != nil {
		t.Fatalf("answer: %v", err)
	}
	finished, err := f.uc.Finish(ctx)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if finished.Completed || finished.Answered != 1 || finished.Total != 2 {
		t.Fatalf("unexpected finish output: %+v", finished)
	}
	if last := f.sink.batches[len(f.sink.batches)-1]; len(last) != 1 || last[0].Front != "a" {
		t.Fatalf("finish should save only answered cards, got %+v", last)
	}
}
