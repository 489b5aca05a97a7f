package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	deckout "mdcards/internal/modules/deck/adapter/out"
	deckdomain "mdcards/internal/modules/deck/domain"
	deckservice "mdcards/internal/modules/deck/service"
	deckusecase "mdcards/internal/modules/deck/usecase"
	reviewout "mdcards/internal/modules/review/adapter/out"
	"mdcards/internal/modules/review/domain"
	reviewdto "mdcards/internal/modules/review/dto"
	"mdcards/internal/modules/review/service"
	"mdcards/internal/modules/review/usecase"
	"mdcards/internal/platform/clock"
	"mdcards/internal/platform/id"
	"mdcards/internal/platform/logging"
)

func TestReviewWritesSchedulesIntoDeckFiles(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	deckPath := filepath.Join(vault, "capitals.md")
	original := "# Capitals\n\nParis ;; France\n<!-- SRS: interval=1, ease=250, due=2026-10-16T09:00:00.000Z -->\n\n? Capital of Spain\nMadrid\n\nSome closing prose.\n"
	if err := os.WriteFile(deckPath, []byte(original), 0o644); err != nil {
		t.Fatalf("write deck: %v", err)
	}
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	clk := clock.Fixed(now)
	dbPath := filepath.Join(vault, ".mdcards", "mdcards.db")
	logger := logging.Discard()

	projector, err := deckout.NewSQLiteScheduleProjector(dbPath)
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	decks := deckusecase.NewInteractor(deckservice.NewDeckService(clk, deckout.NewVaultDeckStore(vault, "reviews"), projector, deckdomain.DefaultSyntax(), logger))

	reviewLog, err := reviewout.NewSQLiteReviewLog(dbPath)
	if err != nil {
		t.Fatalf("new review log: %v", err)
	}
	calc, err := domain.NewCalculator(domain.DefaultSettings(), clk)
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	svc := service.NewReviewService(clk, id.UUID{}, calc, reviewLog, reviewout.NewVaultNoteStore(filepath.Join(vault, "reviews")), logger)
	uc := usecase.NewInteractor(svc,
		reviewout.NewDeckCardAdapter(decks),
		reviewout.NewDeckScheduleAdapter(decks),
		reviewout.NewFileActiveReviewStore(filepath.Join(vault, ".mdcards", "active-review.json")),
	)
	ctx := context.Background()

	started, err := uc.Start(ctx, reviewdto.StartInput{Decks: []string{"capitals.md"}})
	if err != nil {
		t.Fatalf("start review: %v", err)
	}
	if started.Total != 2 || started.Current.Front != "Paris" || started.Label != "capitals" {
		t.Fatalf("unexpected start: %+v", started)
	}

	if _, err := uc.Answer(ctx, reviewdto.AnswerInput{Response: "good"}); err != nil {
		t.Fatalf("answer good: %v", err)
	}
	afterFirst, err := os.ReadFile(deckPath)
	if err != nil {
		t.Fatalf("read deck: %v", err)
	}
	wantFirst := "# Capitals\n\nParis ;; France\n<!-- SRS: interval=3, ease=250, due=2026-10-20T09:00:00.000Z -->\n\n? Capital of Spain\nMadrid\n\nSome closing prose.\n"
	if string(afterFirst) != wantFirst {
		t.Fatalf("unexpected deck after first answer:\n%s", afterFirst)
	}

	done, err := uc.Answer(ctx, reviewdto.AnswerInput{Response: "hard"})
	if err != nil {
		t.Fatalf("answer hard: %v", err)
	}
	if done.Finished == nil || !done.Finished.Completed {
		t.Fatalf("expected finished review, got %+v", done)
	}
	final, err := os.ReadFile(deckPath)
	if err != nil {
		t.Fatalf("read deck: %v", err)
	}
	wantFinal := "# Capitals\n\nParis ;; France\n<!-- SRS: interval=3, ease=250, due=2026-10-20T09:00:00.000Z -->\n\n? Capital of Spain\nMadrid\n<!-- SRS: interval=1, ease=230, due=2026-10-18T09:00:00.000Z -->\n\nSome closing prose.\n"
	if string(final) != wantFinal {
		t.Fatalf("unexpected final deck:\n%s", final)
	}
	if !strings.HasPrefix(done.Finished.Path, filepath.Join(vault, "reviews")) {
		t.Fatalf("unexpected note path %s", done.Finished.Path)
	}

	listed, err := decks.ListDecks(ctx)
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("review notes must not be listed as decks: %+v", listed)
	}

	history, err := uc.History(ctx, 5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Front != "Capital of Spain" || history[1].IntervalAfter != 3 {
		t.Fatalf("unexpected history: %+v", history)
	}
}
