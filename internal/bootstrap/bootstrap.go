package bootstrap

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	deckinadapter "mdcards/internal/modules/deck/adapter/in"
	deckoutadapter "mdcards/internal/modules/deck/adapter/out"
	deckdomain "mdcards/internal/modules/deck/domain"
	deckservice "mdcards/internal/modules/deck/service"
	deckusecase "mdcards/internal/modules/deck/usecase"
	reviewinadapter "mdcards/internal/modules/review/adapter/in"
	reviewoutadapter "mdcards/internal/modules/review/adapter/out"
	reviewdomain "mdcards/internal/modules/review/domain"
	reviewservice "mdcards/internal/modules/review/service"
	reviewusecase "mdcards/internal/modules/review/usecase"
	"mdcards/internal/platform/clock"
	"mdcards/internal/platform/config"
	"mdcards/internal/platform/id"
	uiapp "mdcards/internal/ui/app"
)

type App struct {
	DeckCLI   deckinadapter.CLIHandler
	ReviewCLI reviewinadapter.CLIHandler
	ReviewTUI reviewinadapter.TUIHandler
}

// DefaultSettings is the configuration a vault gets without config.yaml.
func DefaultSettings() config.Settings {
	syntax := deckdomain.DefaultSyntax()
	srs := reviewdomain.DefaultSettings()
	return config.Settings{
		Syntax: config.Syntax{Separator: syntax.Separator, InverseSeparator: syntax.InverseSeparator},
		SRS: config.SRS{
			HardFactor:           srs.HardFactor,
			EasyBonus:            srs.EasyBonus,
			MaximumInterval:      srs.MaximumInterval,
			LapsesIntervalChange: srs.LapsesIntervalChange,
			BaseEase:             srs.BaseEase,
			MaxLinkFactor:        srs.MaxLinkFactor,
		},
	}
}

// LoadConfig reads the vault configuration and rejects values the card
// syntax or the scheduler would refuse.
func LoadConfig(vaultPath string) (config.Config, error) {
	cfg, err := config.Load(vaultPath, DefaultSettings())
	if err != nil {
		return config.Config{}, err
	}
	if err := syntaxFrom(cfg).Validate(); err != nil {
		return config.Config{}, fmt.Errorf("syntax: %w", err)
	}
	if err := settingsFrom(cfg).Validate(); err != nil {
		return config.Config{}, fmt.Errorf("srs: %w", err)
	}
	return cfg, nil
}

func syntaxFrom(cfg config.Config) deckdomain.Syntax {
	return deckdomain.Syntax{Separator: cfg.Syntax.Separator, InverseSeparator: cfg.Syntax.InverseSeparator}
}

func settingsFrom(cfg config.Config) reviewdomain.Settings {
	return reviewdomain.Settings{
		HardFactor:           cfg.SRS.HardFactor,
		EasyBonus:            cfg.SRS.EasyBonus,
		MaximumInterval:      cfg.SRS.MaximumInterval,
		LapsesIntervalChange: cfg.SRS.LapsesIntervalChange,
		BaseEase:             cfg.SRS.BaseEase,
		MaxLinkFactor:        cfg.SRS.MaxLinkFactor,
	}
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	syntax := syntaxFrom(cfg)
	if err := syntax.Validate(); err != nil {
		return nil, err
	}
	deckStore := deckoutadapter.NewVaultDeckStore(cfg.VaultPath, config.ReviewsDirName)
	deckProjector, err := deckoutadapter.NewSQLiteScheduleProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new schedule projector: %w", err)
	}
	deckUC := deckusecase.NewInteractor(deckservice.NewDeckService(clk, deckStore, deckProjector, syntax, logger))

	calc, err := reviewdomain.NewCalculator(settingsFrom(cfg), clk)
	if err != nil {
		return nil, fmt.Errorf("new calculator: %w", err)
	}
	reviewLog, err := reviewoutadapter.NewSQLiteReviewLog(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new review log: %w", err)
	}
	reviewUC := reviewusecase.NewInteractor(
		reviewservice.NewReviewService(clk, ids, calc, reviewLog, reviewoutadapter.NewVaultNoteStore(cfg.ReviewsDir), logger),
		reviewoutadapter.NewDeckCardAdapter(deckUC),
		reviewoutadapter.NewDeckScheduleAdapter(deckUC),
		reviewoutadapter.NewFileActiveReviewStore(cfg.ActiveReviewPath),
	)

	return &App{
		DeckCLI:   deckinadapter.NewCLIHandler(deckUC),
		ReviewCLI: reviewinadapter.NewCLIHandler(reviewUC),
		ReviewTUI: reviewinadapter.NewTUIHandler(reviewUC),
	}, nil
}

func RunTUI(vaultPath string, app *App) error {
	model := uiapp.NewModel(vaultPath, app.DeckCLI, app.ReviewTUI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
