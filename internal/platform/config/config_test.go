package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mdcards/internal/platform/config"
	apperrors "mdcards/internal/platform/errors"
)

var defaults = config.Settings{
	Syntax: config.Syntax{Separator: ";;", InverseSeparator: ";;;"},
	SRS: config.SRS{
		HardFactor:           1.2,
		EasyBonus:            1.3,
		MaximumInterval:      36525,
		LapsesIntervalChange: 0.5,
		BaseEase:             250,
		MaxLinkFactor:        0.3,
	},
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	cfg, err := config.Load(vault, defaults)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Syntax != defaults.Syntax {
		t.Fatalf("unexpected syntax: %+v", cfg.Syntax)
	}
	if cfg.SRS != defaults.SRS {
		t.Fatalf("unexpected srs: %+v", cfg.SRS)
	}
	if cfg.DBPath != filepath.Join(vault, ".mdcards", "mdcards.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeConfig(t, vault, "syntax:\n  separator: \"::\"\n  inverse_separator: \":::\"\nsrs:\n  easy_bonus: 1.5\n")

	cfg, err := config.Load(vault, defaults)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Syntax.Separator != "::" || cfg.Syntax.InverseSeparator != ":::" {
		t.Fatalf("unexpected syntax: %+v", cfg.Syntax)
	}
	if cfg.SRS.EasyBonus != 1.5 {
		t.Fatalf("expected easy bonus override, got %v", cfg.SRS.EasyBonus)
	}
	if cfg.SRS.BaseEase != 250 || cfg.SRS.HardFactor != 1.2 {
		t.Fatalf("expected remaining defaults, got %+v", cfg.SRS)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	writeConfig(t, vault, "srs: [\n")

	_, err := config.Load(vault, defaults)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestNewRequiresVault(t *testing.T) {
	t.Parallel()
	if _, err := config.New("", defaults); err == nil {
		t.Fatalf("expected error for empty vault path")
	}
}

func writeConfig(t *testing.T, vault, body string) {
	t.Helper()
	dir := filepath.Join(vault, ".mdcards")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
