package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	apperrors "mdcards/internal/platform/errors"
)

const (
	StateDirName   = ".mdcards"
	ReviewsDirName = "reviews"
	fileName       = "config.yaml"
)

// Syntax holds the card separators recognised in deck files.
type Syntax struct {
	Separator        string `yaml:"separator"`
	InverseSeparator string `yaml:"inverse_separator"`
}

// SRS holds the scheduling knobs. Ease values are percentages (250 = 2.5x).
type SRS struct {
	HardFactor           float64 `yaml:"hard_factor"`
	EasyBonus            float64 `yaml:"easy_bonus"`
	MaximumInterval      int     `yaml:"maximum_interval"`
	LapsesIntervalChange float64 `yaml:"lapses_interval_change"`
	BaseEase             int     `yaml:"base_ease"`
	MaxLinkFactor        float64 `yaml:"max_link_factor"`
}

type Config struct {
	VaultPath        string
	StateDir         string
	DBPath           string
	ActiveReviewPath string
	ReviewsDir       string
	Syntax           Syntax
	SRS              SRS
}

// Settings is the overridable part of the configuration, as it appears
// in config.yaml.
type Settings struct {
	Syntax Syntax `yaml:"syntax"`
	SRS    SRS    `yaml:"srs"`
}

// New derives every path from the vault and starts from defaults.
func New(vaultPath string, defaults Settings) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	stateDir := filepath.Join(vaultPath, StateDirName)
	return Config{
		VaultPath:        vaultPath,
		StateDir:         stateDir,
		DBPath:           filepath.Join(stateDir, "mdcards.db"),
		ActiveReviewPath: filepath.Join(stateDir, "active-review.json"),
		ReviewsDir:       filepath.Join(vaultPath, ReviewsDirName),
		Syntax:           defaults.Syntax,
		SRS:              defaults.SRS,
	}, nil
}

// Load is New plus the optional .mdcards/config.yaml overrides.
// Keys missing from the file keep their defaults. Range checks belong to
// the packages that own the settings.
func Load(vaultPath string, defaults Settings) (Config, error) {
	cfg, err := New(vaultPath, defaults)
	if err != nil {
		return Config{}, err
	}
	path := filepath.Join(cfg.StateDir, fileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	file := Settings{Syntax: cfg.Syntax, SRS: cfg.SRS}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	cfg.Syntax = file.Syntax
	cfg.SRS = file.SRS
	return cfg, nil
}
