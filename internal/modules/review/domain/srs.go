package domain

import (
	"fmt"
	"math"
	"time"

	"mdcards/internal/platform/clock"
	apperrors "mdcards/internal/platform/errors"
)

// MinEase is the floor for ease; there is no ceiling.
const MinEase = 130

const (
	hardEasePenalty = 20
	easyEaseBonus   = 15
)

// Settings are fixed for the lifetime of a calculator. LapsesIntervalChange
// and MaxLinkFactor are accepted for compatibility and not used.
type Settings struct {
	HardFactor           float64
	EasyBonus            float64
	MaximumInterval      int
	LapsesIntervalChange float64
	BaseEase             int
	MaxLinkFactor        float64
}

func DefaultSettings() Settings {
	return Settings{
		HardFactor:           1.2,
		EasyBonus:            1.3,
		MaximumInterval:      36525,
		LapsesIntervalChange: 0.5,
		BaseEase:             250,
		MaxLinkFactor:        0.3,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.HardFactor <= 0:
		return fmt.Errorf("%w: hard factor must be positive", apperrors.ErrInvalidInput)
	case s.EasyBonus <= 0:
		return fmt.Errorf("%w: easy bonus must be positive", apperrors.ErrInvalidInput)
	case s.MaximumInterval < 1:
		return fmt.Errorf("%w: maximum interval must be at least 1", apperrors.ErrInvalidInput)
	case s.BaseEase < MinEase:
		return fmt.Errorf("%w: base ease must be at least %d", apperrors.ErrInvalidInput, MinEase)
	case s.LapsesIntervalChange < 0 || s.MaxLinkFactor < 0:
		return fmt.Errorf("%w: factors must not be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

// Schedule is the outcome of answering a card.
type Schedule struct {
	Interval int
	Ease     int
	Due      time.Time
}

type Calculator struct {
	settings Settings
	clock    clock.Clock
}

func NewCalculator(settings Settings, clk clock.Clock) (*Calculator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Calculator{settings: settings, clock: clk}, nil
}

func (c *Calculator) Settings() Settings {
	return c.settings
}

func (c *Calculator) Now() time.Time {
	return c.clock.Now()
}

// Schedule computes the next interval (days) and ease for a card currently
// at interval/ease. Inputs below their floors are raised first.
func (c *Calculator) Schedule(resp Response, interval, ease int) (Schedule, error) {
	interval = max(interval, 1)
	ease = max(ease, MinEase)

	var raw float64
	switch resp {
	case Hard:
		raw = float64(interval) * c.settings.HardFactor
		ease = max(MinEase, ease-hardEasePenalty)
	case Good:
		raw = float64(interval) * float64(ease) / 100
	case Easy:
		raw = float64(interval) * float64(ease) / 100 * c.settings.EasyBonus
		ease += easyEaseBonus
	default:
		return Schedule{}, fmt.Errorf("schedule card: %w: %d", apperrors.ErrInvalidResponse, int(resp))
	}
	next := c.clampInterval(raw)
	return Schedule{Interval: next, Ease: ease, Due: c.clock.Now().AddDate(0, 0, next)}, nil
}

// Initial schedules a card answered for the first time.
func (c *Calculator) Initial(resp Response) (Schedule, error) {
	return c.Schedule(resp, 1, c.settings.BaseEase)
}

// ForCard picks Initial or Schedule depending on whether card has history.
func (c *Calculator) ForCard(card Card, resp Response) (Schedule, error) {
	if card.Schedule == nil {
		return c.Initial(resp)
	}
	return c.Schedule(resp, card.Schedule.Interval, card.Schedule.Ease)
}

// clampInterval rounds half up and bounds the result to [1, MaximumInterval].
func (c *Calculator) clampInterval(x float64) int {
	r := math.Floor(x + 0.5)
	if r >= float64(c.settings.MaximumInterval) {
		return c.settings.MaximumInterval
	}
	if r < 1 {
		return 1
	}
	return int(r)
}
