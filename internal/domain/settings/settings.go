// Package settings holds the user-level display and defaulting preferences.
package settings

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrCurrencyRequired = errors.New("currency symbol is required")
	ErrCurrencyTooLong  = errors.New("currency symbol must not exceed 8 characters")
	ErrInvalidBatchSize = errors.New("default batch size must be greater than 0")
)

// Settings is persisted as a single row. CurrencySymbol only affects display.
type Settings struct {
	CurrencySymbol         string  `json:"currency_symbol"`
	DefaultBatchSizeLiters float64 `json:"default_batch_size_liters"`
}

// New returns settings with the symbol trimmed.
func New(currencySymbol string, defaultBatchSize float64) (Settings, error) {
	s := Settings{
		CurrencySymbol:         strings.TrimSpace(currencySymbol),
		DefaultBatchSizeLiters: defaultBatchSize,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings invariants
func (s Settings) Validate() error {
	if strings.TrimSpace(s.CurrencySymbol) == "" {
		return ErrCurrencyRequired
	}
	if len([]rune(s.CurrencySymbol)) > 8 {
		return ErrCurrencyTooLong
	}
	if math.IsNaN(s.DefaultBatchSizeLiters) || math.IsInf(s.DefaultBatchSizeLiters, 0) || s.DefaultBatchSizeLiters <= 0 {
		return ErrInvalidBatchSize
	}
	return nil
}
