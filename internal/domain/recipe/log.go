package recipe

import (
	"time"

	"github.com/meadcraft/meadery/internal/domain/brewday"
)

// LogData is the brew log attached to a saved recipe.
type LogData struct {
	BrewDate  *time.Time        `json:"brew_date,omitempty"`
	Readings  []GravityReading  `json:"readings,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Checklist brewday.Checklist `json:"checklist"`
}

// GravityReading is a hydrometer reading taken during fermentation.
type GravityReading struct {
	TakenAt  time.Time `json:"taken_at"`
	Gravity  float64   `json:"gravity"`
	TempC    *float64  `json:"temp_c,omitempty"`
	Comments string    `json:"comments,omitempty"`
}

// NewLogData returns an empty log with a fresh brew day checklist.
func NewLogData() LogData {
	return LogData{Checklist: brewday.NewChecklist()}
}

// Validate checks every reading is a plausible specific gravity.
func (l LogData) Validate() error {
	for _, r := range l.Readings {
		if r.Gravity < 0.980 || r.Gravity > 1.200 {
			return ErrInvalidGravity
		}
	}
	return nil
}

// OriginalGravity returns the earliest reading, if any.
func (l LogData) OriginalGravity() (float64, bool) {
	if len(l.Readings) == 0 {
		return 0, false
	}
	first := l.Readings[0]
	for _, r := range l.Readings[1:] {
		if r.TakenAt.Before(first.TakenAt) {
			first = r
		}
	}
	return first.Gravity, true
}

// LatestGravity returns the most recent reading, if any.
func (l LogData) LatestGravity() (float64, bool) {
	if len(l.Readings) == 0 {
		return 0, false
	}
	last := l.Readings[0]
	for _, r := range l.Readings[1:] {
		if !r.TakenAt.Before(last.TakenAt) {
			last = r
		}
	}
	return last.Gravity, true
}
