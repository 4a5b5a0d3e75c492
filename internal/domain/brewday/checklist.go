// Package brewday models the guided brew day checklist.
package brewday

import (
	"errors"
	"time"
)

// ErrUnknownStep is returned when a checklist key does not exist.
var ErrUnknownStep = errors.New("unknown brew day step")

// Step is a single item on the brew day checklist.
type Step struct {
	Key    string     `json:"key"`
	Title  string     `json:"title"`
	Done   bool       `json:"done"`
	DoneAt *time.Time `json:"done_at,omitempty"`
}

// Checklist tracks progress through a brew day.
type Checklist struct {
	Steps []Step `json:"steps"`
}

// DefaultSteps returns the standard mead brew day in order.
func DefaultSteps() []Step {
	return []Step{
		{Key: "sanitize", Title: "Sanitize fermenter, airlock and utensils"},
		{Key: "heat-water", Title: "Warm part of the water to dissolve honey"},
		{Key: "dissolve-honey", Title: "Dissolve honey into the water"},
		{Key: "top-up", Title: "Top up to batch size and cool the must"},
		{Key: "take-og", Title: "Take an original gravity reading"},
		{Key: "add-nutrient", Title: "Add yeast nutrient"},
		{Key: "pitch-yeast", Title: "Rehydrate and pitch yeast"},
		{Key: "seal", Title: "Seal the fermenter and fit the airlock"},
		{Key: "label", Title: "Label the batch with date and gravity"},
	}
}

// NewChecklist returns a checklist with every default step open.
func NewChecklist() Checklist {
	return Checklist{Steps: DefaultSteps()}
}

// Toggle flips the done state of the step identified by key.
func (c *Checklist) Toggle(key string, at time.Time) error {
	for i := range c.Steps {
		if c.Steps[i].Key != key {
			continue
		}
		if c.Steps[i].Done {
			c.Steps[i].Done = false
			c.Steps[i].DoneAt = nil
		} else {
			stamp := at
			c.Steps[i].Done = true
			c.Steps[i].DoneAt = &stamp
		}
		return nil
	}
	return ErrUnknownStep
}

// Progress returns the fraction of steps done, in [0, 1].
func (c Checklist) Progress() float64 {
	if len(c.Steps) == 0 {
		return 0
	}
	done := 0
	for _, s := range c.Steps {
		if s.Done {
			done++
		}
	}
	return float64(done) / float64(len(c.Steps))
}

// Complete reports whether every step is done.
func (c Checklist) Complete() bool {
	return len(c.Steps) > 0 && c.Progress() == 1
}
