package model

import (
	"fmt"
	"strings"
)

// RecurringTemplate describes one transaction generated per month on a fixed
// day. Day-of-month is bounded to [1,28] so every month has a valid target
// date; months shorter than the requested day clamp to their last day.
type RecurringTemplate struct {
	Name       string
	Merchant   string
	Category   string
	Type       TransactionType
	Amount     float64
	ID         int64
	DayOfMonth int
	Active     bool
}

// Validate checks the template invariants.
func (t *RecurringTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name is required")
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return fmt.Errorf("template merchant is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("template category is required")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("template amount must be positive, got %v", t.Amount)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("invalid template type %q", t.Type)
	}
	if t.DayOfMonth < 1 || t.DayOfMonth > 28 {
		return fmt.Errorf("template day of month must be between 1 and 28, got %d", t.DayOfMonth)
	}
	return nil
}
