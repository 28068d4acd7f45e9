package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Patch is a sparse edit applied to one or more transactions. Nil fields are
// left untouched on every affected row.
type Patch struct {
	Category *string
	Type     *TransactionType
	Date     *time.Time
}

// IsZero reports whether no field is populated.
func (p Patch) IsZero() bool {
	return p.Category == nil && p.Type == nil && p.Date == nil
}

// Validate checks any populated fields.
func (p Patch) Validate() error {
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return fmt.Errorf("patch category cannot be blank")
	}
	if p.Type != nil && !p.Type.Valid() {
		return fmt.Errorf("invalid patch type %q", *p.Type)
	}
	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("patch date cannot be zero")
	}
	return nil
}

// Apply merges the populated fields into a transaction.
func (p Patch) Apply(t *Transaction) {
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Date != nil {
		t.Date = DateOnly(*p.Date)
	}
}

// Summary renders the populated fields for audit detail text, e.g.
// "category=Salud, date=2024-03-01".
func (p Patch) Summary() string {
	parts := make([]string, 0, 3)
	if p.Category != nil {
		parts = append(parts, "category="+*p.Category)
	}
	if p.Type != nil {
		parts = append(parts, "type="+string(*p.Type))
	}
	if p.Date != nil {
		parts = append(parts, "date="+p.Date.Format("2006-01-02"))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
