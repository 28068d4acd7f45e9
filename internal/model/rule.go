package model

import (
	"fmt"
	"strings"
)

// Rule maps a merchant substring to a category and optionally a type.
// Rules are kept newest-first; the first rule whose pattern is contained in
// the merchant text wins, so a rule added later shadows older overlapping
// ones.
type Rule struct {
	Pattern  string
	Category string
	Type     *TransactionType // nil means no type restriction
	ID       int64
}

// Validate checks the rule invariants.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("rule pattern is required")
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("rule category is required")
	}
	if r.Type != nil && !r.Type.Valid() {
		return fmt.Errorf("invalid rule type %q", *r.Type)
	}
	return nil
}

// Matches reports whether the rule's pattern is contained in the merchant
// text, case-insensitively.
func (r *Rule) Matches(merchant string) bool {
	return strings.Contains(strings.ToLower(merchant), strings.ToLower(r.Pattern))
}
