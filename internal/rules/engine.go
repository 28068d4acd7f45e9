// Package rules implements merchant-text categorization rules.
package rules

import (
	"github.com/nvidela/monedero/internal/model"
)

// Match is the result of a successful inference. Type is nil when the
// matching rule carries no type restriction.
type Match struct {
	Type     *model.TransactionType
	Category string
	RuleID   int64
}

// Engine evaluates an ordered rule list against merchant text. The list is
// kept newest-first: Add prepends, and Infer returns the first match, so the
// most recently defined rule wins ties. Not safe for concurrent use; the
// reconciler serializes access.
type Engine struct {
	rules []model.Rule
}

// NewEngine creates an engine over rules already ordered newest-first.
func NewEngine(rules []model.Rule) *Engine {
	return &Engine{rules: rules}
}

// Infer returns the first rule whose pattern is a case-insensitive substring
// of the merchant text, or nil if none matches. No side effects.
func (e *Engine) Infer(merchant string) *Match {
	for _, r := range e.rules {
		if r.Matches(merchant) {
			m := &Match{Category: r.Category, RuleID: r.ID}
			if r.Type != nil {
				t := *r.Type
				m.Type = &t
			}
			return m
		}
	}
	return nil
}

// Add prepends a rule, making it evaluated before every older rule.
func (e *Engine) Add(rule model.Rule) {
	e.rules = append([]model.Rule{rule}, e.rules...)
}

// Remove deletes the rule with the given identifier, reporting whether it
// was present.
func (e *Engine) Remove(id int64) bool {
	for i, r := range e.rules {
		if r.ID == id {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Rules returns a copy of the current list, newest-first.
func (e *Engine) Rules() []model.Rule {
	out := make([]model.Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
