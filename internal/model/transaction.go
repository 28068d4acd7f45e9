// Package model defines the core data structures for the monedero ledger core.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

// Transaction type constants.
const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the known constants.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseTransactionType converts user input to a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid transaction type %q (want income or expense)", s)
	}
	return t, nil
}

// Transaction is a single ledger row. The identifier is assigned by the
// store; a zero ID marks a row that has not been persisted yet.
type Transaction struct {
	Date     time.Time
	Merchant string
	Category string
	Type     TransactionType
	Amount   float64
	ID       int64
}

// Validate checks the row invariants before any store call.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Merchant) == "" {
		return fmt.Errorf("transaction merchant is required")
	}
	if t.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive, got %v", t.Amount)
	}
	if !t.Type.Valid() {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	return nil
}

// DateOnly normalizes a timestamp to a calendar date (midnight UTC).
// Ledger rows carry no time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
