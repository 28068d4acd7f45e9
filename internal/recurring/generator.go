// Package recurring materializes recurring templates into concrete monthly
// transactions, with duplicate detection that makes the operation idempotent.
package recurring

import (
	"math"
	"strings"
	"time"

	"github.com/nvidela/monedero/internal/model"
)

// AmountTolerance is the absolute difference under which two amounts are
// considered equal for duplicate detection.
const AmountTolerance = 0.0001

// InstanceDate computes the calendar date a template lands on in the target
// month: the template's day-of-month, clamped to the last day of the month.
func InstanceDate(tpl model.RecurringTemplate, year int, month time.Month) time.Time {
	day := tpl.DayOfMonth
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Instance builds the transaction a template produces for the target month.
// The row is not persisted and carries no identifier.
func Instance(tpl model.RecurringTemplate, year int, month time.Month) model.Transaction {
	return model.Transaction{
		Merchant: tpl.Merchant,
		Category: tpl.Category,
		Type:     tpl.Type,
		Amount:   tpl.Amount,
		Date:     InstanceDate(tpl, year, month),
	}
}

// FindDuplicate scans existing rows for one equivalent to the candidate:
// same date, merchant and category equal ignoring case, same type, and
// amount within AmountTolerance. Returns nil when no equivalent exists.
func FindDuplicate(existing []model.Transaction, candidate model.Transaction) *model.Transaction {
	for i := range existing {
		row := &existing[i]
		if !row.Date.Equal(candidate.Date) {
			continue
		}
		if !strings.EqualFold(row.Merchant, candidate.Merchant) {
			continue
		}
		if !strings.EqualFold(row.Category, candidate.Category) {
			continue
		}
		if row.Type != candidate.Type {
			continue
		}
		if math.Abs(row.Amount-candidate.Amount) > AmountTolerance {
			continue
		}
		return row
	}
	return nil
}

// Day 0 of the following month is the last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
