package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nvidela/monedero/internal/model"
	"github.com/nvidela/monedero/internal/recurring"
)

// RunReport summarizes a run of all active templates. Per-template failures
// do not abort the batch; they are tallied here instead.
type RunReport struct {
	Results    []RunResult
	Created    int
	Duplicates int
	Failed     int
}

// RunResult is the outcome of one template in a batch run.
type RunResult struct {
	Err      error
	Template string
	Row      model.Transaction
}

// MaterializeTemplate generates the template's transaction for the target
// month. The computed date clamps the template's day to the month's last
// day; an equivalent existing row fails with ErrDuplicate before any store
// write, which is what makes the operation safe to invoke repeatedly.
func (r *Reconciler) MaterializeTemplate(ctx context.Context, tpl model.RecurringTemplate, year int, month time.Month) (model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.materializeLocked(ctx, tpl, year, month)
}

func (r *Reconciler) materializeLocked(ctx context.Context, tpl model.RecurringTemplate, year int, month time.Month) (model.Transaction, error) {
	if err := tpl.Validate(); err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	candidate := recurring.Instance(tpl, year, month)
	if dup := recurring.FindDuplicate(r.cache, candidate); dup != nil {
		return model.Transaction{}, fmt.Errorf("%w: template %q already materialized as transaction %d on %s",
			ErrDuplicate, tpl.Name, dup.ID, dup.Date.Format("2006-01-02"))
	}

	stored, err := r.store.Insert(ctx, candidate)
	if err != nil {
		return model.Transaction{}, writeErr(err)
	}

	r.insertCachedLocked(stored)
	r.undo.Arm(model.CreateAction{CreatedID: stored.ID})
	r.log.Record(ctx, model.ActionRecurring,
		fmt.Sprintf("materialized template %q as transaction %d for %s", tpl.Name, stored.ID, stored.Date.Format("2006-01-02")),
		map[string]string{"template": strconv.FormatInt(tpl.ID, 10), "id": strconv.FormatInt(stored.ID, 10)})

	return stored, nil
}

// RunAllTemplates materializes every active template for the target month,
// continuing past per-template duplicate or write failures.
func (r *Reconciler) RunAllTemplates(ctx context.Context, year int, month time.Month) RunReport {
	r.mu.Lock()
	templates := make([]model.RecurringTemplate, len(r.templates))
	copy(templates, r.templates)
	r.mu.Unlock()

	var report RunReport
	for _, tpl := range templates {
		if !tpl.Active {
			continue
		}

		r.mu.Lock()
		row, err := r.materializeLocked(ctx, tpl, year, month)
		r.mu.Unlock()

		result := RunResult{Template: tpl.Name, Row: row, Err: err}
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, ErrDuplicate):
			report.Duplicates++
		default:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	r.push(model.EventSuccess, "Recurring transactions",
		fmt.Sprintf("%s %d: %d created, %d already present, %d failed",
			month, year, report.Created, report.Duplicates, report.Failed))

	return report
}
