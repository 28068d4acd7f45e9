package engine

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nvidela/monedero/internal/model"
)

// AddRule persists a categorization rule and prepends it to the live list,
// so it takes precedence over older rules with overlapping patterns.
func (r *Reconciler) AddRule(ctx context.Context, rule model.Rule) (model.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := rule.Validate(); err != nil {
		return model.Rule{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	stored, err := r.store.InsertRule(ctx, rule)
	if err != nil {
		return model.Rule{}, writeErr(err)
	}

	r.rules.Add(stored)
	r.log.Record(ctx, model.ActionRule,
		fmt.Sprintf("added rule %q -> %s", stored.Pattern, stored.Category),
		map[string]string{"id": strconv.FormatInt(stored.ID, 10)})

	return stored, nil
}

// RemoveRule deletes a rule from the store and the live list.
func (r *Reconciler) RemoveRule(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	known := false
	for _, rule := range r.rules.Rules() {
		if rule.ID == id {
			known = true
			break
		}
	}
	if !known {
		return validationf("unknown rule id %d", id)
	}

	if err := r.store.DeleteRule(ctx, id); err != nil {
		return writeErr(err)
	}
	r.rules.Remove(id)

	r.log.Record(ctx, model.ActionRule,
		fmt.Sprintf("removed rule %d", id),
		map[string]string{"id": strconv.FormatInt(id, 10)})
	return nil
}

// AddTemplate persists a recurring template.
func (r *Reconciler) AddTemplate(ctx context.Context, tpl model.RecurringTemplate) (model.RecurringTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := tpl.Validate(); err != nil {
		return model.RecurringTemplate{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	stored, err := r.store.InsertTemplate(ctx, tpl)
	if err != nil {
		return model.RecurringTemplate{}, writeErr(err)
	}

	r.templates = append(r.templates, stored)
	r.log.Record(ctx, model.ActionTemplate,
		fmt.Sprintf("added template %q (%s, day %d)", stored.Name, stored.Merchant, stored.DayOfMonth),
		map[string]string{"id": strconv.FormatInt(stored.ID, 10)})

	return stored, nil
}

// RemoveTemplate deletes a recurring template.
func (r *Reconciler) RemoveTemplate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.templates {
		if r.templates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return validationf("unknown template id %d", id)
	}

	if err := r.store.DeleteTemplate(ctx, id); err != nil {
		return writeErr(err)
	}
	r.templates = append(r.templates[:idx], r.templates[idx+1:]...)

	r.log.Record(ctx, model.ActionTemplate,
		fmt.Sprintf("removed template %d", id),
		map[string]string{"id": strconv.FormatInt(id, 10)})
	return nil
}

// SetTemplateActive toggles whether a template participates in batch runs.
func (r *Reconciler) SetTemplateActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i := range r.templates {
		if r.templates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return validationf("unknown template id %d", id)
	}

	if err := r.store.SetTemplateActive(ctx, id, active); err != nil {
		return writeErr(err)
	}

	r.templates[idx].Active = active
	r.log.Record(ctx, model.ActionTemplate,
		fmt.Sprintf("template %d active=%t", id, active),
		map[string]string{"id": strconv.FormatInt(id, 10)})
	return nil
}
