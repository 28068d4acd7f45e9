package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nvidela/monedero/internal/model"
)

// InsertRule persists a rule and returns it with the store-assigned
// identifier.
func (s *SQLiteStore) InsertRule(ctx context.Context, rule model.Rule) (model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return model.Rule{}, err
	}
	if err := rule.Validate(); err != nil {
		return model.Rule{}, err
	}

	var typ any
	if rule.Type != nil {
		typ = string(*rule.Type)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO rules (pattern, category, type) VALUES (?, ?, ?)",
		rule.Pattern, rule.Category, typ)
	if err != nil {
		return model.Rule{}, fmt.Errorf("failed to insert rule: %w", err)
	}

	rule.ID, err = res.LastInsertId()
	if err != nil {
		return model.Rule{}, fmt.Errorf("failed to read inserted rule id: %w", err)
	}
	return rule, nil
}

// DeleteRule removes a rule.
func (s *SQLiteStore) DeleteRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete rule %d: %w", id, err)
	}
	return nil
}

// ListRules returns every rule, newest-first, matching the evaluation order
// the rule engine uses.
func (s *SQLiteStore) ListRules(ctx context.Context) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, pattern, category, type FROM rules ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Rule
	for rows.Next() {
		var rule model.Rule
		var typ sql.NullString
		if err := rows.Scan(&rule.ID, &rule.Pattern, &rule.Category, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if typ.Valid {
			t := model.TransactionType(typ.String)
			rule.Type = &t
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return out, nil
}

// InsertTemplate persists a recurring template and returns it with the
// store-assigned identifier.
func (s *SQLiteStore) InsertTemplate(ctx context.Context, tpl model.RecurringTemplate) (model.RecurringTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return model.RecurringTemplate{}, err
	}
	if err := tpl.Validate(); err != nil {
		return model.RecurringTemplate{}, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_templates (name, merchant, category, type, amount, day_of_month, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tpl.Name, tpl.Merchant, tpl.Category, string(tpl.Type), tpl.Amount, tpl.DayOfMonth, tpl.Active)
	if err != nil {
		return model.RecurringTemplate{}, fmt.Errorf("failed to insert template: %w", err)
	}

	tpl.ID, err = res.LastInsertId()
	if err != nil {
		return model.RecurringTemplate{}, fmt.Errorf("failed to read inserted template id: %w", err)
	}
	return tpl, nil
}

// DeleteTemplate removes a recurring template.
func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM recurring_templates WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete template %d: %w", id, err)
	}
	return nil
}

// SetTemplateActive toggles a template's participation in batch runs.
func (s *SQLiteStore) SetTemplateActive(ctx context.Context, id int64, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE recurring_templates SET active = ? WHERE id = ?", active, id); err != nil {
		return fmt.Errorf("failed to update template %d: %w", id, err)
	}
	return nil
}

// ListTemplates returns every recurring template in creation order.
func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]model.RecurringTemplate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, merchant, category, type, amount, day_of_month, active
		FROM recurring_templates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.RecurringTemplate
	for rows.Next() {
		var tpl model.RecurringTemplate
		var typ string
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Merchant, &tpl.Category, &typ, &tpl.Amount, &tpl.DayOfMonth, &tpl.Active); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		tpl.Type = model.TransactionType(typ)
		out = append(out, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}
	return out, nil
}
