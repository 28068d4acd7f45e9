package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nvidela/monedero/internal/model"
)

// mockStore is an in-memory service.Storage for engine tests, with per-method
// failure injection.
type mockStore struct {
	failures    map[string]error
	rows        map[int64]model.Transaction
	rules       []model.Rule
	templates   []model.RecurringTemplate
	log         []model.ChangeLogEntry
	categories  []string
	nextID      int64
	nextRuleID  int64
	nextTplID   int64
	nextLogID   int
	insertCalls int
	mu          sync.Mutex

	// rejectPreservedIDs makes InsertMany fail for rows carrying an
	// explicit identifier, forcing the undo fallback path.
	rejectPreservedIDs bool
}

func newMockStore() *mockStore {
	return &mockStore{
		failures: make(map[string]error),
		rows:     make(map[int64]model.Transaction),
	}
}

func (m *mockStore) failOn(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = errors.New(method + ": injected store failure")
}

func (m *mockStore) failure(method string) error {
	return m.failures[method]
}

func (m *mockStore) seed(rows ...model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.rows[row.ID] = row
		if row.ID > m.nextID {
			m.nextID = row.ID
		}
	}
}

func (m *mockStore) Insert(_ context.Context, row model.Transaction) (model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertCalls++
	if err := m.failure("Insert"); err != nil {
		return model.Transaction{}, err
	}
	m.nextID++
	row.ID = m.nextID
	m.rows[row.ID] = row
	return row, nil
}

func (m *mockStore) InsertMany(_ context.Context, rows []model.Transaction) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("InsertMany"); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row.ID != 0 && m.rejectPreservedIDs {
			return nil, fmt.Errorf("explicit identifiers not accepted")
		}
		if _, exists := m.rows[row.ID]; row.ID != 0 && exists {
			return nil, fmt.Errorf("identifier %d already in use", row.ID)
		}
	}

	out := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		if row.ID == 0 {
			m.nextID++
			row.ID = m.nextID
		} else if row.ID > m.nextID {
			m.nextID = row.ID
		}
		m.rows[row.ID] = row
		out = append(out, row)
	}
	return out, nil
}

func (m *mockStore) Update(_ context.Context, id int64, patch model.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Update"); err != nil {
		return err
	}
	row, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("no row %d", id)
	}
	patch.Apply(&row)
	m.rows[id] = row
	return nil
}

func (m *mockStore) UpdateWhere(_ context.Context, ids []int64, patch model.Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateWhere"); err != nil {
		return err
	}
	for _, id := range ids {
		row, ok := m.rows[id]
		if !ok {
			return fmt.Errorf("no row %d", id)
		}
		patch.Apply(&row)
		m.rows[id] = row
	}
	return nil
}

func (m *mockStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Delete"); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *mockStore) DeleteMany(_ context.Context, ids []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteMany"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func (m *mockStore) Upsert(_ context.Context, rows []model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("Upsert"); err != nil {
		return err
	}
	for _, row := range rows {
		m.rows[row.ID] = row
	}
	return nil
}

func (m *mockStore) SelectAll(_ context.Context) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SelectAll"); err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *mockStore) InsertRule(_ context.Context, rule model.Rule) (model.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("InsertRule"); err != nil {
		return model.Rule{}, err
	}
	m.nextRuleID++
	rule.ID = m.nextRuleID
	m.rules = append([]model.Rule{rule}, m.rules...)
	return rule, nil
}

func (m *mockStore) DeleteRule(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteRule"); err != nil {
		return err
	}
	for i, rule := range m.rules {
		if rule.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStore) ListRules(_ context.Context) ([]model.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Rule, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

func (m *mockStore) InsertTemplate(_ context.Context, tpl model.RecurringTemplate) (model.RecurringTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("InsertTemplate"); err != nil {
		return model.RecurringTemplate{}, err
	}
	m.nextTplID++
	tpl.ID = m.nextTplID
	m.templates = append(m.templates, tpl)
	return tpl, nil
}

func (m *mockStore) DeleteTemplate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteTemplate"); err != nil {
		return err
	}
	for i, tpl := range m.templates {
		if tpl.ID == id {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockStore) SetTemplateActive(_ context.Context, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SetTemplateActive"); err != nil {
		return err
	}
	for i := range m.templates {
		if m.templates[i].ID == id {
			m.templates[i].Active = active
		}
	}
	return nil
}

func (m *mockStore) ListTemplates(_ context.Context) ([]model.RecurringTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.RecurringTemplate, len(m.templates))
	copy(out, m.templates)
	return out, nil
}

func (m *mockStore) AppendChangeLog(_ context.Context, kind model.ActionKind, detail string, metadata map[string]string) (model.ChangeLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("AppendChangeLog"); err != nil {
		return model.ChangeLogEntry{}, err
	}
	m.nextLogID++
	entry := model.ChangeLogEntry{
		ID:        fmt.Sprintf("cl-%d", m.nextLogID),
		Timestamp: time.Now(),
		Kind:      kind,
		Detail:    detail,
		Metadata:  metadata,
	}
	m.log = append([]model.ChangeLogEntry{entry}, m.log...)
	return entry, nil
}

func (m *mockStore) ListChangeLog(_ context.Context, limit int) ([]model.ChangeLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.log) {
		limit = len(m.log)
	}
	out := make([]model.ChangeLogEntry, limit)
	copy(out, m.log[:limit])
	return out, nil
}

func (m *mockStore) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *mockStore) Migrate(_ context.Context) error { return nil }

func (m *mockStore) Close() error { return nil }

// mockNotifier collects pushed events.
type mockNotifier struct {
	mu     sync.Mutex
	events []model.Event
}

func (n *mockNotifier) Push(event model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *mockNotifier) Events() []model.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.Event, len(n.events))
	copy(out, n.events)
	return out
}
