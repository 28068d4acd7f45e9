package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidela/monedero/internal/model"
)

func typePtr(t model.TransactionType) *model.TransactionType { return &t }

func TestEngine_Infer(t *testing.T) {
	tests := []struct {
		want     *Match
		name     string
		merchant string
		rules    []model.Rule
	}{
		{
			name: "case insensitive substring match",
			rules: []model.Rule{
				{ID: 1, Pattern: "uber", Category: "Transporte", Type: typePtr(model.TypeExpense)},
			},
			merchant: "UBER EATS 123",
			want:     &Match{Category: "Transporte", Type: typePtr(model.TypeExpense), RuleID: 1},
		},
		{
			name: "no match returns nil",
			rules: []model.Rule{
				{ID: 1, Pattern: "uber", Category: "Transporte"},
			},
			merchant: "LIDER SUPERMERCADO",
			want:     nil,
		},
		{
			name: "first rule in list order wins",
			rules: []model.Rule{
				{ID: 2, Pattern: "market", Category: "Mercado"},
				{ID: 1, Pattern: "super", Category: "Supermercado"},
			},
			merchant: "SUPER MARKET SPA",
			want:     &Match{Category: "Mercado", RuleID: 2},
		},
		{
			name: "unrestricted rule yields no type override",
			rules: []model.Rule{
				{ID: 3, Pattern: "transferencia", Category: "Otros"},
			},
			merchant: "Transferencia recibida",
			want:     &Match{Category: "Otros", RuleID: 3},
		},
		{
			name:     "empty rule list",
			rules:    nil,
			merchant: "anything",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.rules)
			got := e.Infer(tt.merchant)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Category, got.Category)
			assert.Equal(t, tt.want.RuleID, got.RuleID)
			if tt.want.Type == nil {
				assert.Nil(t, got.Type)
			} else {
				require.NotNil(t, got.Type)
				assert.Equal(t, *tt.want.Type, *got.Type)
			}
		})
	}
}

func TestEngine_AddPrependsForPrecedence(t *testing.T) {
	e := NewEngine([]model.Rule{
		{ID: 1, Pattern: "uber", Category: "Transporte"},
	})

	// Newer rule with an overlapping pattern shadows the older one.
	e.Add(model.Rule{ID: 2, Pattern: "uber eats", Category: "Comida"})

	got := e.Infer("UBER EATS 123")
	require.NotNil(t, got)
	assert.Equal(t, "Comida", got.Category)

	// The older rule still matches text the newer one does not.
	got = e.Infer("UBER TRIP")
	require.NotNil(t, got)
	assert.Equal(t, "Transporte", got.Category)
}

func TestEngine_Remove(t *testing.T) {
	e := NewEngine([]model.Rule{
		{ID: 1, Pattern: "uber", Category: "Transporte"},
		{ID: 2, Pattern: "lider", Category: "Supermercado"},
	})

	assert.True(t, e.Remove(1))
	assert.False(t, e.Remove(1))
	assert.Nil(t, e.Infer("UBER TRIP"))
	assert.Len(t, e.Rules(), 1)
}

func TestEngine_RulesReturnsCopy(t *testing.T) {
	e := NewEngine([]model.Rule{
		{ID: 1, Pattern: "uber", Category: "Transporte"},
	})

	got := e.Rules()
	got[0].Category = "mutated"

	fresh := e.Rules()
	assert.Equal(t, "Transporte", fresh[0].Category)
}
