package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvidela/monedero/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInstanceDate(t *testing.T) {
	tests := []struct {
		name  string
		want  time.Time
		year  int
		day   int
		month time.Month
	}{
		{name: "plain day", day: 5, year: 2024, month: time.March, want: date(2024, time.March, 5)},
		{name: "day 28 in february", day: 28, year: 2023, month: time.February, want: date(2023, time.February, 28)},
		{name: "day 28 in leap february stays 28", day: 28, year: 2024, month: time.February, want: date(2024, time.February, 28)},
		{name: "first of month", day: 1, year: 2024, month: time.December, want: date(2024, time.December, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := model.RecurringTemplate{DayOfMonth: tt.day}
			got := InstanceDate(tpl, tt.year, tt.month)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestInstanceDate_ClampsToShortMonth(t *testing.T) {
	// Templates cap day-of-month at 28, but the clamp must hold even for
	// out-of-range template data loaded from an older store.
	tpl := model.RecurringTemplate{DayOfMonth: 31}

	got := InstanceDate(tpl, 2023, time.February)
	assert.True(t, got.Equal(date(2023, time.February, 28)))

	got = InstanceDate(tpl, 2024, time.April)
	assert.True(t, got.Equal(date(2024, time.April, 30)))
}

func TestInstance(t *testing.T) {
	tpl := model.RecurringTemplate{
		Name:       "Arriendo",
		Merchant:   "Arriendo Depto",
		Category:   "Vivienda",
		Type:       model.TypeExpense,
		Amount:     50000,
		DayOfMonth: 31,
	}

	got := Instance(tpl, 2023, time.February)

	assert.Zero(t, got.ID)
	assert.Equal(t, "Arriendo Depto", got.Merchant)
	assert.Equal(t, "Vivienda", got.Category)
	assert.Equal(t, model.TypeExpense, got.Type)
	assert.InDelta(t, 50000.0, got.Amount, 1e-9)
	assert.True(t, got.Date.Equal(date(2023, time.February, 28)))
}

func TestFindDuplicate(t *testing.T) {
	existing := []model.Transaction{
		{ID: 1, Merchant: "Netflix", Category: "Entretencion", Type: model.TypeExpense, Amount: 9990, Date: date(2024, time.May, 10)},
		{ID: 2, Merchant: "Sueldo", Category: "Trabajo", Type: model.TypeIncome, Amount: 1200000, Date: date(2024, time.May, 1)},
	}

	tests := []struct {
		name      string
		candidate model.Transaction
		wantID    int64
	}{
		{
			name: "exact equivalent found",
			candidate: model.Transaction{
				Merchant: "NETFLIX", Category: "entretencion",
				Type: model.TypeExpense, Amount: 9990, Date: date(2024, time.May, 10),
			},
			wantID: 1,
		},
		{
			name: "amount within tolerance",
			candidate: model.Transaction{
				Merchant: "Netflix", Category: "Entretencion",
				Type: model.TypeExpense, Amount: 9990.00005, Date: date(2024, time.May, 10),
			},
			wantID: 1,
		},
		{
			name: "amount outside tolerance is not a duplicate",
			candidate: model.Transaction{
				Merchant: "Netflix", Category: "Entretencion",
				Type: model.TypeExpense, Amount: 9990.01, Date: date(2024, time.May, 10),
			},
			wantID: 0,
		},
		{
			name: "different date is not a duplicate",
			candidate: model.Transaction{
				Merchant: "Netflix", Category: "Entretencion",
				Type: model.TypeExpense, Amount: 9990, Date: date(2024, time.June, 10),
			},
			wantID: 0,
		},
		{
			name: "different type is not a duplicate",
			candidate: model.Transaction{
				Merchant: "Sueldo", Category: "Trabajo",
				Type: model.TypeExpense, Amount: 1200000, Date: date(2024, time.May, 1),
			},
			wantID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDuplicate(existing, tt.candidate)
			if tt.wantID == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}
