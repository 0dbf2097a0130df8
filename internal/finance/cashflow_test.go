package finance

import (
	"math"
	"reflect"
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestProjectCashFlow(t *testing.T) {
	records := []core.MoneyRecord{
		{Name: "Salary", Amount: 1800, Kind: core.Income, FrequencyMonths: 1},
		{Name: "Bonus", Amount: 2400, Kind: core.Income, FrequencyMonths: 12}, // 200/month
		{Name: "Rent", Amount: 1000, Kind: core.Expense, FrequencyMonths: 1},
		{Name: "Insurance", Amount: 600, Kind: core.Expense, FrequencyMonths: 3}, // 200/month
	}
	debts := []core.Debt{{Name: "Loan", RemainingAmount: 250, MonthlyPayment: 100}}
	start := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	entries := ProjectCashFlow(records, debts, start, DefaultHorizonMonths)

	if len(entries) != DefaultHorizonMonths {
		t.Fatalf("projection length = %d, want %d", len(entries), DefaultHorizonMonths)
	}

	// Income 2000 and expenses 1200 are flat; debt steps 100, 100, 50, 0...
	wantNet := []float64{700, 700, 750, 800}
	for i, w := range wantNet {
		if entries[i].NetResult != w {
			t.Errorf("month %d net = %v, want %v", i, entries[i].NetResult, w)
		}
	}

	for i, e := range entries {
		if e.Income != 2000 {
			t.Errorf("month %d income = %v, want 2000", i, e.Income)
		}
		if e.Expenses != 1200 {
			t.Errorf("month %d expenses = %v, want 1200", i, e.Expenses)
		}
		if got := e.Income - e.Expenses - e.DebtPayments; got != e.NetResult {
			t.Errorf("month %d: net identity broken, %v - %v - %v != %v", i, e.Income, e.Expenses, e.DebtPayments, e.NetResult)
		}
	}
}

func TestProjectCashFlow_MonthLabels(t *testing.T) {
	// A start date on the 31st must not skip short months.
	start := time.Date(2026, time.January, 31, 10, 30, 0, 0, time.UTC)

	entries := ProjectCashFlow(nil, nil, start, 4)

	want := []string{"Jan 2026", "Feb 2026", "Mar 2026", "Apr 2026"}
	for i, w := range want {
		if entries[i].MonthLabel != w {
			t.Errorf("month %d label = %q, want %q", i, entries[i].MonthLabel, w)
		}
	}
}

func TestProjectCashFlow_RoundedIdentityHolds(t *testing.T) {
	// Fractional normalized amounts: the identity must hold on the rounded
	// values the caller sees, not the unrounded internals.
	records := []core.MoneyRecord{
		{Name: "Salary", Amount: 2000.49, Kind: core.Income, FrequencyMonths: 1},
		{Name: "Streaming", Amount: 100, Kind: core.Expense, FrequencyMonths: 3},
	}
	debts := []core.Debt{{Name: "Card", RemainingAmount: 83.50, MonthlyPayment: 33.33}}
	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	for i, e := range ProjectCashFlow(records, debts, start, 6) {
		if e.Income != math.Round(e.Income) || e.Expenses != math.Round(e.Expenses) || e.DebtPayments != math.Round(e.DebtPayments) {
			t.Errorf("month %d: components not rounded to whole units: %+v", i, e)
		}
		if got := e.Income - e.Expenses - e.DebtPayments; got != e.NetResult {
			t.Errorf("month %d: net identity broken on rounded values: %+v", i, e)
		}
	}
}

func TestProjectCashFlow_Idempotent(t *testing.T) {
	records := []core.MoneyRecord{
		{Name: "Salary", Amount: 2000, Kind: core.Income, FrequencyMonths: 1},
		{Name: "Rent", Amount: 1200, Kind: core.Expense, FrequencyMonths: 1},
	}
	debts := []core.Debt{{Name: "Loan", RemainingAmount: 250, MonthlyPayment: 100}}
	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	first := ProjectCashFlow(records, debts, start, DefaultHorizonMonths)
	second := ProjectCashFlow(records, debts, start, DefaultHorizonMonths)

	if !reflect.DeepEqual(first, second) {
		t.Error("two projections over identical inputs differ")
	}
}
