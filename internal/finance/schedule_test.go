package finance

import (
	"reflect"
	"testing"
	"time"

	"bilancio/internal/core"
)

func TestDueReminders_Wraparound(t *testing.T) {
	// The 28th of September, a 30-day month.
	today := time.Date(2026, time.September, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		dayOfMonth int
		wantDays   int
		included   bool
	}{
		{
			name:       "due in two days",
			dayOfMonth: 30,
			wantDays:   2,
			included:   true,
		},
		{
			name:       "due today",
			dayOfMonth: 28,
			wantDays:   0,
			included:   true,
		},
		{
			name:       "wraps to next month and lands outside the window",
			dayOfMonth: 2,
			wantDays:   4, // 2 - 28 + 30
			included:   false,
		},
		{
			name:       "wraps to next month inside the window",
			dayOfMonth: 1,
			wantDays:   3, // 1 - 28 + 30
			included:   true,
		},
		{
			name:       "day 31 clamps to the 30th",
			dayOfMonth: 31,
			wantDays:   2,
			included:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []core.MoneyRecord{{
				ID: "r1", Name: "Bill", Amount: 50, Kind: core.Expense,
				IsRecurring: true, DayOfMonth: tt.dayOfMonth,
			}}

			due := DueReminders(records, nil, today, DefaultLookaheadDays)

			if !tt.included {
				if len(due) != 0 {
					t.Fatalf("expected no reminders, got %+v", due)
				}
				return
			}
			if len(due) != 1 {
				t.Fatalf("expected one reminder, got %d", len(due))
			}
			if due[0].DaysUntilDue != tt.wantDays {
				t.Errorf("DaysUntilDue = %d, want %d", due[0].DaysUntilDue, tt.wantDays)
			}
		})
	}
}

func TestDueReminders_Filtering(t *testing.T) {
	today := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)

	records := []core.MoneyRecord{
		{ID: "r1", Name: "Rent", Amount: 900, Kind: core.Expense, IsRecurring: true, DayOfMonth: 15},
		{ID: "r2", Name: "One-off", Amount: 20, Kind: core.Expense, IsRecurring: false, DayOfMonth: 15},
		{ID: "r3", Name: "Salary", Amount: 2000, Kind: core.Income, IsRecurring: true, DayOfMonth: 15},
		{ID: "r4", Name: "No anchor", Amount: 10, Kind: core.Expense, IsRecurring: true},
		{ID: "r5", Name: "Bad anchor", Amount: 10, Kind: core.Expense, IsRecurring: true, DayOfMonth: 42},
	}
	debts := []core.Debt{
		{ID: "d1", Name: "Loan", RemainingAmount: 500, MonthlyPayment: 120, DayOfMonth: 16},
		{ID: "d2", Name: "No anchor loan", RemainingAmount: 500, MonthlyPayment: 120},
	}

	due := DueReminders(records, debts, today, DefaultLookaheadDays)

	// Only the recurring anchored expense and the anchored debt survive,
	// ranked soonest first.
	if len(due) != 2 {
		t.Fatalf("expected 2 reminders, got %d: %+v", len(due), due)
	}
	if due[0].ID != "r1" || due[0].Kind != ReminderExpense || due[0].DaysUntilDue != 1 {
		t.Errorf("first reminder = %+v, want record r1 due in 1 day", due[0])
	}
	if due[1].ID != "d1" || due[1].Kind != ReminderDebt || due[1].DaysUntilDue != 2 {
		t.Errorf("second reminder = %+v, want debt d1 due in 2 days", due[1])
	}
	if due[1].Amount != 120 {
		t.Errorf("debt reminder amount = %v, want the monthly installment", due[1].Amount)
	}
}

func TestDueReminders_ZeroLookahead(t *testing.T) {
	today := time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC)
	records := []core.MoneyRecord{
		{ID: "today", Name: "Due today", Amount: 5, Kind: core.Expense, IsRecurring: true, DayOfMonth: 20},
		{ID: "tomorrow", Name: "Due tomorrow", Amount: 5, Kind: core.Expense, IsRecurring: true, DayOfMonth: 21},
	}

	due := DueReminders(records, nil, today, 0)

	if len(due) != 1 || due[0].ID != "today" {
		t.Fatalf("lookahead 0 should keep only today's obligations, got %+v", due)
	}
}

func TestDueReminders_Idempotent(t *testing.T) {
	today := time.Date(2026, time.February, 26, 0, 0, 0, 0, time.UTC)
	records := []core.MoneyRecord{
		{ID: "r1", Name: "Internet", Amount: 30, Kind: core.Expense, IsRecurring: true, DayOfMonth: 28},
		{ID: "r2", Name: "Power", Amount: 60, Kind: core.Expense, IsRecurring: true, DayOfMonth: 1},
	}
	debts := []core.Debt{{ID: "d1", Name: "Loan", RemainingAmount: 400, MonthlyPayment: 100, DayOfMonth: 27}}

	first := DueReminders(records, debts, today, DefaultLookaheadDays)
	second := DueReminders(records, debts, today, DefaultLookaheadDays)

	if !reflect.DeepEqual(first, second) {
		t.Error("two evaluations over identical inputs differ")
	}
}
