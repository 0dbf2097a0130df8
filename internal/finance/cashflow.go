package finance

import (
	"time"

	"bilancio/internal/core"
)

// DefaultHorizonMonths is the projection length used by the dashboard.
const DefaultHorizonMonths = 12

// CashFlowEntry is one projected month. The three components are rounded to
// whole currency units for display and NetResult is computed from the rounded
// values, so income - expenses - debt holds exactly on what the caller sees.
type CashFlowEntry struct {
	MonthLabel   string  `json:"month"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	DebtPayments float64 `json:"debt_payments"`
	NetResult    float64 `json:"net_result"`
}

// ProjectCashFlow builds the monthly cash-flow projection. Month index 0 is
// the calendar month of start; labels are anchored at the first of each month
// so a late-month start cannot skip short months. Income and non-debt expense
// totals are normalized monthly sums held constant across the horizon; only
// debt payments vary month to month. Accumulation of the constant totals is
// unrounded, rounding happens once per emitted entry.
func ProjectCashFlow(records []core.MoneyRecord, debts []core.Debt, start time.Time, horizonMonths int) []CashFlowEntry {
	var income, expenses float64
	for _, r := range records {
		monthly := MonthlyAmount(r)
		switch r.Kind {
		case core.Income:
			income += monthly
		case core.Expense:
			expenses += monthly
		}
	}

	schedule := ProjectDebtSchedule(debts, horizonMonths)
	anchor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())

	entries := make([]CashFlowEntry, len(schedule))
	for i := range entries {
		in := core.RoundUnit(income)
		out := core.RoundUnit(expenses)
		debt := core.RoundUnit(schedule[i])
		entries[i] = CashFlowEntry{
			MonthLabel:   anchor.AddDate(0, i, 0).Format("Jan 2006"),
			Income:       in,
			Expenses:     out,
			DebtPayments: debt,
			NetResult:    in - out - debt,
		}
	}
	return entries
}
