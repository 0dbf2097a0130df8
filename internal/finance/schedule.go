package finance

import (
	"sort"
	"time"

	"bilancio/internal/core"
)

// DefaultLookaheadDays is the reminder window used by the dashboard.
const DefaultLookaheadDays = 3

const (
	ReminderExpense ReminderKind = "expense"
	ReminderDebt    ReminderKind = "debt"
)

type (
	// ReminderKind distinguishes recurring expense records from debt
	// installments in a reminder list.
	ReminderKind string

	// Reminder is an upcoming payment obligation inside the lookahead
	// window. Amount is what falls due on that date: the record's billed
	// amount, or one debt installment.
	Reminder struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Amount       float64      `json:"amount"`
		DayOfMonth   int          `json:"day_of_month"`
		Kind         ReminderKind `json:"kind"`
		DaysUntilDue int          `json:"days_until_due"`
	}
)

// daysUntilDue computes the cyclic distance from today to the next occurrence
// of dayOfMonth. A negative difference wraps forward by the current month's
// day count. An anchor past the end of a short month is clamped to its last
// day, so a bill anchored on the 31st falls due on the 30th of a 30-day month.
func daysUntilDue(dayOfMonth int, today time.Time) int {
	daysInMonth := time.Date(today.Year(), today.Month()+1, 0, 0, 0, 0, 0, today.Location()).Day()
	if dayOfMonth > daysInMonth {
		dayOfMonth = daysInMonth
	}
	days := dayOfMonth - today.Day()
	if days < 0 {
		days += daysInMonth
	}
	return days
}

// DueReminders returns the obligations falling due within lookaheadDays of
// today, ranked soonest first. Expense records are considered when recurring
// and anchored to a day of month; debts are implicitly recurring and only
// need the anchor. An anchor outside 1-31 excludes the entry rather than
// producing a nonsensical distance.
func DueReminders(records []core.MoneyRecord, debts []core.Debt, today time.Time, lookaheadDays int) []Reminder {
	var due []Reminder

	for _, r := range records {
		if !r.IsRecurring || r.Kind != core.Expense {
			continue
		}
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			continue
		}
		days := daysUntilDue(r.DayOfMonth, today)
		if days <= lookaheadDays {
			due = append(due, Reminder{
				ID:           r.ID,
				Name:         r.Name,
				Amount:       r.Amount,
				DayOfMonth:   r.DayOfMonth,
				Kind:         ReminderExpense,
				DaysUntilDue: days,
			})
		}
	}

	for _, d := range debts {
		if d.DayOfMonth < 1 || d.DayOfMonth > 31 {
			continue
		}
		days := daysUntilDue(d.DayOfMonth, today)
		if days <= lookaheadDays {
			due = append(due, Reminder{
				ID:           d.ID,
				Name:         d.Name,
				Amount:       d.MonthlyPayment,
				DayOfMonth:   d.DayOfMonth,
				Kind:         ReminderDebt,
				DaysUntilDue: days,
			})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DaysUntilDue < due[j].DaysUntilDue
	})
	return due
}
