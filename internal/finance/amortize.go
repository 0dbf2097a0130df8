package finance

import (
	"math"

	"bilancio/internal/core"
)

// debtContribution returns what a single debt pays at month index i, with a
// full payment every active month and a partial final installment so the debt
// is never overpaid.
func debtContribution(d core.Debt, i int) float64 {
	if d.MonthlyPayment <= 0 || d.RemainingAmount <= 0 {
		return 0
	}

	monthsUntilPaidOff := int(math.Ceil(d.RemainingAmount / d.MonthlyPayment))
	switch {
	case i >= monthsUntilPaidOff:
		return 0
	case i == monthsUntilPaidOff-1:
		// Balance left after i whole payments, capped at one payment.
		remaining := d.RemainingAmount - float64(i)*d.MonthlyPayment
		return math.Min(remaining, d.MonthlyPayment)
	default:
		return d.MonthlyPayment
	}
}

// ProjectDebtSchedule returns the aggregate debt payment for each month index
// in 0..horizonMonths-1. Per debt the sequence is a non-increasing step
// function that drops to zero at payoff; the aggregate reaches zero only when
// the last debt does.
func ProjectDebtSchedule(debts []core.Debt, horizonMonths int) []float64 {
	if horizonMonths < 0 {
		horizonMonths = 0
	}
	schedule := make([]float64, horizonMonths)
	for i := range schedule {
		var total float64
		for _, d := range debts {
			total += debtContribution(d, i)
		}
		schedule[i] = total
	}
	return schedule
}

// DebtFreeMonth returns the first month index whose aggregate payment is zero
// immediately after a nonzero month, or -1 when no payoff completes within
// the schedule.
func DebtFreeMonth(schedule []float64) int {
	for i := 1; i < len(schedule); i++ {
		if schedule[i] == 0 && schedule[i-1] > 0 {
			return i
		}
	}
	return -1
}

// NearPayoff returns the debts within two payments of being retired,
// regardless of any calendar anchor.
func NearPayoff(debts []core.Debt) []core.Debt {
	var near []core.Debt
	for _, d := range debts {
		if d.RemainingAmount > 0 && d.RemainingAmount <= 2*d.MonthlyPayment {
			near = append(near, d)
		}
	}
	return near
}
