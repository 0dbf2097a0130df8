// Package finance implements the normalization and projection engine.
//
// Everything in this package is a pure function over immutable snapshots:
// no I/O, no clocks, no shared state. Callers pass explicit instants where
// time matters and may invoke any function concurrently.
package finance

import "bilancio/internal/core"

// NormalizeMonthly converts an amount billed every frequencyMonths months
// into its monthly equivalent. A zero or negative frequency is treated as
// monthly, matching records that predate the frequency field. The division
// is exact; rounding is left to presentation.
func NormalizeMonthly(amount, frequencyMonths float64) float64 {
	if frequencyMonths <= 0 {
		frequencyMonths = 1
	}
	return amount / frequencyMonths
}

// MonthlyAmount is NormalizeMonthly applied to a record's own fields.
func MonthlyAmount(r core.MoneyRecord) float64 {
	return NormalizeMonthly(r.Amount, r.FrequencyMonths)
}

// EffectiveMonthly applies household cost splitting to a normalized monthly
// amount. Splitting happens only when the record is shared and the scope is
// a member scope; every other combination returns the input unchanged. The
// divisor is floored at 1 so a shared record in an empty household behaves
// as personal.
//
// OwnerMemberID never gates the split: it records who nominally pays, and
// visibility filtering by owner is a policy layered outside this package.
func EffectiveMonthly(record core.MoneyRecord, normalizedMonthly float64, memberCount int, scope core.ViewScope) float64 {
	if !scope.IsMember() || !record.IsShared {
		return normalizedMonthly
	}
	if memberCount < 1 {
		memberCount = 1
	}
	return normalizedMonthly / float64(memberCount)
}
