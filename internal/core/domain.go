package core

import (
	"errors"
	"strings"
)

const (
	Income  RecordKind = "income"
	Expense RecordKind = "expense"
)

const (
	ScopeAll      ScopeKind = "all"
	ScopePersonal ScopeKind = "personal"
	ScopeMember   ScopeKind = "member"
)

type (
	RecordKind string

	ScopeKind string

	// ViewScope selects how shared amounts are presented: at full value
	// (all, personal) or divided across the household (member).
	ViewScope struct {
		Kind     ScopeKind
		MemberID string
	}

	// MoneyRecord is a recurring money flow: a salary, a rent, a subscription.
	// FrequencyMonths is the number of months between occurrences; zero means
	// the field was never set and the record bills monthly. DayOfMonth is the
	// calendar anchor for due-date scheduling; zero means unset. An empty
	// Category is the explicit "no category" value, not a missing field.
	MoneyRecord struct {
		ID              string
		Name            string
		Amount          float64
		Kind            RecordKind
		FrequencyMonths float64
		DayOfMonth      int
		IsShared        bool
		OwnerMemberID   string
		IsRecurring     bool
		Category        string
	}

	// Debt is a fixed-payment obligation amortized until RemainingAmount
	// reaches zero. Once it does, the debt contributes nothing anywhere.
	Debt struct {
		ID              string
		Name            string
		RemainingAmount float64
		MonthlyPayment  float64
		DayOfMonth      int
	}

	// HouseholdMember is a person sharing costs. ColorTag is display-only
	// and opaque to every calculation.
	HouseholdMember struct {
		ID       string
		Name     string
		ColorTag string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrInvalidKind      = errors.New("invalid record kind")
	ErrEmptyName        = errors.New("empty name")
)

// AllScope returns the scope that shows shared records at full value.
func AllScope() ViewScope {
	return ViewScope{Kind: ScopeAll}
}

// PersonalScope returns the personal scope. Like AllScope it does not split;
// the distinction only matters to external filtering policies.
func PersonalScope() ViewScope {
	return ViewScope{Kind: ScopePersonal}
}

// MemberScope returns the per-member scope that divides shared costs.
func MemberScope(memberID string) ViewScope {
	return ViewScope{Kind: ScopeMember, MemberID: memberID}
}

// IsMember reports whether shared amounts should be split under this scope.
func (s ViewScope) IsMember() bool {
	return s.Kind == ScopeMember
}

func (r MoneyRecord) Validate() error {
	if len(strings.TrimSpace(r.Name)) == 0 {
		return ErrEmptyName
	}
	if len(r.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if r.Amount < 0 {
		return ErrInvalidAmount
	}
	switch r.Kind {
	case Income, Expense:
	default:
		return ErrInvalidKind
	}
	// Zero means unset and defaults to monthly downstream; a negative
	// frequency is a caller bug.
	if r.FrequencyMonths < 0 {
		return ErrInvalidFrequency
	}
	if r.DayOfMonth != 0 && (r.DayOfMonth < 1 || r.DayOfMonth > 31) {
		return ErrInvalidDay
	}
	return nil
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if len(d.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if d.RemainingAmount < 0 {
		return ErrInvalidAmount
	}
	// A zero payment is a defined steady state (not actively amortizing);
	// a negative one is rejected at the boundary.
	if d.MonthlyPayment < 0 {
		return ErrInvalidAmount
	}
	if d.DayOfMonth != 0 && (d.DayOfMonth < 1 || d.DayOfMonth > 31) {
		return ErrInvalidDay
	}
	return nil
}

func (m HouseholdMember) Validate() error {
	if len(strings.TrimSpace(m.Name)) == 0 {
		return ErrEmptyName
	}
	if len(m.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	return nil
}
