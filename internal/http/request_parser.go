package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"bilancio/internal/core"
)

// recordPayload is the wire shape for record create and update requests.
// Amounts and frequencies arrive as strings so that "12,34" style input
// survives the JSON boundary intact.
type recordPayload struct {
	Name            string `json:"name"`
	Amount          string `json:"amount"`
	Kind            string `json:"kind"`
	FrequencyMonths string `json:"frequency_months"`
	DayOfMonth      int    `json:"day_of_month"`
	IsShared        bool   `json:"is_shared"`
	OwnerMemberID   string `json:"owner_member_id"`
	IsRecurring     bool   `json:"is_recurring"`
	Category        string `json:"category"`
}

func (p recordPayload) toRecord() (core.MoneyRecord, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.MoneyRecord{}, fmt.Errorf("amount: %w", err)
	}
	freq, err := core.ParseFrequency(p.FrequencyMonths)
	if err != nil {
		return core.MoneyRecord{}, fmt.Errorf("frequency_months: %w", err)
	}
	rec := core.MoneyRecord{
		Name:            p.Name,
		Amount:          amount,
		Kind:            core.RecordKind(p.Kind),
		FrequencyMonths: freq,
		DayOfMonth:      p.DayOfMonth,
		IsShared:        p.IsShared,
		OwnerMemberID:   p.OwnerMemberID,
		IsRecurring:     p.IsRecurring,
		Category:        p.Category,
	}
	if err := rec.Validate(); err != nil {
		return core.MoneyRecord{}, err
	}
	return rec, nil
}

type debtPayload struct {
	Name            string `json:"name"`
	RemainingAmount string `json:"remaining_amount"`
	MonthlyPayment  string `json:"monthly_payment"`
	DayOfMonth      int    `json:"day_of_month"`
}

func (p debtPayload) toDebt() (core.Debt, error) {
	remaining, err := core.ParseAmount(p.RemainingAmount)
	if err != nil {
		return core.Debt{}, fmt.Errorf("remaining_amount: %w", err)
	}
	payment, err := core.ParseAmount(p.MonthlyPayment)
	if err != nil {
		return core.Debt{}, fmt.Errorf("monthly_payment: %w", err)
	}
	d := core.Debt{
		Name:            p.Name,
		RemainingAmount: remaining,
		MonthlyPayment:  payment,
		DayOfMonth:      p.DayOfMonth,
	}
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	return d, nil
}

type memberPayload struct {
	Name     string `json:"name"`
	ColorTag string `json:"color_tag"`
}

func (p memberPayload) toMember() (core.HouseholdMember, error) {
	m := core.HouseholdMember{Name: p.Name, ColorTag: p.ColorTag}
	if err := m.Validate(); err != nil {
		return core.HouseholdMember{}, err
	}
	return m, nil
}

func decodeBody(r *json.Decoder, v any) error {
	r.DisallowUnknownFields()
	return r.Decode(v)
}

// parseScope reads scope=all|personal|member plus member_id from the query.
func parseScope(q url.Values) (core.ViewScope, error) {
	switch q.Get("scope") {
	case "", "all":
		return core.AllScope(), nil
	case "personal":
		return core.PersonalScope(), nil
	case "member":
		memberID := q.Get("member_id")
		if memberID == "" {
			return core.ViewScope{}, fmt.Errorf("scope=member requires member_id")
		}
		return core.MemberScope(memberID), nil
	default:
		return core.ViewScope{}, fmt.Errorf("unknown scope %q", q.Get("scope"))
	}
}

// parseToday reads an optional today=YYYY-MM-DD override, defaulting to the
// server clock. The override exists so clients in other time zones can pin
// the evaluation date.
func parseToday(q url.Values, now func() time.Time) (time.Time, error) {
	raw := q.Get("today")
	if raw == "" {
		return now(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("today must be YYYY-MM-DD")
	}
	return t, nil
}

func parsePositiveInt(q url.Values, key string, fallback int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
