package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/finance"
)

type (
	// RecordAmount is one record's monthly figure under the requested scope.
	RecordAmount struct {
		ID               string          `json:"id"`
		Name             string          `json:"name"`
		Kind             core.RecordKind `json:"kind"`
		Category         string          `json:"category"`
		EffectiveMonthly float64         `json:"effective_monthly"`
	}

	// CategoryAmount aggregates expense amounts by category name. The empty
	// category is reported under its own entry, not dropped.
	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// Overview is the dashboard's comparison view: normalized monthly
	// totals under one ViewScope.
	Overview struct {
		Scope           core.ScopeKind   `json:"scope"`
		MemberCount     int              `json:"member_count"`
		MonthlyIncome   float64          `json:"monthly_income"`
		MonthlyExpenses float64          `json:"monthly_expenses"`
		Net             float64          `json:"net"`
		ByCategory      []CategoryAmount `json:"by_category"`
		Records         []RecordAmount   `json:"records"`
	}

	// DebtSummary is the payoff view: the projected schedule, the first
	// debt-free month, and the debts close to retirement.
	DebtSummary struct {
		Schedule      []float64   `json:"schedule"`
		DebtFreeMonth int         `json:"debt_free_month"` // -1 when outside the horizon
		NearPayoff    []core.Debt `json:"near_payoff"`
	}
)

// DashboardService composes storage snapshots with the finance engine.
type DashboardService struct {
	records RecordSource
	debts   DebtSource
	members MemberSource
}

func NewDashboardService(records RecordSource, debts DebtSource, members MemberSource) *DashboardService {
	return &DashboardService{
		records: records,
		debts:   debts,
		members: members,
	}
}

// Overview builds per-record and aggregate normalized monthly figures under
// the given scope.
func (s *DashboardService) Overview(ctx context.Context, scope core.ViewScope) (Overview, error) {
	records, err := s.records.ListRecords(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list records: %w", err)
	}
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list members: %w", err)
	}
	memberCount := len(members)

	out := Overview{
		Scope:       scope.Kind,
		MemberCount: memberCount,
	}
	byCategory := make(map[string]float64)

	for _, r := range records {
		effective := finance.EffectiveMonthly(r, finance.MonthlyAmount(r), memberCount, scope)
		out.Records = append(out.Records, RecordAmount{
			ID:               r.ID,
			Name:             r.Name,
			Kind:             r.Kind,
			Category:         r.Category,
			EffectiveMonthly: effective,
		})
		switch r.Kind {
		case core.Income:
			out.MonthlyIncome += effective
		case core.Expense:
			out.MonthlyExpenses += effective
			byCategory[r.Category] += effective
		}
	}
	out.Net = out.MonthlyIncome - out.MonthlyExpenses

	for category, amount := range byCategory {
		out.ByCategory = append(out.ByCategory, CategoryAmount{Category: category, Amount: amount})
	}
	sort.Slice(out.ByCategory, func(i, j int) bool {
		if out.ByCategory[i].Amount != out.ByCategory[j].Amount {
			return out.ByCategory[i].Amount > out.ByCategory[j].Amount
		}
		return out.ByCategory[i].Category < out.ByCategory[j].Category
	})

	slog.DebugContext(ctx, "Built dashboard overview",
		"scope", scope.Kind,
		"records", len(records),
		"members", memberCount)

	return out, nil
}

// Projection builds the cash-flow projection starting at the calendar month
// of start.
func (s *DashboardService) Projection(ctx context.Context, start time.Time, horizonMonths int) ([]finance.CashFlowEntry, error) {
	records, err := s.records.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	debts, err := s.debts.ListDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}

	return finance.ProjectCashFlow(records, debts, start, horizonMonths), nil
}

// DebtOverview builds the amortization summary for the banner and the chart.
func (s *DashboardService) DebtOverview(ctx context.Context, horizonMonths int) (DebtSummary, error) {
	debts, err := s.debts.ListDebts(ctx)
	if err != nil {
		return DebtSummary{}, fmt.Errorf("list debts: %w", err)
	}

	schedule := finance.ProjectDebtSchedule(debts, horizonMonths)
	return DebtSummary{
		Schedule:      schedule,
		DebtFreeMonth: finance.DebtFreeMonth(schedule),
		NearPayoff:    finance.NearPayoff(debts),
	}, nil
}
