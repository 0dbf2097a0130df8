package finance

import (
	"math"
	"testing"

	"bilancio/internal/core"
)

func TestProjectDebtSchedule_PartialFinalPayment(t *testing.T) {
	// 250 at 100/month: two full payments, then 50, then nothing.
	debts := []core.Debt{{Name: "Loan", RemainingAmount: 250, MonthlyPayment: 100}}

	schedule := ProjectDebtSchedule(debts, 6)
	want := []float64{100, 100, 50, 0, 0, 0}

	if len(schedule) != len(want) {
		t.Fatalf("schedule length = %d, want %d", len(schedule), len(want))
	}
	for i, w := range want {
		if math.Abs(schedule[i]-w) > eps {
			t.Errorf("month %d payment = %v, want %v", i, schedule[i], w)
		}
	}
}

func TestProjectDebtSchedule(t *testing.T) {
	tests := []struct {
		name    string
		debts   []core.Debt
		horizon int
		want    []float64
	}{
		{
			name:    "no debts",
			debts:   nil,
			horizon: 3,
			want:    []float64{0, 0, 0},
		},
		{
			name:    "exact multiple has no partial month",
			debts:   []core.Debt{{RemainingAmount: 300, MonthlyPayment: 100}},
			horizon: 4,
			want:    []float64{100, 100, 100, 0},
		},
		{
			name:    "balance below one payment retires in first month",
			debts:   []core.Debt{{RemainingAmount: 40, MonthlyPayment: 100}},
			horizon: 3,
			want:    []float64{40, 0, 0},
		},
		{
			name:    "zero payment contributes nothing",
			debts:   []core.Debt{{RemainingAmount: 500, MonthlyPayment: 0}},
			horizon: 3,
			want:    []float64{0, 0, 0},
		},
		{
			name:    "paid off debt contributes nothing",
			debts:   []core.Debt{{RemainingAmount: 0, MonthlyPayment: 100}},
			horizon: 3,
			want:    []float64{0, 0, 0},
		},
		{
			name: "aggregate reaches zero when the last debt does",
			debts: []core.Debt{
				{RemainingAmount: 150, MonthlyPayment: 100}, // retires at month 2
				{RemainingAmount: 380, MonthlyPayment: 100}, // retires at month 4
			},
			horizon: 6,
			want:    []float64{200, 150, 100, 80, 0, 0},
		},
		{
			name:    "zero horizon yields empty schedule",
			debts:   []core.Debt{{RemainingAmount: 100, MonthlyPayment: 50}},
			horizon: 0,
			want:    []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectDebtSchedule(tt.debts, tt.horizon)
			if len(got) != len(tt.want) {
				t.Fatalf("schedule length = %d, want %d", len(got), len(tt.want))
			}
			for i, w := range tt.want {
				if math.Abs(got[i]-w) > eps {
					t.Errorf("month %d payment = %v, want %v", i, got[i], w)
				}
			}
		})
	}
}

// Per-debt contributions are non-negative, weakly non-increasing over active
// months, and sum to the original balance.
func TestProjectDebtSchedule_ConservesBalance(t *testing.T) {
	debts := []core.Debt{
		{RemainingAmount: 250, MonthlyPayment: 100},
		{RemainingAmount: 999.99, MonthlyPayment: 250},
		{RemainingAmount: 33.33, MonthlyPayment: 33.33},
	}

	for _, d := range debts {
		schedule := ProjectDebtSchedule([]core.Debt{d}, 24)
		var total float64
		for i, p := range schedule {
			if p < 0 {
				t.Errorf("debt %v: negative payment %v at month %d", d.RemainingAmount, p, i)
			}
			if i > 0 && p > schedule[i-1]+eps {
				t.Errorf("debt %v: payment increased from %v to %v at month %d", d.RemainingAmount, schedule[i-1], p, i)
			}
			total += p
		}
		if math.Abs(total-d.RemainingAmount) > 1e-6 {
			t.Errorf("debt %v: payments sum to %v, want the full balance", d.RemainingAmount, total)
		}
	}
}

func TestDebtFreeMonth(t *testing.T) {
	tests := []struct {
		name     string
		schedule []float64
		want     int
	}{
		{
			name:     "payoff mid-horizon",
			schedule: []float64{100, 100, 50, 0, 0},
			want:     3,
		},
		{
			name:     "never pays off within horizon",
			schedule: []float64{100, 100, 100},
			want:     -1,
		},
		{
			name:     "no debts at all",
			schedule: []float64{0, 0, 0},
			want:     -1,
		},
		{
			name:     "empty schedule",
			schedule: nil,
			want:     -1,
		},
		{
			name:     "payoff at month one",
			schedule: []float64{75, 0, 0},
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DebtFreeMonth(tt.schedule); got != tt.want {
				t.Errorf("DebtFreeMonth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNearPayoff(t *testing.T) {
	debts := []core.Debt{
		{ID: "a", Name: "Almost done", RemainingAmount: 150, MonthlyPayment: 100},
		{ID: "b", Name: "Still going", RemainingAmount: 250, MonthlyPayment: 100},
		{ID: "c", Name: "Exactly two payments", RemainingAmount: 200, MonthlyPayment: 100},
		{ID: "d", Name: "Paid off", RemainingAmount: 0, MonthlyPayment: 100},
		{ID: "e", Name: "Not amortizing", RemainingAmount: 50, MonthlyPayment: 0},
	}

	near := NearPayoff(debts)

	wantIDs := []string{"a", "c"}
	if len(near) != len(wantIDs) {
		t.Fatalf("NearPayoff() returned %d debts, want %d", len(near), len(wantIDs))
	}
	for i, id := range wantIDs {
		if near[i].ID != id {
			t.Errorf("NearPayoff()[%d].ID = %q, want %q", i, near[i].ID, id)
		}
	}
}
