package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"bilancio/internal/finance"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{40, 30 * time.Second}, // shift overflow still capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			expected: true,
		},
		{
			name:     "closed connection",
			err:      errors.New("connection closed"),
			expected: true,
		},
		{
			name:     "unexpected EOF",
			err:      errors.New("unexpected EOF"),
			expected: true,
		},
		{
			name:     "protocol failure is not retried",
			err:      errors.New("ACCESS_REFUSED - login refused"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestReminderBatchMessageJSON(t *testing.T) {
	runDate := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)
	msg := NewReminderBatchMessage("reminder-worker", runDate,
		[]finance.Reminder{
			{ID: "r1", Name: "Rent", Amount: 900, DayOfMonth: 1, Kind: finance.ReminderExpense, DaysUntilDue: 0},
			{ID: "d1", Name: "Loan", Amount: 100, DayOfMonth: 3, Kind: finance.ReminderDebt, DaysUntilDue: 2},
		},
		[]NearPayoffAlert{{ID: "d1", Name: "Loan", RemainingAmount: 150, MonthlyPayment: 100}},
	)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := ReminderBatchMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.RunDate != "2026-09-01" {
		t.Errorf("RunDate = %q, want 2026-09-01", got.RunDate)
	}
	if got.CallerKey != "reminder-worker" {
		t.Errorf("CallerKey = %q", got.CallerKey)
	}
	if len(got.Reminders) != 2 || got.Reminders[1].Kind != finance.ReminderDebt {
		t.Errorf("Reminders = %+v", got.Reminders)
	}
	if len(got.NearPayoff) != 1 || got.NearPayoff[0].RemainingAmount != 150 {
		t.Errorf("NearPayoff = %+v", got.NearPayoff)
	}
}

func TestReminderBatchMessageFromJSON_Malformed(t *testing.T) {
	if _, err := ReminderBatchMessageFromJSON([]byte("{nope")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
