package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/finance"
)

// ReminderEvaluation is the outcome of one due-payment evaluation.
type ReminderEvaluation struct {
	Skipped    bool                   `json:"skipped"`
	RunDate    string                 `json:"run_date"`
	Reminders  []finance.Reminder     `json:"reminders"`
	NearPayoff []amqp.NearPayoffAlert `json:"near_payoff"`
}

// ReminderService runs the due-payment scheduler against fresh snapshots, at
// most once per calendar day per caller key, and hands results to the
// notification dispatcher.
type ReminderService struct {
	records       RecordSource
	debts         DebtSource
	runs          ReminderRunStore
	publisher     ReminderPublisher // nil disables publishing
	lookaheadDays int
}

func NewReminderService(records RecordSource, debts DebtSource, runs ReminderRunStore, publisher ReminderPublisher, lookaheadDays int) *ReminderService {
	return &ReminderService{
		records:       records,
		debts:         debts,
		runs:          runs,
		publisher:     publisher,
		lookaheadDays: lookaheadDays,
	}
}

// EvaluateDaily evaluates due payments for today unless this caller key was
// already evaluated on the same calendar day. The caller supplies today
// explicitly; the service never reads a clock.
func (s *ReminderService) EvaluateDaily(ctx context.Context, callerKey string, today time.Time) (ReminderEvaluation, error) {
	last, err := s.runs.LastRun(ctx, callerKey)
	if err != nil {
		return ReminderEvaluation{}, fmt.Errorf("get last run: %w", err)
	}
	if sameDay(last, today) {
		slog.InfoContext(ctx, "Reminder evaluation already ran today, skipping",
			"caller_key", callerKey,
			"run_date", today.Format("2006-01-02"))
		return ReminderEvaluation{Skipped: true, RunDate: today.Format("2006-01-02")}, nil
	}

	eval, err := s.Preview(ctx, today)
	if err != nil {
		return ReminderEvaluation{}, err
	}

	if s.publisher != nil && (len(eval.Reminders) > 0 || len(eval.NearPayoff) > 0) {
		msg := amqp.NewReminderBatchMessage(callerKey, today, eval.Reminders, eval.NearPayoff)
		if err := s.publisher.PublishReminderBatch(ctx, msg); err != nil {
			// The run is not recorded, so the next tick retries.
			return ReminderEvaluation{}, fmt.Errorf("publish reminder batch: %w", err)
		}
	}

	if err := s.runs.RecordRun(ctx, callerKey, today); err != nil {
		return ReminderEvaluation{}, fmt.Errorf("record run: %w", err)
	}

	slog.InfoContext(ctx, "Reminder evaluation complete",
		"caller_key", callerKey,
		"run_date", eval.RunDate,
		"reminders", len(eval.Reminders),
		"near_payoff", len(eval.NearPayoff))

	return eval, nil
}

// Preview evaluates due payments without idempotency bookkeeping or
// publishing. The HTTP API uses it to show the reminder list on demand.
func (s *ReminderService) Preview(ctx context.Context, today time.Time) (ReminderEvaluation, error) {
	records, err := s.records.ListRecords(ctx)
	if err != nil {
		return ReminderEvaluation{}, fmt.Errorf("list records: %w", err)
	}
	debts, err := s.debts.ListDebts(ctx)
	if err != nil {
		return ReminderEvaluation{}, fmt.Errorf("list debts: %w", err)
	}

	eval := ReminderEvaluation{
		RunDate:   today.Format("2006-01-02"),
		Reminders: finance.DueReminders(records, debts, today, s.lookaheadDays),
	}
	for _, d := range finance.NearPayoff(debts) {
		eval.NearPayoff = append(eval.NearPayoff, amqp.NearPayoffAlert{
			ID:              d.ID,
			Name:            d.Name,
			RemainingAmount: d.RemainingAmount,
			MonthlyPayment:  d.MonthlyPayment,
		})
	}
	return eval, nil
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}
