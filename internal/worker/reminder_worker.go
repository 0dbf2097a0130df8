// Package worker runs the periodic due-payment evaluation loop.
package worker

import (
	"context"
	"time"

	"bilancio/internal/log"
	"bilancio/internal/metrics"
	"bilancio/internal/services"
)

// ReminderWorker ticks at a fixed interval and asks the reminder service to
// evaluate due payments. The service's per-day idempotency makes the interval
// safe to set well below 24h: extra ticks become cheap skips, and a tick that
// failed to publish is retried on the next one.
type ReminderWorker struct {
	service   *services.ReminderService
	metrics   *metrics.Metrics
	logger    *log.Logger
	callerKey string
	interval  time.Duration
	now       func() time.Time
}

func NewReminderWorker(service *services.ReminderService, m *metrics.Metrics, logger *log.Logger, callerKey string, interval time.Duration) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		service:   service,
		metrics:   m,
		logger:    logger.WithComponent(log.ComponentWorker),
		callerKey: callerKey,
		interval:  interval,
		now:       time.Now,
	}
}

// Run evaluates once immediately, then on every tick until the context is
// cancelled. Evaluation errors are logged and do not stop the loop.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "reminder worker started",
		log.FieldCallerKey, w.callerKey,
		"interval", w.interval.String())

	w.evaluate(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "reminder worker stopping", log.FieldOperation, log.OpShutdown)
			return ctx.Err()
		case <-ticker.C:
			w.evaluate(ctx)
		}
	}
}

func (w *ReminderWorker) evaluate(ctx context.Context) {
	today := w.now()
	eval, err := w.service.EvaluateDaily(ctx, w.callerKey, today)
	if err != nil {
		w.logger.ErrorContext(ctx, "reminder evaluation failed",
			log.FieldOperation, log.OpEvaluate,
			log.FieldRunDate, today.Format("2006-01-02"),
			log.FieldError, err)
		return
	}
	if eval.Skipped {
		return
	}

	w.metrics.ReminderBatches.Inc()
	w.metrics.RemindersPublished.Add(float64(len(eval.Reminders)))

	w.logger.InfoContext(ctx, "reminder evaluation done",
		log.FieldRunDate, eval.RunDate,
		"reminders", len(eval.Reminders),
		"near_payoff", len(eval.NearPayoff))
}
