package services

import (
	"context"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// Ports for the snapshot sources and outbound collaborators the services
// compose. The engine itself never sees these; services fetch consistent
// snapshots and hand them to pure functions.
type (
	RecordSource interface {
		ListRecords(ctx context.Context) ([]core.MoneyRecord, error)
	}

	DebtSource interface {
		ListDebts(ctx context.Context) ([]core.Debt, error)
	}

	MemberSource interface {
		ListMembers(ctx context.Context) ([]core.HouseholdMember, error)
	}

	// ReminderRunStore persists the last evaluation date per caller key,
	// making "already notified today" explicit state instead of an ambient
	// flag.
	ReminderRunStore interface {
		LastRun(ctx context.Context, callerKey string) (time.Time, error)
		RecordRun(ctx context.Context, callerKey string, runDate time.Time) error
	}

	// ReminderPublisher hands a day's reminder batch to the notification
	// dispatcher.
	ReminderPublisher interface {
		PublishReminderBatch(ctx context.Context, msg *amqp.ReminderBatchMessage) error
	}
)
