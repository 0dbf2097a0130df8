package services

import (
	"context"
	"errors"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
)

// fakeStore implements the snapshot source ports in memory.
type fakeStore struct {
	records []core.MoneyRecord
	debts   []core.Debt
	members []core.HouseholdMember
	runs    map[string]time.Time

	failListRecords bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{runs: make(map[string]time.Time)}
}

func (f *fakeStore) ListRecords(ctx context.Context) ([]core.MoneyRecord, error) {
	if f.failListRecords {
		return nil, errors.New("records unavailable")
	}
	return f.records, nil
}

func (f *fakeStore) ListDebts(ctx context.Context) ([]core.Debt, error) {
	return f.debts, nil
}

func (f *fakeStore) ListMembers(ctx context.Context) ([]core.HouseholdMember, error) {
	return f.members, nil
}

func (f *fakeStore) LastRun(ctx context.Context, callerKey string) (time.Time, error) {
	return f.runs[callerKey], nil
}

func (f *fakeStore) RecordRun(ctx context.Context, callerKey string, runDate time.Time) error {
	f.runs[callerKey] = runDate
	return nil
}

// fakePublisher records published batches and optionally fails.
type fakePublisher struct {
	published []*amqp.ReminderBatchMessage
	fail      bool
}

func (p *fakePublisher) PublishReminderBatch(ctx context.Context, msg *amqp.ReminderBatchMessage) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, msg)
	return nil
}
