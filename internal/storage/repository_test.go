package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bilancio/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRecordLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.CreateRecord(ctx, core.MoneyRecord{
		Name:            "Rent",
		Amount:          900,
		Kind:            core.Expense,
		FrequencyMonths: 1,
		DayOfMonth:      1,
		IsShared:        true,
		IsRecurring:     true,
		Category:        "housing",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("CreateRecord did not assign an ID")
	}

	got, err := repo.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got != rec {
		t.Errorf("GetRecord = %+v, want %+v", got, rec)
	}

	rec.Amount = 950
	rec.Category = ""
	if err := repo.UpdateRecord(ctx, rec); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	got, err = repo.GetRecord(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRecord after update: %v", err)
	}
	if got.Amount != 950 || got.Category != "" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := repo.SoftDeleteRecord(ctx, rec.ID); err != nil {
		t.Fatalf("SoftDeleteRecord: %v", err)
	}
	if _, err := repo.GetRecord(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord after delete = %v, want ErrNotFound", err)
	}
	records, err := repo.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("soft deleted record still listed: %+v", records)
	}
}

func TestCreateRecord_RejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.CreateRecord(context.Background(), core.MoneyRecord{
		Name:   "Bad",
		Amount: -1,
		Kind:   core.Expense,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("CreateRecord with negative amount = %v, want ErrInvalidAmount", err)
	}
}

func TestDebtLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	d, err := repo.CreateDebt(ctx, core.Debt{
		Name:            "Car loan",
		RemainingAmount: 4000,
		MonthlyPayment:  250,
		DayOfMonth:      5,
	})
	if err != nil {
		t.Fatalf("CreateDebt: %v", err)
	}

	d.RemainingAmount = 3750
	if err := repo.UpdateDebt(ctx, d); err != nil {
		t.Fatalf("UpdateDebt: %v", err)
	}

	debts, err := repo.ListDebts(ctx)
	if err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	if len(debts) != 1 || debts[0].RemainingAmount != 3750 {
		t.Errorf("ListDebts = %+v, want one debt with balance 3750", debts)
	}

	if err := repo.DeleteDebt(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDebt: %v", err)
	}
	if err := repo.DeleteDebt(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteDebt = %v, want ErrNotFound", err)
	}
}

func TestMemberLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.CreateMember(ctx, core.HouseholdMember{Name: "Anna", ColorTag: "#ff8800"})
	if err != nil {
		t.Fatalf("CreateMember: %v", err)
	}
	if _, err := repo.CreateMember(ctx, core.HouseholdMember{Name: "Ben"}); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	members, err := repo.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("ListMembers returned %d members, want 2", len(members))
	}
	if members[0].ID != a.ID || members[0].ColorTag != "#ff8800" {
		t.Errorf("first member = %+v, want %+v", members[0], a)
	}

	if err := repo.DeleteMember(ctx, a.ID); err != nil {
		t.Fatalf("DeleteMember: %v", err)
	}
	members, _ = repo.ListMembers(ctx)
	if len(members) != 1 {
		t.Errorf("after delete ListMembers returned %d members, want 1", len(members))
	}
}

func TestReminderRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	last, err := repo.LastRun(ctx, "worker-1")
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("LastRun for unknown caller = %v, want zero time", last)
	}

	day1 := time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)
	if err := repo.RecordRun(ctx, "worker-1", day1); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	last, err = repo.LastRun(ctx, "worker-1")
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if last.Format("2006-01-02") != "2026-09-01" {
		t.Errorf("LastRun = %v, want 2026-09-01", last)
	}

	// Upsert on the same caller key.
	day2 := day1.AddDate(0, 0, 1)
	if err := repo.RecordRun(ctx, "worker-1", day2); err != nil {
		t.Fatalf("RecordRun upsert: %v", err)
	}
	last, _ = repo.LastRun(ctx, "worker-1")
	if last.Format("2006-01-02") != "2026-09-02" {
		t.Errorf("LastRun after upsert = %v, want 2026-09-02", last)
	}

	// Caller keys are independent.
	other, _ := repo.LastRun(ctx, "worker-2")
	if !other.IsZero() {
		t.Errorf("LastRun for other caller = %v, want zero time", other)
	}
}
