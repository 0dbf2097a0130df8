package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist or was soft deleted.
var ErrNotFound = errors.New("not found")

// SQLiteRepository stores records, debts, household members and reminder run
// state. It hands out immutable snapshots; all computation happens elsewhere.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateRecord inserts a money record and returns it with its assigned ID.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, rec core.MoneyRecord) (core.MoneyRecord, error) {
	if err := rec.Validate(); err != nil {
		return core.MoneyRecord{}, fmt.Errorf("validate record: %w", err)
	}
	rec.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO money_records
			(id, name, amount, kind, frequency_months, day_of_month, is_shared, owner_member_id, is_recurring, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Amount, string(rec.Kind), rec.FrequencyMonths,
		rec.DayOfMonth, rec.IsShared, rec.OwnerMemberID, rec.IsRecurring, rec.Category,
	)
	if err != nil {
		return core.MoneyRecord{}, fmt.Errorf("insert record: %w", err)
	}

	slog.InfoContext(ctx, "Money record saved",
		"record_id", rec.ID,
		"name", rec.Name,
		"kind", rec.Kind,
		"amount", rec.Amount)

	return rec, nil
}

// ListRecords returns all records that were not soft deleted.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.MoneyRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, amount, kind, frequency_months, day_of_month, is_shared, owner_member_id, is_recurring, category
		FROM money_records
		WHERE deleted_at IS NULL
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []core.MoneyRecord
	for rows.Next() {
		var rec core.MoneyRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Amount, &kind, &rec.FrequencyMonths,
			&rec.DayOfMonth, &rec.IsShared, &rec.OwnerMemberID, &rec.IsRecurring, &rec.Category); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Kind = core.RecordKind(kind)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRecord returns a single record by ID.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id string) (core.MoneyRecord, error) {
	var rec core.MoneyRecord
	var kind string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, amount, kind, frequency_months, day_of_month, is_shared, owner_member_id, is_recurring, category
		FROM money_records
		WHERE id = ? AND deleted_at IS NULL`, id).
		Scan(&rec.ID, &rec.Name, &rec.Amount, &kind, &rec.FrequencyMonths,
			&rec.DayOfMonth, &rec.IsShared, &rec.OwnerMemberID, &rec.IsRecurring, &rec.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MoneyRecord{}, ErrNotFound
	}
	if err != nil {
		return core.MoneyRecord{}, fmt.Errorf("get record: %w", err)
	}
	rec.Kind = core.RecordKind(kind)
	return rec, nil
}

// UpdateRecord replaces the mutable fields of an existing record.
func (r *SQLiteRepository) UpdateRecord(ctx context.Context, rec core.MoneyRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validate record: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE money_records
		SET name = ?, amount = ?, kind = ?, frequency_months = ?, day_of_month = ?,
			is_shared = ?, owner_member_id = ?, is_recurring = ?, category = ?
		WHERE id = ? AND deleted_at IS NULL`,
		rec.Name, rec.Amount, string(rec.Kind), rec.FrequencyMonths, rec.DayOfMonth,
		rec.IsShared, rec.OwnerMemberID, rec.IsRecurring, rec.Category, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireOneRow(res)
}

// SoftDeleteRecord marks a record deleted without losing its history.
func (r *SQLiteRepository) SoftDeleteRecord(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE money_records SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete record: %w", err)
	}
	return requireOneRow(res)
}

// CreateDebt inserts a debt and returns it with its assigned ID.
func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, fmt.Errorf("validate debt: %w", err)
	}
	d.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, name, remaining_amount, monthly_payment, day_of_month)
		VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.RemainingAmount, d.MonthlyPayment, d.DayOfMonth,
	)
	if err != nil {
		return core.Debt{}, fmt.Errorf("insert debt: %w", err)
	}

	slog.InfoContext(ctx, "Debt saved",
		"debt_id", d.ID,
		"name", d.Name,
		"remaining", d.RemainingAmount,
		"payment", d.MonthlyPayment)

	return d, nil
}

// ListDebts returns all debts.
func (r *SQLiteRepository) ListDebts(ctx context.Context) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, remaining_amount, monthly_payment, day_of_month
		FROM debts
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []core.Debt
	for rows.Next() {
		var d core.Debt
		if err := rows.Scan(&d.ID, &d.Name, &d.RemainingAmount, &d.MonthlyPayment, &d.DayOfMonth); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// UpdateDebt replaces the mutable fields of an existing debt.
func (r *SQLiteRepository) UpdateDebt(ctx context.Context, d core.Debt) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("validate debt: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE debts
		SET name = ?, remaining_amount = ?, monthly_payment = ?, day_of_month = ?
		WHERE id = ?`,
		d.Name, d.RemainingAmount, d.MonthlyPayment, d.DayOfMonth, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	return requireOneRow(res)
}

// DeleteDebt removes a debt.
func (r *SQLiteRepository) DeleteDebt(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return requireOneRow(res)
}

// CreateMember inserts a household member and returns it with its ID.
func (r *SQLiteRepository) CreateMember(ctx context.Context, m core.HouseholdMember) (core.HouseholdMember, error) {
	if err := m.Validate(); err != nil {
		return core.HouseholdMember{}, fmt.Errorf("validate member: %w", err)
	}
	m.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO household_members (id, name, color_tag) VALUES (?, ?, ?)`,
		m.ID, m.Name, m.ColorTag,
	)
	if err != nil {
		return core.HouseholdMember{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

// ListMembers returns all household members.
func (r *SQLiteRepository) ListMembers(ctx context.Context) ([]core.HouseholdMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color_tag FROM household_members ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.HouseholdMember
	for rows.Next() {
		var m core.HouseholdMember
		if err := rows.Scan(&m.ID, &m.Name, &m.ColorTag); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// DeleteMember removes a household member. Records owned by the member keep
// their owner reference; ownership is informational and never gates math.
func (r *SQLiteRepository) DeleteMember(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM household_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireOneRow(res)
}

// LastRun returns the date of the last reminder evaluation for a caller key.
// A caller that never ran gets the zero time, not an error.
func (r *SQLiteRepository) LastRun(ctx context.Context, callerKey string) (time.Time, error) {
	var runDate string
	err := r.db.QueryRowContext(ctx,
		`SELECT run_date FROM reminder_runs WHERE caller_key = ?`, callerKey).Scan(&runDate)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last run: %w", err)
	}

	t, err := time.Parse("2006-01-02", runDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last run date %q: %w", runDate, err)
	}
	return t, nil
}

// RecordRun stores the date of a completed reminder evaluation.
func (r *SQLiteRepository) RecordRun(ctx context.Context, callerKey string, runDate time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminder_runs (caller_key, run_date, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(caller_key) DO UPDATE SET run_date = excluded.run_date, updated_at = CURRENT_TIMESTAMP`,
		callerKey, runDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
