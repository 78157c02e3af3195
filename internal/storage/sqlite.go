package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"easybudget/internal/core"
	"easybudget/internal/log"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// SQLiteRepository stores the EasyBudget document in relational form and
// keeps the audit trail consumed by the worker.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ RecordStore = (*SQLiteRepository)(nil)
	_ AuditSink   = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

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

// Load implements RecordStore. It returns ErrNoRecord until the first Save.
func (r *SQLiteRepository) Load(ctx context.Context) (core.EasyBudgetRecord, error) {
	var total string
	err := r.db.QueryRowContext(ctx, `SELECT total_limit FROM budget WHERE id = 1`).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return core.EasyBudgetRecord{}, ErrNoRecord
	}
	if err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("select budget: %w", err)
	}

	budget := core.BudgetRecord{Limit: json.Number(total), Items: []core.BudgetItemRecord{}}
	rows, err := r.db.QueryContext(ctx, `SELECT category, limit_value FROM budget_items ORDER BY position`)
	if err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("select budget items: %w", err)
	}
	for rows.Next() {
		var item core.BudgetItemRecord
		var limit string
		if err := rows.Scan(&item.Category, &limit); err != nil {
			rows.Close()
			return core.EasyBudgetRecord{}, fmt.Errorf("scan budget item: %w", err)
		}
		item.Limit = json.Number(limit)
		budget.Items = append(budget.Items, item)
	}
	if err := closeRows(rows); err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("iterate budget items: %w", err)
	}

	tracker := core.SpendingTrackerRecord{Expenses: []core.ExpenseRecord{}}
	rows, err = r.db.QueryContext(ctx, `
		SELECT id, price, description, vendor, date, category
		FROM expenses ORDER BY position`)
	if err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("select expenses: %w", err)
	}
	for rows.Next() {
		var e core.ExpenseRecord
		var price string
		if err := rows.Scan(&e.ID, &price, &e.Description, &e.Vendor, &e.Date, &e.Category); err != nil {
			rows.Close()
			return core.EasyBudgetRecord{}, fmt.Errorf("scan expense: %w", err)
		}
		e.Price = json.Number(price)
		tracker.Expenses = append(tracker.Expenses, e)
	}
	if err := closeRows(rows); err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("iterate expenses: %w", err)
	}

	slog.DebugContext(ctx, "Record loaded from SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpLoad,
		"items", len(budget.Items),
		"expenses", len(tracker.Expenses))

	return core.EasyBudgetRecord{Budget: &budget, SpendingTracker: &tracker}, nil
}

// Save implements RecordStore by replacing every row in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, rec core.EasyBudgetRecord) error {
	if rec.Budget == nil {
		return fmt.Errorf("%w: missing budget", core.ErrMalformedRecord)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM budget_items`, `DELETE FROM expenses`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO budget (id, total_limit, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET total_limit = excluded.total_limit, updated_at = excluded.updated_at`,
		rec.Budget.Limit.String(), time.Now().UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	for i, item := range rec.Budget.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_items (position, category, limit_value) VALUES (?, ?, ?)`,
			i, item.Category, item.Limit.String()); err != nil {
			return fmt.Errorf("insert budget item: %w", err)
		}
	}

	var expenses []core.ExpenseRecord
	if rec.SpendingTracker != nil {
		expenses = rec.SpendingTracker.Expenses
	}
	for i, e := range expenses {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO expenses (position, id, price, description, vendor, date, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, e.ID, e.Price.String(), e.Description, e.Vendor, e.Date, e.Category); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpSave,
		"items", len(rec.Budget.Items),
		"expenses", len(expenses))
	return nil
}

// AppendAuditEvent implements AuditSink.
func (r *SQLiteRepository) AppendAuditEvent(ctx context.Context, e AuditEvent) (int64, error) {
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_events (session_id, description, logged_at, received_at)
		VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Description,
		e.LoggedAt.UTC().Format(timeLayout), e.ReceivedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert audit event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("audit event id: %w", err)
	}
	return id, nil
}

// ListAuditEvents returns the most recent events first. A non-positive
// limit returns everything.
func (r *SQLiteRepository) ListAuditEvents(ctx context.Context, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, description, logged_at, received_at
		FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select audit events: %w", err)
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var loggedAt, receivedAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Description, &loggedAt, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if e.LoggedAt, err = time.Parse(timeLayout, loggedAt); err != nil {
			return nil, fmt.Errorf("parse logged_at: %w", err)
		}
		if e.ReceivedAt, err = time.Parse(timeLayout, receivedAt); err != nil {
			return nil, fmt.Errorf("parse received_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
