// Package storage persists EasyBudget documents and audit history.
//
// RecordStore is the single persistence port: the whole document is loaded
// when a session opens and written back when it closes. Implementations live
// in this package (SQLite) and in the file and memory subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"easybudget/internal/core"
)

// ErrNoRecord is returned by Load when nothing has been persisted yet.
var ErrNoRecord = errors.New("no record persisted")

// RecordStore loads and saves the persisted EasyBudget document.
type RecordStore interface {
	Load(ctx context.Context) (core.EasyBudgetRecord, error)
	Save(ctx context.Context, rec core.EasyBudgetRecord) error
}

// AuditEvent is one stored entry of the audit trail.
type AuditEvent struct {
	ID          int64
	SessionID   string
	Description string
	LoggedAt    time.Time
	ReceivedAt  time.Time
}

// AuditSink appends consumed audit events.
type AuditSink interface {
	AppendAuditEvent(ctx context.Context, e AuditEvent) (int64, error)
}
