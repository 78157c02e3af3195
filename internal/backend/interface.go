package backend

import (
	"context"

	"easybudget/internal/services"
	"easybudget/internal/sheets"
	"easybudget/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult bundles what a session needs. Publisher and Exporter are nil
// when the corresponding integration is not configured.
type BackendResult struct {
	Store     storage.RecordStore
	Publisher services.EventPublisher
	Exporter  sheets.Exporter
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// File specific
	DataPath string

	// SQLite specific
	SQLiteDBPath string

	// Audit publishing, optional
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Sheets export, optional
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleBudgetSheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
