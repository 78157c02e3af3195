// Package file stores the EasyBudget document as a single JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"easybudget/internal/core"
	"easybudget/internal/log"
	"easybudget/internal/storage"
)

// Store reads and writes one JSON document at path.
type Store struct {
	path string
}

var _ storage.RecordStore = (*Store)(nil)

// New returns a store for path. The file need not exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the document.
func (s *Store) Path() string { return s.path }

// Load decodes the document. A missing file yields storage.ErrNoRecord;
// undecodable content or a document without a budget is malformed.
func (s *Store) Load(ctx context.Context) (core.EasyBudgetRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.EasyBudgetRecord{}, storage.ErrNoRecord
	}
	if err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rec core.EasyBudgetRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("%w: decode %s: %v", core.ErrMalformedRecord, s.path, err)
	}
	if rec.Budget == nil {
		return core.EasyBudgetRecord{}, fmt.Errorf("%w: %s has no budget", core.ErrMalformedRecord, s.path)
	}

	slog.DebugContext(ctx, "Record loaded from file",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpLoad,
		log.FieldPath, s.path)
	return rec, nil
}

// Save writes the document to a temporary file in the same directory and
// renames it over the target, so readers never observe a partial write.
func (s *Store) Save(ctx context.Context, rec core.EasyBudgetRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	slog.InfoContext(ctx, "Record saved to file",
		log.FieldComponent, log.ComponentStorage,
		log.FieldOperation, log.OpSave,
		log.FieldPath, s.path,
		"bytes", len(data))
	return nil
}
