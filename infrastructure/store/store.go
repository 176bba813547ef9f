// Package store is the persistence gateway for UAT data. It translates
// between entity field names and table columns, swallows read failures
// (logged, empty result) and reports write failures as *WriteError.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"uattracker/infrastructure/sqlite"
)

var (
	// ErrInvalidInput is wrapped by write errors caused by validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is wrapped when an update or delete targets a missing row.
	ErrNotFound = errors.New("not found")
	// ErrForeignRecord is wrapped when an upsert targets an id owned by another project.
	ErrForeignRecord = errors.New("record belongs to another project")
)

// WriteError describes a failed create, update or delete.
type WriteError struct {
	Op    string
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func writeErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Op: op, Table: table, Err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Gateway performs CRUD against the sqlite store.
type Gateway struct {
	db     *sqlite.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewGateway creates a gateway. A nil logger uses slog.Default().
func NewGateway(db *sqlite.DB, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{db: db, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (g *Gateway) logReadFailure(op, projectID string, err error) {
	g.logger.Error("store read failed", slog.String("op", op), slog.String("project_id", projectID), slog.Any("err", err))
}

func ensureID(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}

func strPtr(v string) *string {
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
