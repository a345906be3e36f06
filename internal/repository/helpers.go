package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// encodeDoc serializes an entity into the doc column.
func encodeDoc(kind string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s document: %w", kind, err)
	}
	return string(data), nil
}

// decodeDoc parses a doc column. Timestamp fields are normalized by
// domain.Timestamp regardless of which form the document carries.
func decodeDoc[T any](kind, raw string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decoding %s document: %w", kind, err)
	}
	return &v, nil
}

// queryDoc loads a single document. sql.ErrNoRows maps to ErrNotFound.
func queryDoc[T any](ctx context.Context, q db.DBTX, kind, query string, args ...any) (*T, error) {
	var raw string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%s: %w", kind, ErrNotFound)
		}
		return nil, fmt.Errorf("loading %s: %w", kind, err)
	}
	return decodeDoc[T](kind, raw)
}

// queryDocs loads every document selected by query. The rows are fully
// drained before returning.
func queryDocs[T any](ctx context.Context, q db.DBTX, kind, query string, args ...any) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	var raws []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", kind, err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", kind, err)
	}

	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		v, err := decodeDoc[T](kind, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// execAffectingOne runs a write that must touch exactly one row.
func execAffectingOne(ctx context.Context, q db.DBTX, kind, query string, args ...any) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("writing %s: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}

// nullableTimestamp converts a *domain.Timestamp to a value suitable for
// SQLite storage. Returns nil (SQL NULL) if the pointer is nil or zero.
func nullableTimestamp(ts *domain.Timestamp) any {
	if ts == nil || ts.IsZero() {
		return nil
	}
	return ts.ISO()
}

// isoTime renders t in the column layout.
func isoTime(t time.Time) string {
	return t.UTC().Format(domain.ISOLayout)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
