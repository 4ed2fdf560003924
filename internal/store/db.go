// Package store persists fetched Jira records in a local SQLite file and
// serves them back cache-aside.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

const (
	// TableProjects holds one record per project, keyed by project key.
	TableProjects = "projects"
	// TableTickets holds one record per ticket, keyed by ticket key.
	TableTickets = "tickets"
)

// RecordKey addresses a single record.
type RecordKey struct {
	Table string
	Key   string
}

func (k RecordKey) String() string {
	return k.Table + "/" + k.Key
}

// IOError reports a failed store operation.
type IOError struct {
	Op  string
	Key RecordKey
	Err error
}

func (e *IOError) Error() string {
	if e.Key == (RecordKey{}) {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// DB is the record store.
type DB struct {
	*sql.DB
}

// Open opens or creates the store at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &IOError{Op: "open", Err: err}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}
	// Pragmas below are per connection.
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			_ = sqlDB.Close()
			return nil, &IOError{Op: "open", Err: fmt.Errorf("exec pragma %q: %w", p, err)}
		}
	}

	db := &DB{sqlDB}
	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, &IOError{Op: "migrate", Err: err}
	}

	return db, nil
}

// Select returns the record body for key. The boolean is false when the
// record does not exist.
func (d *DB) Select(ctx context.Context, key RecordKey) (json.RawMessage, bool, error) {
	var body string
	err := d.QueryRowContext(ctx,
		`SELECT body FROM records WHERE tbl = ? AND key = ?`,
		key.Table, key.Key,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &IOError{Op: "select", Key: key, Err: err}
	}
	return json.RawMessage(body), true, nil
}

// Merge applies patch to the record at key as a JSON merge patch and
// returns the merged body. A missing record is created. Members set to
// null in the patch are removed from the record.
func (d *DB) Merge(ctx context.Context, key RecordKey, patch any) (json.RawMessage, error) {
	var raw []byte
	switch p := patch.(type) {
	case json.RawMessage:
		raw = p
	case []byte:
		raw = p
	default:
		var err error
		raw, err = json.Marshal(patch)
		if err != nil {
			return nil, &IOError{Op: "merge", Key: key, Err: err}
		}
	}

	var merged string
	err := d.QueryRowContext(ctx, `
		INSERT INTO records (tbl, key, body, updated_at)
		VALUES (?1, ?2, json_patch('{}', ?3), ?4)
		ON CONFLICT (tbl, key) DO UPDATE SET
			body = json_patch(records.body, ?3),
			updated_at = ?4
		RETURNING body`,
		key.Table, key.Key, string(raw), time.Now().UTC().Format(time.RFC3339),
	).Scan(&merged)
	if err != nil {
		return nil, &IOError{Op: "merge", Key: key, Err: err}
	}
	return json.RawMessage(merged), nil
}

// List returns the bodies of every record in table, ordered by key. When
// path is set only records whose JSON value at path equals value are
// returned.
func (d *DB) List(ctx context.Context, table, path string, value any) ([]json.RawMessage, error) {
	query := `SELECT body FROM records WHERE tbl = ?`
	args := []any{table}
	if path != "" {
		query += ` AND json_extract(body, ?) = ?`
		args = append(args, path, value)
	}
	query += ` ORDER BY key`

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &IOError{Op: "list", Key: RecordKey{Table: table}, Err: err}
	}
	defer rows.Close()

	var bodies []json.RawMessage
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, &IOError{Op: "list", Key: RecordKey{Table: table}, Err: err}
		}
		bodies = append(bodies, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "list", Key: RecordKey{Table: table}, Err: err}
	}
	return bodies, nil
}

// Clear removes every record.
func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return &IOError{Op: "clear", Err: err}
	}
	return nil
}
