package store

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS records (
    tbl         TEXT NOT NULL,
    key         TEXT NOT NULL,
    body        TEXT NOT NULL,
    updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    PRIMARY KEY (tbl, key)
);

CREATE INDEX IF NOT EXISTS idx_records_updated ON records(tbl, updated_at DESC);
`

func (d *DB) migrate() error {
	if _, err := d.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
