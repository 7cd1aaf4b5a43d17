// Package dbtest opens seeded in-memory stores for unit tests.
package dbtest

import (
	"context"
	"testing"

	"ListableAPI/internal/db"
)

const schema = `
CREATE TABLE item (
	id      INTEGER PRIMARY KEY,
	barcode TEXT NOT NULL,
	name    TEXT NOT NULL
);
CREATE TABLE inventory_log (
	id         INTEGER PRIMARY KEY,
	item_id    INTEGER REFERENCES item(id),
	quantity   INTEGER NOT NULL,
	type       TEXT NOT NULL,
	deleted_at TEXT
);
INSERT INTO item (id, barcode, name) VALUES
	(1, 'B-001', 'Hex bolt'),
	(2, 'N-002', 'Nut'),
	(3, 'W-003', 'Washer'),
	(4, 'B-004', 'Carriage Bolt'),
	(5, 'S-005', 'Screw');
INSERT INTO inventory_log (id, item_id, quantity, type, deleted_at) VALUES
	(1, 1, 10, 'in', NULL),
	(2, 2, 25, 'in', NULL),
	(3, 3, 40, 'in', NULL),
	(4, 1, 3, 'out', NULL),
	(5, 5, 12, 'in', NULL),
	(6, 2, 7, 'out', NULL),
	(7, NULL, 2, 'adjust', NULL),
	(8, 4, 6, 'in', NULL),
	(9, 5, 4, 'out', NULL),
	(10, 3, 9, 'out', NULL),
	(11, 1, 99, 'in', '2024-01-01 00:00:00');
`

// Inventory counts for the seeded fixture.
const (
	InventoryTotal     = 10
	InventoryBoltMatch = 3
)

// NewSQLite returns an in-memory store with item and inventory_log
// seeded. It is closed when t finishes.
func NewSQLite(t testing.TB) *db.SQLite {
	t.Helper()
	store, err := db.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(store.Close)
	if _, err := store.DB.Exec(schema); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}
