// ABOUTME: Database schema definitions and migrations
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	submitted_at TEXT NOT NULL,
	reseller_country TEXT,
	reseller_location TEXT,
	reseller_name TEXT NOT NULL,
	reseller_contact TEXT NOT NULL,
	reseller_email TEXT NOT NULL,
	reseller_phone TEXT,
	customer_name TEXT NOT NULL,
	customer_location TEXT,
	city TEXT,
	country TEXT,
	lat REAL,
	lng REAL,
	industry TEXT,
	currency TEXT NOT NULL,
	value REAL NOT NULL,
	solution TEXT NOT NULL,
	stage TEXT NOT NULL,
	probability INTEGER NOT NULL,
	expected_close_date TEXT NOT NULL,
	supports TEXT,
	competitors TEXT,
	notes TEXT,
	evidence_links TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	confidential INTEGER NOT NULL DEFAULT 0,
	reminders_opt_in INTEGER NOT NULL DEFAULT 0,
	lock_expiry TEXT,
	synced_at TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_customer_name ON deals(customer_name);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_synced_at ON deals(synced_at);

CREATE TABLE IF NOT EXISTS deal_updates (
	id TEXT PRIMARY KEY,
	deal_id TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (deal_id) REFERENCES deals(id)
);

CREATE INDEX IF NOT EXISTS idx_deal_updates_deal_id ON deal_updates(deal_id);

CREATE TABLE IF NOT EXISTS attachments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	deal_id TEXT NOT NULL,
	name TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	content TEXT NOT NULL,
	FOREIGN KEY (deal_id) REFERENCES deals(id)
);

CREATE INDEX IF NOT EXISTS idx_attachments_deal_id ON attachments(deal_id);

CREATE TABLE IF NOT EXISTS sync_state (
	service TEXT PRIMARY KEY,
	last_sync_time DATETIME,
	status TEXT CHECK(status IN ('idle', 'syncing', 'error')),
	error_message TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
