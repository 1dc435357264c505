package migrations

import (
	"context"
	"database/sql"
)

// GetInitialMigrations returns the migrations that create the base tables
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_initial_tables",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, []string{
					`CREATE TABLE members (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						login TEXT NOT NULL UNIQUE,
						name TEXT NOT NULL DEFAULT '',
						first_name TEXT NOT NULL DEFAULT '',
						email TEXT NOT NULL DEFAULT '',
						password TEXT NOT NULL DEFAULT '',
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE TABLE rooms (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						number INTEGER NOT NULL UNIQUE,
						description TEXT NOT NULL DEFAULT '',
						phone TEXT NOT NULL DEFAULT ''
					)`,
					`CREATE TABLE switches (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						description TEXT NOT NULL,
						ip TEXT NOT NULL,
						community TEXT NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE TABLE ports (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						switch_id INTEGER NOT NULL,
						room_id INTEGER,
						port_number TEXT NOT NULL,
						oid TEXT UNIQUE,
						rcom INTEGER NOT NULL DEFAULT 0,
						FOREIGN KEY (switch_id) REFERENCES switches(id) ON DELETE CASCADE,
						FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE SET NULL
					)`,
					`CREATE TABLE wired_devices (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						mac TEXT NOT NULL UNIQUE,
						ipv4 TEXT,
						ipv6 TEXT,
						member_id INTEGER NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
					)`,
					`CREATE TABLE wireless_devices (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						mac TEXT NOT NULL UNIQUE,
						member_id INTEGER NOT NULL,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
					)`,
				})
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				// reverse order for foreign keys
				return execAll(ctx, tx, []string{
					`DROP TABLE IF EXISTS wireless_devices`,
					`DROP TABLE IF EXISTS wired_devices`,
					`DROP TABLE IF EXISTS ports`,
					`DROP TABLE IF EXISTS switches`,
					`DROP TABLE IF EXISTS rooms`,
					`DROP TABLE IF EXISTS members`,
				})
			},
		},
	}
}

// GetIndexMigrations returns migrations adding indices for the list and lookup queries
func GetIndexMigrations() []Migration {
	return []Migration{
		{
			Version: 2,
			Name:    "add_lookup_indices",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, []string{
					"CREATE INDEX IF NOT EXISTS idx_ports_switch_port ON ports(switch_id, port_number)",
					"CREATE INDEX IF NOT EXISTS idx_ports_room_id ON ports(room_id)",
					"CREATE INDEX IF NOT EXISTS idx_wired_devices_member_id ON wired_devices(member_id)",
					"CREATE INDEX IF NOT EXISTS idx_wireless_devices_member_id ON wireless_devices(member_id)",
				})
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				return execAll(ctx, tx, []string{
					"DROP INDEX IF EXISTS idx_ports_switch_port",
					"DROP INDEX IF EXISTS idx_ports_room_id",
					"DROP INDEX IF EXISTS idx_wired_devices_member_id",
					"DROP INDEX IF EXISTS idx_wireless_devices_member_id",
				})
			},
		},
	}
}
