package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "sessions",
		sql: `
			CREATE TABLE sessions (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'waiting',
				grid_rows INTEGER NOT NULL,
				grid_cols INTEGER NOT NULL,
				territories_per_player INTEGER,
				mode TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				started_at DATETIME
			);
			CREATE INDEX idx_sessions_status ON sessions(status);

			CREATE TABLE session_players (
				session_id TEXT NOT NULL,
				player_index INTEGER NOT NULL,
				name TEXT NOT NULL,
				joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (session_id, player_index),
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
			);
		`,
	},
	{
		id:   2,
		name: "action_journal",
		sql: `
			-- Append-only; rows are never updated.
			CREATE TABLE actions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				player_index INTEGER NOT NULL,
				action_type TEXT NOT NULL,
				payload_json TEXT NOT NULL,
				accepted BOOLEAN NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_actions_session ON actions(session_id);
		`,
	},
	{
		id:   3,
		name: "session_seed",
		sql:  `ALTER TABLE sessions ADD COLUMN seed INTEGER NOT NULL DEFAULT 0;`,
	},
}
