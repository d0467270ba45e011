package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create analyses",
		SQL: `
			CREATE TABLE analyses (
				id              TEXT PRIMARY KEY,
				type            TEXT NOT NULL,
				status          TEXT NOT NULL,
				recommendation  TEXT NOT NULL DEFAULT '',
				savings_percent REAL NOT NULL DEFAULT 0,
				requirements    TEXT NOT NULL,
				result          TEXT,
				created_at      TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE INDEX idx_analyses_created ON analyses (created_at DESC);
			CREATE INDEX idx_analyses_type ON analyses (type);
		`,
	},
}
