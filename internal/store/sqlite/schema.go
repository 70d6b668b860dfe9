package sqlite

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the memories and memory_media tables if they do not
// exist and applies additive column migrations. It is idempotent and safe to
// run on every cold start and before every operation.
//
// Migrations only ever add nullable columns; existing columns are never
// dropped or renamed.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS memories (
            id TEXT PRIMARY KEY,
            title TEXT NULL,
            body TEXT NULL,
            createdAt TEXT NOT NULL,
            happenedAt TEXT NOT NULL,
            latitude REAL NOT NULL,
            longitude REAL NOT NULL,
            placeLabel TEXT NULL,
            updatedAt TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS memory_media (
            id TEXT PRIMARY KEY,
            memoryId TEXT NOT NULL,
            type TEXT NOT NULL,
            uri TEXT NOT NULL,
            createdAt TEXT NOT NULL,
            FOREIGN KEY (memoryId) REFERENCES memories(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_memories_happened_at ON memories(happenedAt);`,
		`CREATE INDEX IF NOT EXISTS idx_media_memory_id ON memory_media(memoryId);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Columns introduced after the first schema version. Older databases get
	// them added here; new databases hit the exists-check and skip.
	migrations := []struct{ column, colType string }{
		{"trackId", "TEXT"},
		{"trackTitle", "TEXT"},
		{"trackArtist", "TEXT"},
		{"trackAlbumArtUrl", "TEXT"},
		{"trackPreviewUrl", "TEXT"},
		{"noteBlocks", "TEXT"},
	}
	for _, mig := range migrations {
		if err := ensureColumn(db, "memories", mig.column, mig.colType); err != nil {
			return fmt.Errorf("add column %s.%s: %w", "memories", mig.column, err)
		}
	}
	return nil
}

// ensureColumn adds a nullable column if it is not already present. SQLite
// has no ALTER TABLE ... ADD COLUMN IF NOT EXISTS, so PRAGMA table_info is
// consulted first.
func ensureColumn(db *sql.DB, table, column, colType string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colType))
	return err
}
