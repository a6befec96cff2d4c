package storage

import "database/sql"

// migrateV001 creates the strings table and its lookup indexes. Every
// statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS strings (
			seq                 INTEGER PRIMARY KEY AUTOINCREMENT,
			id                  TEXT NOT NULL,
			value               TEXT NOT NULL UNIQUE,
			length              INTEGER NOT NULL,
			is_palindrome       BOOLEAN NOT NULL DEFAULT 0,
			unique_characters   INTEGER NOT NULL,
			word_count          INTEGER NOT NULL,
			character_frequency TEXT NOT NULL DEFAULT '{}',
			created_at          TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_strings_id         ON strings(id)`,
		`CREATE INDEX IF NOT EXISTS idx_strings_length     ON strings(length)`,
		`CREATE INDEX IF NOT EXISTS idx_strings_word_count ON strings(word_count)`,
		`CREATE INDEX IF NOT EXISTS idx_strings_palindrome ON strings(is_palindrome)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
