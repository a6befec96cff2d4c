package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
)

const recordColumns = `id, value, length, is_palindrome, unique_characters, word_count, character_frequency, created_at`

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
	now    func() time.Time

	// Prepared statements
	insertRecord *sql.Stmt
	getRecord    *sql.Stmt
	deleteRecord *sql.Stmt
	countRecords *sql.Stmt
}

// OpenSQLite opens the database at path (":memory:" for a private in-memory
// database), applies migrations and returns a store that owns the handle.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).Run(context.Background()); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "run migrations")
	}

	s, err := NewSQLiteStore(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB, opts ...Option) (*SQLiteStore, error) {
	o := buildOptions(opts)
	s := &SQLiteStore{db: db, now: o.now}

	if err := s.prepareStatements(); err != nil {
		return nil, errors.Wrap(err, "prepare statements")
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertRecord, err = s.db.Prepare(`
		INSERT INTO strings (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}

	s.getRecord, err = s.db.Prepare(`SELECT ` + recordColumns + ` FROM strings WHERE value = ?`)
	if err != nil {
		return err
	}

	s.deleteRecord, err = s.db.Prepare(`DELETE FROM strings WHERE value = ?`)
	if err != nil {
		return err
	}

	s.countRecords, err = s.db.Prepare(`SELECT COUNT(*) FROM strings`)
	if err != nil {
		return err
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// Insert analyzes value and stores it. The UNIQUE constraint on value rejects
// concurrent duplicates.
func (s *SQLiteStore) Insert(ctx context.Context, value string) (*Record, error) {
	if err := validateValue(value); err != nil {
		return nil, err
	}

	rec := newRecord(value, s.now())
	freq, err := json.Marshal(rec.Properties.CharacterFrequencyMap)
	if err != nil {
		return nil, errors.Wrap(err, "encode character frequency")
	}

	_, err = s.insertRecord.ExecContext(ctx,
		rec.ID, rec.Value, rec.Properties.Length, rec.Properties.IsPalindrome,
		rec.Properties.UniqueCharacters, rec.Properties.WordCount, string(freq),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrapf(ErrAlreadyExists, "string %q", value)
		}
		return nil, errors.Wrap(err, "insert string")
	}

	return &rec, nil
}

// Get retrieves the record whose value matches exactly.
func (s *SQLiteStore) Get(ctx context.Context, value string) (*Record, error) {
	rec, err := scanRecord(s.getRecord.QueryRowContext(ctx, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "string %q", value)
		}
		return nil, errors.Wrap(err, "get string")
	}
	return rec, nil
}

// Delete removes the record whose value matches exactly.
func (s *SQLiteStore) Delete(ctx context.Context, value string) error {
	res, err := s.deleteRecord.ExecContext(ctx, value)
	if err != nil {
		return errors.Wrap(err, "delete string")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "string %q", value)
	}
	return nil
}

// List returns every record in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM strings ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "query strings")
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan string")
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.countRecords.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count strings")
	}
	return n, nil
}

// Close releases all prepared statements, and the database handle when the
// store opened it itself.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{s.insertRecord, s.getRecord, s.deleteRecord, s.countRecords}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec   Record
		freq  string
		tsStr string
	)
	err := row.Scan(
		&rec.ID, &rec.Value, &rec.Properties.Length, &rec.Properties.IsPalindrome,
		&rec.Properties.UniqueCharacters, &rec.Properties.WordCount, &freq, &tsStr,
	)
	if err != nil {
		return nil, err
	}

	rec.Properties.Hash = rec.ID
	rec.Properties.CharacterFrequencyMap = map[string]int{}
	if err := json.Unmarshal([]byte(freq), &rec.Properties.CharacterFrequencyMap); err != nil {
		return nil, errors.Wrap(err, "decode character frequency")
	}

	rec.CreatedAt, err = parseTimestamp(tsStr)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("cannot parse timestamp: %s", s)
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
