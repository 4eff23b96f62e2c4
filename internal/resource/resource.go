// Package resource persists per-file records outside the main
// cross-reference databases. The Information record stores the input
// path and compile arguments a file was last indexed with, so that
// reindexing can replay them without being handed the arguments again.
package resource

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for a filename.
var ErrNotFound = errors.New("resource: not found")

const schema = `
CREATE TABLE IF NOT EXISTS information (
	hash  TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	args  TEXT NOT NULL
);
`

// Store holds resource records in a single SQLite file. Records are
// addressed by the hash of the filename they describe.
type Store struct {
	db *sql.DB
}

// Open opens (creating if missing) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("resource: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("resource: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func hashFilename(filename string) string {
	sum := sha256.Sum256([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// WriteInformation records input and args as the Information record
// for filename, replacing any previous record.
func (s *Store) WriteInformation(filename, input string, args []string) error {
	if args == nil {
		args = []string{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("resource: encode args: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO information (hash, input, args) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET input = excluded.input, args = excluded.args`,
		hashFilename(filename), input, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("resource: write information: %w", err)
	}
	return nil
}

// ReadInformation returns the recorded input path and compile
// arguments for filename, or ErrNotFound.
func (s *Store) ReadInformation(filename string) (string, []string, error) {
	var input, encoded string
	err := s.db.QueryRow(
		`SELECT input, args FROM information WHERE hash = ?`,
		hashFilename(filename),
	).Scan(&input, &encoded)
	if err == sql.ErrNoRows {
		return "", nil, ErrNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("resource: read information: %w", err)
	}

	var args []string
	if err := json.Unmarshal([]byte(encoded), &args); err != nil {
		return "", nil, fmt.Errorf("resource: decode args: %w", err)
	}
	return input, args, nil
}
