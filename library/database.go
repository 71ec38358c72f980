package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

// DefaultDBFile is the database file name used when none is configured.
const DefaultDBFile = "library.db"

var (
	errMissingFile = errors.New("database file does not exist")
	errCorrupt     = errors.New("database failed integrity check")
)

// Database provides high-level helpers around a SQLite connection. A
// Database is opened for one unit of work and closed right after.
type Database struct {
	db   *sql.DB
	path string
}

// NewDatabase ensures the schema at dbPath and opens it.
func NewDatabase(dbPath string) (*Database, error) {
	if err := EnsureSchema(dbPath); err != nil {
		return nil, err
	}
	return openExisting(dbPath)
}

// Close closes the DB.
func (d *Database) Close() error { return d.db.Close() }

// Path is the file the handle points at.
func (d *Database) Path() string { return d.path }

func dsn(path, mode string) string {
	return fmt.Sprintf("file:%s?mode=%s&_busy_timeout=5000", path, mode)
}

// openExisting opens a database that must already exist and pass a quick
// integrity probe. It never creates the file.
func openExisting(dbPath string) (*Database, error) {
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dbPath, errMissingFile)
		}
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn(dbPath, "rw"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	var check string
	if err := db.QueryRow(`PRAGMA quick_check;`).Scan(&check); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w: %v", dbPath, errCorrupt, err)
	}
	if check != "ok" {
		db.Close()
		return nil, fmt.Errorf("%s: %w: %s", dbPath, errCorrupt, check)
	}
	return &Database{db: db, path: dbPath}, nil
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

var schema = []string{
	`CREATE TABLE IF NOT EXISTS book (
        book_code        TEXT PRIMARY KEY NOT NULL,
        book_name        TEXT NOT NULL,
        book_description TEXT,
        book_category    TEXT,
        book_author      TEXT,
        book_publisher   TEXT,
        book_price       REAL CHECK (book_price >= 0)
    );`,
	`CREATE TABLE IF NOT EXISTS client (
        clientNid   TEXT PRIMARY KEY NOT NULL,
        clientName  TEXT NOT NULL,
        clientEmail TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS users (
        id_users      INTEGER PRIMARY KEY AUTOINCREMENT,
        username      TEXT NOT NULL,
        useremail     TEXT,
        userspassword TEXT NOT NULL
    );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);`,
	`CREATE TABLE IF NOT EXISTS dayoperations (
        bookname   TEXT,
        clientName TEXT,
        type       TEXT,
        fromDate   TEXT,
        toDate     TEXT
    );`,
	`CREATE TABLE IF NOT EXISTS category (
        id            INTEGER PRIMARY KEY AUTOINCREMENT,
        category_name TEXT NOT NULL UNIQUE
    );`,
	`CREATE TABLE IF NOT EXISTS author (
        id          INTEGER PRIMARY KEY AUTOINCREMENT,
        author_name TEXT NOT NULL UNIQUE
    );`,
	`CREATE TABLE IF NOT EXISTS publisher (
        id             INTEGER PRIMARY KEY AUTOINCREMENT,
        publisher_name TEXT NOT NULL UNIQUE
    );`,
}

// EnsureSchema creates the database file at dbPath if needed and makes sure
// every table exists. Running it against an initialized store changes nothing.
func EnsureSchema(dbPath string) error {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(dbPath, "rwc"))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return schemaError(dbPath, "begin schema", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return schemaError(dbPath, "apply schema", err)
		}
	}
	return tx.Commit()
}

// schemaError marks driver errors about a damaged file with errCorrupt so the
// provider can offer another location.
func schemaError(dbPath, op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && (se.Code == sqlite3.ErrNotADB || se.Code == sqlite3.ErrCorrupt) {
		return fmt.Errorf("%s: %s: %w: %v", dbPath, op, errCorrupt, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
