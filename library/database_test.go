package library

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableNames(t *testing.T, db *Database) []string {
	t.Helper()
	rows, err := db.db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	return names
}

func TestEnsureSchemaCreatesTables(t *testing.T) {
	db := tempDB(t)
	assert.Equal(t,
		[]string{"author", "book", "category", "client", "dayoperations", "publisher", "users"},
		tableNames(t, db))
}

func TestEnsureSchemaCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "library.db")
	require.NoError(t, EnsureSchema(path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.db")
	require.NoError(t, EnsureSchema(path))

	db, err := openExisting(path)
	require.NoError(t, err)
	_, err = db.Insert(TableClient, Client{NationalID: "123", Name: "Alice", Email: "a@x.com"}.fields())
	require.NoError(t, err)
	before := tableNames(t, db)
	db.Close()

	require.NoError(t, EnsureSchema(path))

	db, err = openExisting(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, before, tableNames(t, db))
	rows, err := db.SelectAll(TableClient)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"123", "Alice", "a@x.com"}, rows[0].Strings())
}

func TestEnsureSchemaUnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := EnsureSchema(filepath.Join(blocker, "library.db"))
	assert.Error(t, err)
}

func TestOpenExistingMissingFile(t *testing.T) {
	_, err := openExisting(filepath.Join(t.TempDir(), "absent.db"))
	assert.ErrorIs(t, err, errMissingFile)
}

func TestOpenExistingCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	junk := strings.Repeat("this is not a sqlite database\n", 200)
	require.NoError(t, os.WriteFile(path, []byte(junk), 0o644))

	_, err := openExisting(path)
	assert.ErrorIs(t, err, errCorrupt)
}

func TestEnsureSchemaReportsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultDBFile)
	junk := strings.Repeat("this is not a sqlite database\n", 200)
	require.NoError(t, os.WriteFile(path, []byte(junk), 0o644))

	err := EnsureSchema(path)
	assert.ErrorIs(t, err, errCorrupt)
}

func TestUserByUsernameIsCaseSensitive(t *testing.T) {
	db := tempDB(t)
	_, err := db.Insert(TableUsers, []Field{{"username", "Bob"}, {"useremail", "b@x.com"}, {"userspassword", "pw"}})
	require.NoError(t, err)

	u, err := db.UserByUsername("Bob")
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)

	_, err = db.UserByUsername("bob")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
