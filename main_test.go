package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/library"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

// executeWithInput runs the root command with input answering its prompts.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(input))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInitExportAndLookup(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	exportDir := t.TempDir()

	out, err := execute(t, "--data-dir", dataDir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Database ready at "+filepath.Join(dataDir, "library.db"))

	out, err = execute(t, "--data-dir", dataDir, "lookup", "add", "category", " SciFi ")
	require.NoError(t, err)
	assert.Contains(t, out, "Added category 'SciFi'")

	_, err = execute(t, "--data-dir", dataDir, "lookup", "add", "genre", "x")
	assert.Error(t, err)

	out, err = execute(t, "--data-dir", dataDir, "--export-dir", exportDir, "export", "books")
	require.NoError(t, err)
	assert.Contains(t, out, "Data exported to ")
	_, err = os.Stat(filepath.Join(exportDir, "allBooks.xlsx"))
	assert.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "ops.xlsx")
	_, err = execute(t, "--data-dir", dataDir, "export", "operations", "--out", dest)
	require.NoError(t, err)
	_, err = os.Stat(dest)
	assert.NoError(t, err)
}

func TestExportRejectsUnknownTable(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "export", "users")
	assert.ErrorContains(t, err, "unknown table")
}

func TestExportWithoutDatabaseFails(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "export", "clients")
	assert.ErrorContains(t, err, "failed to export")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "--log-format", "xml", "init")
	assert.Error(t, err)
}

func TestStartupWithCorruptDatabaseAsksForDirectory(t *testing.T) {
	dataDir := t.TempDir()
	corrupt := filepath.Join(dataDir, "library.db")
	junk := []byte(strings.Repeat("not a database ", 400))
	require.NoError(t, os.WriteFile(corrupt, junk, 0o644))
	newDir := t.TempDir()

	// The directory answer is followed by end of input at the login prompt.
	out, err := executeWithInput(t, newDir+"\n", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Database unavailable")
	assert.Contains(t, out, "Username: ")

	db, err := library.NewDatabase(filepath.Join(newDir, "library.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.SelectAll(library.TableUsers)
	assert.NoError(t, err)

	got, err := os.ReadFile(corrupt)
	require.NoError(t, err)
	assert.Equal(t, junk, got)
}

func TestStartupWithCorruptDatabaseCancelled(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "library.db"), []byte(strings.Repeat("not a database ", 400)), 0o644))

	out, err := executeWithInput(t, "\n", "--data-dir", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Database unavailable")
	assert.NotContains(t, out, "Username: ")
}

func TestUserAddAndVerify(t *testing.T) {
	t.Setenv("BOOKHUB_BCRYPT_COST", "4")
	dataDir := t.TempDir()

	out, err := executeWithInput(t, "s3cret\ns3cret\n", "--data-dir", dataDir, "useradd", "admin", "--email", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Added user 'admin' with ID 1")

	_, err = executeWithInput(t, "s3cret\nother\n", "--data-dir", dataDir, "useradd", "erin", "--email", "e@x.com")
	var verr *library.ValidationError
	assert.ErrorAs(t, err, &verr)

	out, err = executeWithInput(t, "s3cret\n", "--data-dir", dataDir, "verify", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Credentials for 'admin' are valid")

	_, err = executeWithInput(t, "wrong\n", "--data-dir", dataDir, "verify", "admin")
	assert.ErrorIs(t, err, library.ErrInvalidCredentials)
}

func TestOperationAdd(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, "--data-dir", dataDir, "init")
	require.NoError(t, err)

	out, err := execute(t, "--data-dir", dataDir, "operation", "add", "Dune", "Alice", "Borrow", "--from", "2024-01-01", "--to", "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded borrow of 'Dune' by 'Alice'")

	_, err = execute(t, "--data-dir", dataDir, "operation", "add", "Dune", "Alice", "lend")
	var verr *library.ValidationError
	assert.ErrorAs(t, err, &verr)

	provider := library.NewProvider(filepath.Join(dataDir, "library.db"), nil, nil)
	rows, err := library.NewLibraryManager(provider, library.Options{}, nil).Operations()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Dune", "Alice", "borrow", "2024-01-01", "2024-01-15"}, rows[0].Strings())
}
