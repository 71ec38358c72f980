package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndSelectBook(t *testing.T) {
	db := tempDB(t)
	book := Book{Code: "B1", Name: "Dune", Category: "SciFi", Author: "Herbert", Publisher: "Ace", Price: 12.5}

	_, err := db.Insert(TableBook, book.fields())
	require.NoError(t, err)

	rows, err := db.SelectAll(TableBook, BookViewColumns...)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"B1", "Dune", "", "SciFi", "Herbert"}, rows[0].Strings())

	full, err := db.SelectAll(TableBook)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "Dune", "", "SciFi", "Herbert", "Ace", "12.5"}, full[0].Strings())
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	db := tempDB(t)
	c := Client{NationalID: "123", Name: "Alice"}
	_, err := db.Insert(TableClient, c.fields())
	require.NoError(t, err)

	_, err = db.Insert(TableClient, c.fields())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")

	rows, err := db.SelectAll(TableClient)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInsertReturnsRowID(t *testing.T) {
	db := tempDB(t)
	first, err := db.Insert(TableUsers, []Field{{"username", "a"}, {"userspassword", "x"}})
	require.NoError(t, err)
	second, err := db.Insert(TableUsers, []Field{{"username", "b"}, {"userspassword", "x"}})
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestUnknownIdentifiersRejected(t *testing.T) {
	db := tempDB(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"insert unknown table", func() error {
			_, err := db.Insert(Table("book; DROP TABLE book"), []Field{{"book_code", "x"}})
			return err
		}},
		{"insert unknown column", func() error {
			_, err := db.Insert(TableBook, []Field{{"book_code) VALUES('x'); --", "x"}})
			return err
		}},
		{"select unknown column", func() error {
			_, err := db.SelectAll(TableClient, "clientNid", "password")
			return err
		}},
		{"select column unknown table", func() error {
			_, err := db.SelectColumn(Table("secrets"), "value")
			return err
		}},
		{"dump unknown table", func() error {
			_, _, err := db.Dump(Table("sqlite_master"))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), ErrUnknownIdentifier)
		})
	}

	names := tableNames(t, db)
	assert.Contains(t, names, "book")
}

func TestValuesAreParameterized(t *testing.T) {
	db := tempDB(t)
	hostile := "x'); DROP TABLE client; --"
	_, err := db.Insert(TableClient, []Field{{"clientNid", hostile}, {"clientName", "Mallory"}})
	require.NoError(t, err)

	values, err := db.SelectColumn(TableClient, "clientNid")
	require.NoError(t, err)
	assert.Equal(t, []string{hostile}, values)
}

func TestSelectColumnKeepsInsertionOrder(t *testing.T) {
	db := tempDB(t)
	for _, name := range []string{"SciFi", "Drama", "Poetry"} {
		_, err := db.Insert(TableCategory, []Field{{"category_name", name}})
		require.NoError(t, err)
	}
	values, err := db.SelectColumn(TableCategory, "category_name")
	require.NoError(t, err)
	assert.Equal(t, []string{"SciFi", "Drama", "Poetry"}, values)
}

func TestSelectAllEmptyTable(t *testing.T) {
	db := tempDB(t)
	rows, err := db.SelectAll(TableOperations)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRowStrings(t *testing.T) {
	row := Row{nil, "a", []byte("b"), int64(7), 12.5, 3.0, true}
	assert.Equal(t, []string{"", "a", "b", "7", "12.5", "3", "true"}, row.Strings())
}
