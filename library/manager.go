package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// View projections shown by the session shell.
var (
	BookViewColumns      = []string{"book_code", "book_name", "book_description", "book_category", "book_author"}
	ClientViewColumns    = []string{"clientNid", "clientName", "clientEmail"}
	UserViewColumns      = []string{"id_users", "username", "useremail"}
	OperationViewColumns = []string{"bookname", "clientName", "type", "fromDate", "toDate"}
)

// Options tune a LibraryManager.
type Options struct {
	ExportDir  string
	BcryptCost int
}

// LibraryManager is a thin façade over the store, keeping CLI code simple.
// Every call opens its own connection and closes it before returning.
type LibraryManager struct {
	provider  *Provider
	log       *zap.Logger
	exportDir string
	cost      int
}

func NewLibraryManager(provider *Provider, opts Options, log *zap.Logger) *LibraryManager {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = DefaultBcryptCost
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	return &LibraryManager{provider: provider, log: log, exportDir: opts.ExportDir, cost: opts.BcryptCost}
}

// withDB runs fn against a fresh connection. ErrCancelled from the provider
// is passed through untouched.
func (lm *LibraryManager) withDB(fn func(*Database) error) error {
	db, err := lm.provider.Open()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (lm *LibraryManager) insert(table Table, fields []Field) (int64, error) {
	var id int64
	err := lm.withDB(func(db *Database) error {
		var err error
		id, err = db.Insert(table, fields)
		return err
	})
	if err != nil {
		return 0, err
	}
	lm.log.Info("row added", zap.String("table", string(table)), zap.Int64("rowid", id))
	return id, nil
}

func (lm *LibraryManager) selectAll(table Table, columns []string) ([]Row, error) {
	var rows []Row
	err := lm.withDB(func(db *Database) error {
		var err error
		rows, err = db.SelectAll(table, columns...)
		return err
	})
	return rows, err
}

// ------------------ Books ------------------

// AddBook validates and stores a book.
func (lm *LibraryManager) AddBook(b Book) (int64, error) {
	if err := Validate(b); err != nil {
		return 0, err
	}
	return lm.insert(TableBook, b.fields())
}

// Books returns the book view rows.
func (lm *LibraryManager) Books() ([]Row, error) { return lm.selectAll(TableBook, BookViewColumns) }

// BookChoices reads the category, author and publisher lists for the book
// form. A list that cannot be read comes back empty.
func (lm *LibraryManager) BookChoices() (BookChoices, error) {
	var choices BookChoices
	err := lm.withDB(func(db *Database) error {
		choices.Categories = lm.lookupValues(db, LookupCategory)
		choices.Authors = lm.lookupValues(db, LookupAuthor)
		choices.Publishers = lm.lookupValues(db, LookupPublisher)
		return nil
	})
	return choices, err
}

func (lm *LibraryManager) lookupValues(db *Database, l Lookup) []string {
	table, _ := l.Table()
	values, err := db.SelectColumn(table, l.Column())
	if err != nil {
		lm.log.Error("reading choice list", zap.String("table", string(table)), zap.Error(err))
		return []string{}
	}
	return values
}

// AddLookup stores a new category, author or publisher name.
func (lm *LibraryManager) AddLookup(l Lookup, name string) (int64, error) {
	table, err := l.Table()
	if err != nil {
		return 0, fmt.Errorf("lookup %q: %w", string(l), err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid(fmt.Sprintf("%s name is required", strings.ToUpper(string(l[:1]))+string(l[1:])))
	}
	return lm.insert(table, []Field{{l.Column(), name}})
}

// ------------------ Clients ------------------

func (lm *LibraryManager) AddClient(c Client) (int64, error) {
	if err := Validate(c); err != nil {
		return 0, err
	}
	return lm.insert(TableClient, c.fields())
}

func (lm *LibraryManager) Clients() ([]Row, error) {
	return lm.selectAll(TableClient, ClientViewColumns)
}

// ------------------ Users ------------------

// AddUser validates the form, hashes the password and stores the user.
func (lm *LibraryManager) AddUser(u NewUser) (int64, error) {
	if err := Validate(u); err != nil {
		return 0, err
	}
	hash, err := HashPassword(u.Password, lm.cost)
	if errors.Is(err, ErrPasswordTooLong) {
		return 0, invalid("Password exceeds maximum length of 72 bytes")
	}
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return lm.insert(TableUsers, []Field{
		{"username", u.Username},
		{"useremail", u.Email},
		{"userspassword", hash},
	})
}

func (lm *LibraryManager) Users() ([]Row, error) { return lm.selectAll(TableUsers, UserViewColumns) }

// ------------------ Day operations ------------------

// AddOperation records a loan row. Only the operation type is checked; no
// rules about dates or double borrowing exist yet.
func (lm *LibraryManager) AddOperation(o Operation) (int64, error) {
	if err := Validate(o); err != nil {
		return 0, err
	}
	return lm.insert(TableOperations, o.fields())
}

func (lm *LibraryManager) Operations() ([]Row, error) {
	return lm.selectAll(TableOperations, OperationViewColumns)
}

// ------------------ Export ------------------

// Export writes table to its default file in the export directory and
// returns the path written.
func (lm *LibraryManager) Export(table Table) (string, error) {
	name, err := ExportFile(table)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(lm.exportDir, name)
	return dest, lm.ExportTo(table, dest)
}

// ExportTo writes table to dest.
func (lm *LibraryManager) ExportTo(table Table, dest string) error {
	err := lm.withDB(func(db *Database) error { return Export(db, table, dest) })
	if err == nil {
		lm.log.Info("table exported", zap.String("table", string(table)), zap.String("file", dest))
	}
	return err
}

// ImportBooks loads books from a workbook shaped like allBooks.xlsx.
func (lm *LibraryManager) ImportBooks(path string) (*ImportResult, error) {
	var res *ImportResult
	err := lm.withDB(func(db *Database) error {
		var err error
		res, err = ImportBooks(db, path)
		return err
	})
	return res, err
}
