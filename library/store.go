package library

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownIdentifier is returned when a table or column is not part of the
// fixed schema. Identifiers are the only text ever spliced into SQL.
var ErrUnknownIdentifier = errors.New("unknown table or column")

// Table names one table of the store.
type Table string

const (
	TableBook       Table = "book"
	TableClient     Table = "client"
	TableUsers      Table = "users"
	TableOperations Table = "dayoperations"
	TableCategory   Table = "category"
	TableAuthor     Table = "author"
	TablePublisher  Table = "publisher"
)

// Declared column order of every table.
var tableColumns = map[Table][]string{
	TableBook:       {"book_code", "book_name", "book_description", "book_category", "book_author", "book_publisher", "book_price"},
	TableClient:     {"clientNid", "clientName", "clientEmail"},
	TableUsers:      {"id_users", "username", "useremail", "userspassword"},
	TableOperations: {"bookname", "clientName", "type", "fromDate", "toDate"},
	TableCategory:   {"id", "category_name"},
	TableAuthor:     {"id", "author_name"},
	TablePublisher:  {"id", "publisher_name"},
}

// Columns returns the table's columns in declared order.
func (t Table) Columns() ([]string, error) {
	cols, ok := tableColumns[t]
	if !ok {
		return nil, fmt.Errorf("table %q: %w", string(t), ErrUnknownIdentifier)
	}
	return slices.Clone(cols), nil
}

func (t Table) checkColumns(columns []string) error {
	known, err := t.Columns()
	if err != nil {
		return err
	}
	for _, c := range columns {
		if !slices.Contains(known, c) {
			return fmt.Errorf("column %s.%s: %w", t, c, ErrUnknownIdentifier)
		}
	}
	return nil
}

// Field is one column/value pair of an insert, in statement order.
type Field struct {
	Column string
	Value  any
}

// Row is one record as returned by the driver.
type Row []any

// Strings renders every value as display text. NULL becomes "".
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = stringify(v)
	}
	return out
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(x)
	}
}

// ---------------------------------------------------------------------------
// Generic record store
// ---------------------------------------------------------------------------

// Insert adds one row and returns its rowid. The statement runs outside any
// explicit transaction, so SQLite commits it immediately.
func (d *Database) Insert(table Table, fields []Field) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("insert %s: no fields", table)
	}
	columns := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		columns[i] = f.Column
		args[i] = f.Value
	}
	if err := table.checkColumns(columns); err != nil {
		return 0, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(fields)), ",")
	query := fmt.Sprintf(`INSERT INTO %s(%s) VALUES(%s)`, table, strings.Join(columns, ","), placeholders)

	res, err := d.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", table, err)
	}
	return res.LastInsertId()
}

// SelectAll returns every row of table projected onto columns, in insertion
// order. With no columns it projects all declared columns.
func (d *Database) SelectAll(table Table, columns ...string) ([]Row, error) {
	if len(columns) == 0 {
		var err error
		if columns, err = table.Columns(); err != nil {
			return nil, err
		}
	} else if err := table.checkColumns(columns); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, strings.Join(columns, ","), table)
	_, rows, err := d.query(query, len(columns))
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

// SelectColumn returns one column of every row as display text, used to
// populate choice lists.
func (d *Database) SelectColumn(table Table, column string) ([]string, error) {
	rows, err := d.SelectAll(table, column)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rows))
	for _, r := range rows {
		values = append(values, stringify(r[0]))
	}
	return values, nil
}

// Dump returns the column names and every row of table exactly as stored
// (SELECT *), for export.
func (d *Database) Dump(table Table) ([]string, []Row, error) {
	if _, err := table.Columns(); err != nil {
		return nil, nil, err
	}
	cols, rows, err := d.query(fmt.Sprintf(`SELECT * FROM %s ORDER BY rowid`, table), -1)
	if err != nil {
		return nil, nil, fmt.Errorf("dump %s: %w", table, err)
	}
	return cols, rows, nil
}

// query scans every row into a Row. width < 0 means "as many as the result has".
func (d *Database) query(query string, width int) ([]string, []Row, error) {
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	if width < 0 {
		width = len(cols)
	}

	result := make([]Row, 0)
	for rows.Next() {
		row := make(Row, width)
		ptrs := make([]any, width)
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, result, nil
}
