package library

import "time"

// Book is a catalogue entry. Code is the primary key of the book table.
type Book struct {
	Code        string  `json:"code" label:"Book Code" validate:"required"`
	Name        string  `json:"name" label:"Book Title" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	Price       float64 `json:"price" label:"Price" validate:"gte=0"`
}

func (b Book) fields() []Field {
	return []Field{
		{"book_code", b.Code},
		{"book_name", b.Name},
		{"book_description", b.Description},
		{"book_category", b.Category},
		{"book_author", b.Author},
		{"book_publisher", b.Publisher},
		{"book_price", b.Price},
	}
}

// Client is a library patron, keyed by national ID.
type Client struct {
	NationalID string `json:"nid" label:"National ID" validate:"required"`
	Name       string `json:"name" label:"Client Name" validate:"required"`
	Email      string `json:"email"`
}

func (c Client) fields() []Field {
	return []Field{
		{"clientNid", c.NationalID},
		{"clientName", c.Name},
		{"clientEmail", c.Email},
	}
}

// User is an operator allowed to log in.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Don't serialize password hash
}

// NewUser is the add-user form: the password is hashed before it is stored
// and never kept on User.
type NewUser struct {
	Username string `label:"Username" validate:"required"`
	Email    string `label:"Email" validate:"required"`
	Password string `label:"Password" validate:"required"`
	Confirm  string `label:"Confirm Password" validate:"eqfield=Password"`
}

// OperationType is the kind of a day operation.
type OperationType string

const (
	OperationBorrow OperationType = "borrow"
	OperationReturn OperationType = "return"
)

// Operation is a loan record as stored in dayoperations.
type Operation struct {
	BookName   string        `json:"book"`
	ClientName string        `json:"client"`
	Type       OperationType `json:"type" label:"Operation Type" validate:"oneof=borrow return"`
	FromDate   string        `json:"from"`
	ToDate     string        `json:"to"`
}

func (o Operation) fields() []Field {
	return []Field{
		{"bookname", o.BookName},
		{"clientName", o.ClientName},
		{"type", string(o.Type)},
		{"fromDate", o.FromDate},
		{"toDate", o.ToDate},
	}
}

// Lookup names one of the choice-list tables feeding the book form.
type Lookup string

const (
	LookupCategory  Lookup = "category"
	LookupAuthor    Lookup = "author"
	LookupPublisher Lookup = "publisher"
)

// Table returns the store table holding the lookup values.
func (l Lookup) Table() (Table, error) {
	switch l {
	case LookupCategory:
		return TableCategory, nil
	case LookupAuthor:
		return TableAuthor, nil
	case LookupPublisher:
		return TablePublisher, nil
	}
	return "", ErrUnknownIdentifier
}

// Column is the name column of the lookup table.
func (l Lookup) Column() string { return string(l) + "_name" }

// BookChoices feeds the category, author and publisher pickers of the book form.
type BookChoices struct {
	Categories []string
	Authors    []string
	Publishers []string
}

// Session is the authenticated state handed from the login prompt to the shell.
type Session struct {
	ID      string
	User    User
	Started time.Time
}
