package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bookhub/library"
)

// field asks for one value. An empty answer keeps def.
func (s *Shell) field(label, def string) (string, bool) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	v, ok := s.p.Line(prompt)
	if !ok {
		return "", false
	}
	if v == "" {
		return def, true
	}
	return v, true
}

// choose offers a numbered list. Typing a value not in the list is allowed.
func (s *Shell) choose(label string, options []string, current string) (string, bool) {
	if len(options) == 0 {
		return s.field(label, current)
	}
	for i, o := range options {
		s.p.Printf("  %d) %s\n", i+1, o)
	}
	v, ok := s.field(label, current)
	if !ok {
		return "", false
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(options) {
		return options[n-1], true
	}
	return v, true
}

// confirm asks before saving. Anything but an explicit yes cancels.
func (s *Shell) confirm() bool {
	v, ok := s.p.Line("Save? [y/N]: ")
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true
	}
	s.p.Println("Cancelled.")
	return false
}

func (s *Shell) validationError(msg string) {
	s.p.Println(styleError.Render("Validation Error: " + msg))
}

// afterAdd reports the outcome of an add. It returns false when the form
// should be shown again.
func (s *Shell) afterAdd(entity string, err error, reload func()) bool {
	var verr *library.ValidationError
	switch {
	case err == nil:
		if reload != nil {
			reload()
		}
		s.setStatus(fmt.Sprintf("New %s added successfully!", entity))
		return true
	case errors.As(err, &verr):
		s.validationError(verr.Error())
		return false
	case errors.Is(err, library.ErrCancelled):
		return true
	default:
		s.log.Error("add failed", zap.String("entity", entity), zap.Error(err))
		s.p.Println(styleError.Render(fmt.Sprintf("Database Error: Could not add %s: %v", entity, err)))
		return true
	}
}

func (s *Shell) addBook() {
	choices, err := s.lib.BookChoices()
	if err != nil && !errors.Is(err, library.ErrCancelled) {
		s.log.Warn("loading book choices", zap.Error(err))
	}

	var (
		b     library.Book
		price string
		ok    bool
	)
	for {
		s.p.Println(styleTitle.Render("Add Book"))
		if b.Code, ok = s.field("Book Code", b.Code); !ok {
			return
		}
		if b.Name, ok = s.field("Book Title", b.Name); !ok {
			return
		}
		if b.Description, ok = s.field("Description", b.Description); !ok {
			return
		}
		if b.Category, ok = s.choose("Category", choices.Categories, b.Category); !ok {
			return
		}
		if b.Author, ok = s.choose("Author", choices.Authors, b.Author); !ok {
			return
		}
		if b.Publisher, ok = s.choose("Publisher", choices.Publishers, b.Publisher); !ok {
			return
		}
		if price, ok = s.field("Price", price); !ok {
			return
		}
		b.Price = 0
		if price != "" {
			p, err := strconv.ParseFloat(price, 64)
			if err != nil {
				s.validationError("Price must be a number")
				continue
			}
			b.Price = p
		}
		if !s.confirm() {
			return
		}
		_, err := s.lib.AddBook(b)
		if s.afterAdd("book", err, s.RefreshBooks) {
			return
		}
	}
}

func (s *Shell) addClient() {
	var (
		c  library.Client
		ok bool
	)
	for {
		s.p.Println(styleTitle.Render("Add Client"))
		if c.NationalID, ok = s.field("National ID", c.NationalID); !ok {
			return
		}
		if c.Name, ok = s.field("Client Name", c.Name); !ok {
			return
		}
		if c.Email, ok = s.field("Email", c.Email); !ok {
			return
		}
		if !s.confirm() {
			return
		}
		_, err := s.lib.AddClient(c)
		if s.afterAdd("client", err, s.RefreshClients) {
			return
		}
	}
}

func (s *Shell) addUser() {
	var (
		u  library.NewUser
		ok bool
	)
	for {
		s.p.Println(styleTitle.Render("Add User"))
		if u.Username, ok = s.field("Username", u.Username); !ok {
			return
		}
		if u.Email, ok = s.field("Email", u.Email); !ok {
			return
		}
		if u.Password, ok = s.p.Secret("Password: "); !ok {
			return
		}
		if u.Confirm, ok = s.p.Secret("Confirm Password: "); !ok {
			return
		}
		if !s.confirm() {
			return
		}
		_, err := s.lib.AddUser(u)
		if s.afterAdd("user", err, s.RefreshUsers) {
			return
		}
	}
}

// addLookup asks for one name. An empty answer cancels.
func (s *Shell) addLookup(l library.Lookup) {
	label := strings.ToUpper(string(l[:1])) + string(l[1:])
	name, ok := s.field(label+" Name (empty to cancel)", "")
	if !ok {
		return
	}
	if name == "" {
		s.p.Println("Cancelled.")
		return
	}
	_, err := s.lib.AddLookup(l, name)
	s.afterAdd(string(l), err, nil)
}
