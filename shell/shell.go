// Package shell is the interactive surface: the login prompt and the
// session shell with one tab per entity.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"bookhub/library"
)

// Authenticator checks a login attempt.
type Authenticator interface {
	Authenticate(username, password string) (*library.Session, error)
}

// Library is what the session shell needs from the store.
type Library interface {
	AddBook(library.Book) (int64, error)
	AddClient(library.Client) (int64, error)
	AddUser(library.NewUser) (int64, error)
	AddLookup(library.Lookup, string) (int64, error)
	BookChoices() (library.BookChoices, error)
	Books() ([]library.Row, error)
	Clients() ([]library.Row, error)
	Users() ([]library.Row, error)
	Operations() ([]library.Row, error)
	Export(library.Table) (string, error)
}

// Login prompts until a submitted username and password authenticate.
// It returns io.EOF when input ends first.
func Login(auth Authenticator, p *Prompter) (*library.Session, error) {
	p.Println(styleTitle.Render("Bookhub - Library Management System"))
	for {
		username, ok := p.Raw("Username: ")
		if !ok {
			return nil, io.EOF
		}
		password, ok := p.Secret("Password: ")
		if !ok {
			return nil, io.EOF
		}

		session, err := auth.Authenticate(username, password)
		switch {
		case err == nil:
			return session, nil
		case errors.Is(err, library.ErrCancelled):
		case errors.Is(err, library.ErrMissingCredentials):
			p.Println(styleError.Render("Please enter both username and password"))
		case errors.Is(err, library.ErrInvalidCredentials):
			p.Println(styleError.Render("❌ Username or password is invalid"))
		default:
			p.Println(styleError.Render("Database Error: " + err.Error()))
		}
	}
}

// Shell is the authenticated application surface.
type Shell struct {
	session *library.Session
	lib     Library
	p       *Prompter
	log     *zap.Logger
	views   Views
	status  string
}

// NewShell builds the shell for session and loads every view.
func NewShell(session *library.Session, lib Library, p *Prompter, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Shell{
		session: session,
		lib:     lib,
		p:       p,
		log:     log.With(zap.String("session", session.ID)),
		views:   newViews(),
	}
	s.RefreshAll()
	return s
}

// Views returns the current view contents.
func (s *Shell) Views() Views { return s.views }

// Status is the last status-bar message.
func (s *Shell) Status() string { return s.status }

func (s *Shell) setStatus(msg string) {
	s.status = msg
	s.p.Println(styleStatus.Render(msg))
}

// RefreshAll reloads books, clients, users and operations, in that order.
func (s *Shell) RefreshAll() {
	s.RefreshBooks()
	s.RefreshClients()
	s.RefreshUsers()
	s.RefreshOperations()
}

func (s *Shell) RefreshBooks()      { s.refresh(&s.views.Books, s.lib.Books) }
func (s *Shell) RefreshClients()    { s.refresh(&s.views.Clients, s.lib.Clients) }
func (s *Shell) RefreshUsers()      { s.refresh(&s.views.Users, s.lib.Users) }
func (s *Shell) RefreshOperations() { s.refresh(&s.views.Operations, s.lib.Operations) }

// refresh replaces the view's rows. Failures are logged and leave the old rows.
func (s *Shell) refresh(v *View, load func() ([]library.Row, error)) {
	rows, err := load()
	if err != nil {
		if !errors.Is(err, library.ErrCancelled) {
			s.log.Error("refreshing view", zap.String("view", v.Title), zap.Error(err))
		}
		return
	}
	v.Replace(rows)
}

// Run reads commands until logout or end of input.
func (s *Shell) Run() error {
	s.p.Printf("Welcome, %s!\n", s.session.User.Username)
	s.printHelp()
	for {
		line, ok := s.p.Line(fmt.Sprintf("\n%s> ", s.session.User.Username))
		if !ok {
			break
		}
		if !s.Execute(line) {
			break
		}
	}
	s.log.Info("session closed")
	return nil
}

// Execute runs one command. It returns false when the session should end.
func (s *Shell) Execute(line string) bool {
	cmd := strings.Join(strings.Fields(strings.ToLower(line)), " ")
	switch cmd {
	case "":
	case "books":
		s.views.Books.Render(s.p.out)
	case "clients":
		s.views.Clients.Render(s.p.out)
	case "users":
		s.views.Users.Render(s.p.out)
	case "operations", "day operations":
		s.views.Operations.Render(s.p.out)
	case "refresh":
		s.RefreshAll()
		s.setStatus("Data refreshed.")
	case "add book":
		s.addBook()
	case "add client":
		s.addClient()
	case "add user":
		s.addUser()
	case "add operation":
		s.p.Println(styleInfo.Render("Adding day operations is not available yet."))
	case "add category":
		s.addLookup(library.LookupCategory)
	case "add author":
		s.addLookup(library.LookupAuthor)
	case "add publisher":
		s.addLookup(library.LookupPublisher)
	case "whoami":
		u := s.session.User
		s.p.Printf("%s <%s>, logged in since %s\n", u.Username, u.Email, s.session.Started.Format("15:04:05"))
	case "help":
		s.printHelp()
	case "logout", "exit", "quit":
		s.p.Println("Goodbye!")
		return false
	default:
		if arg, ok := strings.CutPrefix(cmd, "export "); ok {
			s.export(arg)
			return true
		}
		s.p.Println("Unknown command. Type 'help' to list the available commands.")
	}
	return true
}

func (s *Shell) printHelp() {
	s.p.Println("Available commands:")
	s.p.Println("  Views:   books, clients, users, operations, refresh")
	s.p.Println("  Add:     add book, add client, add user, add operation")
	s.p.Println("  Lists:   add category, add author, add publisher")
	s.p.Println("  Export:  export books, export clients, export operations")
	s.p.Println("  Session: whoami, help, logout")
}

func (s *Shell) export(what string) {
	table, err := library.ExportTable(what)
	if err != nil {
		s.p.Println("Export one of: " + strings.Join(library.ExportNames, ", "))
		return
	}
	path, err := s.lib.Export(table)
	if errors.Is(err, library.ErrCancelled) {
		return
	}
	if err != nil {
		s.log.Error("export failed", zap.String("table", string(table)), zap.Error(err))
		s.p.Println(styleError.Render("Export Error: Failed to export: " + err.Error()))
		return
	}
	s.setStatus("Data exported to " + path)
}
