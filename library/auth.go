package library

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("please enter both username and password")
	ErrInvalidCredentials = errors.New("username or password is invalid")
)

// Authenticator checks login attempts against the users table.
type Authenticator struct {
	provider *Provider
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthenticator(provider *Provider, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{provider: provider, log: log, now: time.Now}
}

// Authenticate returns a new session when a stored user has exactly this
// username and password. Empty fields fail with ErrMissingCredentials before
// the store is touched; a wrong pair fails with ErrInvalidCredentials.
func (a *Authenticator) Authenticate(username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	db, err := a.provider.Open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	user, err := db.UserByUsername(username)
	if errors.Is(err, sql.ErrNoRows) {
		a.log.Info("login rejected", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		a.log.Info("login rejected", zap.String("username", username))
		return nil, err
	}

	user.PasswordHash = ""
	session := &Session{ID: uuid.NewString(), User: *user, Started: a.now()}
	a.log.Info("login accepted",
		zap.String("username", username), zap.String("session", session.ID))
	return session, nil
}

// AuthenticateUser is Authenticate reduced to a yes/no answer.
func (a *Authenticator) AuthenticateUser(username, password string) bool {
	_, err := a.Authenticate(username, password)
	return err == nil
}

// UserByUsername fetches the user row with exactly this username. The
// comparison is case-sensitive (SQLite BINARY collation).
func (d *Database) UserByUsername(username string) (*User, error) {
	var u User
	var email sql.NullString
	err := d.db.QueryRow(`SELECT id_users,username,useremail,userspassword FROM users WHERE username=?`, username).
		Scan(&u.ID, &u.Username, &email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	u.Email = email.String
	return &u, nil
}
