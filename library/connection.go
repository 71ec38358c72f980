package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrCancelled means the user abandoned connection setup. Callers abort the
// triggering action without showing anything.
var ErrCancelled = errors.New("cancelled by user")

// DirPrompter asks the user for a data directory when the database cannot be
// opened. An empty answer abandons the prompt.
type DirPrompter interface {
	AskDirectory(reason string) (string, error)
}

// Provider hands out one Database per logical operation.
type Provider struct {
	path   string
	prompt DirPrompter
	log    *zap.Logger
}

// NewProvider returns a provider for the database at path. prompt may be nil
// for non-interactive use, in which case open failures are returned as is.
func NewProvider(path string, prompt DirPrompter, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{path: path, prompt: prompt, log: log}
}

// Path is the database file currently in use.
func (p *Provider) Path() string { return p.path }

// Init creates the store at the configured path. A file that exists but is
// not a usable database goes through the same directory prompt as Open.
func (p *Provider) Init() error {
	err := EnsureSchema(p.path)
	if err == nil || !errors.Is(err, errCorrupt) {
		return err
	}
	p.log.Warn("schema initialization hit a damaged file", zap.String("path", p.path), zap.Error(err))
	db, err := p.Open()
	if err != nil {
		return err
	}
	return db.Close()
}

// Open returns a live handle. When the file is missing or fails its integrity
// probe the user is asked for a directory once; the schema is initialized
// there and the new location is kept for later calls. The caller must Close
// the handle.
func (p *Provider) Open() (*Database, error) {
	db, err := openExisting(p.path)
	if err == nil {
		return db, nil
	}
	if p.prompt == nil || !(errors.Is(err, errMissingFile) || errors.Is(err, errCorrupt)) {
		return nil, err
	}
	p.log.Warn("database unavailable, asking for a data directory",
		zap.String("path", p.path), zap.Error(err))

	dir, perr := p.prompt.AskDirectory(err.Error())
	dir = strings.TrimSpace(dir)
	if perr != nil || dir == "" {
		p.log.Debug("data directory prompt abandoned", zap.NamedError("prompt", perr))
		return nil, ErrCancelled
	}

	path := filepath.Join(dir, filepath.Base(p.path))
	db, err = NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", path, err)
	}
	p.log.Info("using database", zap.String("path", path))
	p.path = path
	return db, nil
}
