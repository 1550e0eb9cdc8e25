package mongolite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hvuhsg/mongolite/internal/exec"
	"github.com/hvuhsg/mongolite/internal/planner"
	"github.com/hvuhsg/mongolite/internal/storage"
)

// Config configures a Client (spec §6's external interface, ambient
// stack additions). Every field is optional.
type Config struct {
	// Database is the default database name used when a method that
	// takes an optional name is called without one.
	Database string

	// DisableIndexing runs the client with no indexing engine: every
	// query degrades to a full scan (spec §4.4's "no indexing engine" mode).
	DisableIndexing bool

	// ChunkSize overrides the number of live documents one internal read
	// produces at a time. Zero uses exec.DefaultChunkSize.
	ChunkSize int

	// Logger receives structured diagnostic events. Nil installs a
	// default logger writing to stderr, matching the teacher's own
	// out-of-the-box behaviour.
	Logger *zerolog.Logger
}

// Client is the root handle onto a directory of databases (spec §6,
// component C8 — the external boundary glue over the execution engine).
type Client struct {
	dir       string
	defaultDB string
	engine    *exec.Engine
	closed    bool
}

// Open opens (creating if absent) a mongolite data directory at dir.
func Open(dir string, cfg Config) (*Client, error) {
	store, err := storage.New(dir)
	if err != nil {
		return nil, fmt.Errorf("mongolite: open: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("mongolite: open: %w", err)
	}

	var indexing *planner.Engine
	if !cfg.DisableIndexing {
		indexing = planner.New()
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	engine := exec.New(store, indexing, logger)
	if cfg.ChunkSize > 0 {
		engine.SetChunkSize(cfg.ChunkSize)
	}

	return &Client{dir: abs, defaultDB: cfg.Database, engine: engine}, nil
}

// Path returns the absolute directory the client is rooted at.
func (c *Client) Path() string {
	return c.dir
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed
}

// Close marks the client closed. mongolite holds no long-lived file
// handles between commands, so Close has nothing further to release —
// it exists so callers can defer it unconditionally, the way the teacher's
// own DB.Close is always deferred right after Open.
func (c *Client) Close() error {
	c.closed = true
	return nil
}

func (c *Client) resolveDatabaseName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if c.defaultDB == "" {
		return "", ErrMissingDatabaseName
	}
	return c.defaultDB, nil
}

// Database returns a handle onto database name, using the client's
// default database if name is empty. The database is created lazily on
// first write (spec §3).
func (c *Client) Database(name string) (*Database, error) {
	if c.closed {
		return nil, ErrClosed
	}
	resolved, err := c.resolveDatabaseName(name)
	if err != nil {
		return nil, err
	}
	return &Database{client: c, name: resolved}, nil
}

// DefaultDatabase returns a handle onto the client's configured default
// database, failing if none was configured.
func (c *Client) DefaultDatabase() (*Database, error) {
	return c.Database("")
}

// DropDatabase drops database name (or the default database if name is
// empty), returning whether it existed.
func (c *Client) DropDatabase(name string) (bool, error) {
	if c.closed {
		return false, ErrClosed
	}
	resolved, err := c.resolveDatabaseName(name)
	if err != nil {
		return false, err
	}
	result, err := c.engine.Execute(exec.Command{Op: exec.OpDropDatabase, DatabaseName: resolved})
	if err != nil {
		return false, err
	}
	dropped, _ := result.(bool)
	return dropped, nil
}
