// Package db reads relational database tables and query results into
// frames and writes frames back to tables. Connections are configured from
// a YAML file with a `connection_settings` section:
//
//	connection_settings:
//	  dialect: sqlite        # sqlite or postgres
//	  database: ./data.db    # file path for sqlite, database name otherwise
//	  user: analyst          # postgres only
//	  passwd: secret         # postgres only
//	  host: localhost:5432   # postgres only
//
// Full-table reads can be cached on disk, so repeated runs against a slow
// database skip the round trip.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pkg/errors"

	"github.com/adcdata/go-pipeline/internal/snapshot"
	"github.com/adcdata/go-pipeline/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	ErrBadSettings    = errors.New("connection settings are missing or incomplete")
	ErrUnknownDialect = errors.New("unsupported database dialect")
	ErrBadIdentifier  = errors.New("identifiers must contain only letters, digits and underscores")
	ErrNoColumns      = errors.New("frame has no columns")
	ErrBadMode        = errors.New("unknown if-exists mode")
)

// Connection wraps a database handle together with an optional table cache.
type Connection struct {
	db           *sql.DB
	dialect      string
	databaseName string
	cache        *snapshot.Store
	logger       *slog.Logger
}

// Option configures a connection.
type Option func(*Connection) error

// WithTableCache enables disk caching of full-table reads under dir.
func WithTableCache(dir string) Option {
	return func(c *Connection) error {
		store, err := snapshot.New(dir)
		if err != nil {
			return err
		}
		c.cache = store

		return nil
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connection) error {
		c.logger = logger

		return nil
	}
}

// Open reads the `connection_settings` section of a YAML file and opens the
// database it describes.
func Open(configPath string, opts ...Option) (*Connection, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	raw, ok := cfg["connection_settings"]
	if !ok {
		return nil, errors.Wrapf(ErrBadSettings, "missing %q key in %s", "connection_settings", configPath)
	}
	settings, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrBadSettings, "%q key in %s is not a mapping", "connection_settings", configPath)
	}

	dialect, _ := settings["dialect"].(string)
	database, _ := settings["database"].(string)
	if dialect == "" || database == "" {
		return nil, errors.Wrap(ErrBadSettings, "dialect and database are required")
	}

	var driver, dsn string
	switch dialect {
	case "sqlite":
		driver, dsn = "sqlite", database
	case "postgres":
		user, _ := settings["user"].(string)
		passwd, _ := settings["passwd"].(string)
		host, _ := settings["host"].(string)
		if user == "" || host == "" {
			return nil, errors.Wrap(ErrBadSettings, "user and host are required for postgres")
		}
		driver = "pgx"
		dsn = fmt.Sprintf("postgres://%s:%s@%s/%s", user, passwd, host, database)
	default:
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", dialect)
	}

	handle, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s database", dialect)
	}
	if dialect == "sqlite" {
		// One connection serializes writes and avoids SQLITE_BUSY.
		handle.SetMaxOpenConns(1)
	}

	c := &Connection{
		db:           handle,
		dialect:      dialect,
		databaseName: database,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.Wrap(err, "unable to apply connection option")
		}
	}

	return c, nil
}

// Close closes the underlying database handle.
func (c *Connection) Close() error {
	return c.db.Close()
}

// placeholder returns the 1-based bind parameter marker for the dialect.
func (c *Connection) placeholder(i int) string {
	if c.dialect == "postgres" {
		return "$" + strconv.Itoa(i)
	}

	return "?"
}
