// Package store owns the Local Durable Store: one SQLite database per
// installation holding the pending queue, the read cache and metadata.
//
// The handle is explicit. Callers Open it, share it between the foreground
// and the retry agent, and Close it on shutdown.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/rateday/internal/client/migrations"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/pending"
	"github.com/dmitrijs2005/rateday/internal/client/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/dbx"
	"github.com/dmitrijs2005/rateday/internal/filex"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// ErrUnavailable wraps every failure to open or migrate the store.
var ErrUnavailable = errors.New("local store unavailable")

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

type Store struct {
	db             *sql.DB
	pending        pending.Repository
	cache          ratings.Repository
	metadata       metadata.Repository
	installationID string

	// set on handles built by Degraded
	cause error
}

// DefaultPath returns the database file of a profile under dataDir.
func DefaultPath(dataDir, profile string) string {
	if profile == "" {
		profile = "default"
	}
	return filepath.Join(dataDir, profile, "rateday.db")
}

// Open opens (creating if needed) and migrates the store at path.
// path may be ":memory:" or a "file:" DSN.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if _, err := filex.EnsurePrivateDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("%w: create dir: %v", ErrUnavailable, err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrUnavailable, err)
	}
	// one connection serializes the foreground and the retry agent and
	// keeps a ":memory:" database alive for the lifetime of the handle
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	if err := gooseUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}

	md := metadata.NewSQLiteRepository(db)
	s := &Store{
		db:       db,
		pending:  pending.NewSQLiteRepository(db),
		cache:    ratings.NewSQLiteRepository(db),
		metadata: md,
	}

	id, err := md.GetOrCreate(ctx, metadata.KeyInstallationID, func() []byte {
		return []byte(uuid.NewString())
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.installationID = string(id)

	return s, nil
}

func (s *Store) Pending() pending.Repository { return s.pending }

func (s *Store) Cache() ratings.Repository { return s.cache }

func (s *Store) Metadata() metadata.Repository { return s.metadata }

// Available reports whether the store is backed by a database. It is
// false for handles returned by Degraded.
func (s *Store) Available() bool { return s.db != nil }

// Err returns why the store is unavailable, or nil.
func (s *Store) Err() error { return s.cause }

// InstallationID identifies this store across restarts.
func (s *Store) InstallationID() string { return s.installationID }

// Reset drops the pending queue and the cache in one transaction.
// Metadata, including the installation id, is kept.
func (s *Store) Reset(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, s.cause)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := pending.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return ratings.NewSQLiteRepository(tx).Clear(ctx)
	})
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
