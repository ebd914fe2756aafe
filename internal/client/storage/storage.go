// Package storage opens the key-value backend selected by a storage DSN.
//
// Supported DSNs:
//
//	sqlite://oib.db          SQLite file (relative or absolute path)
//	oib.db                   same, scheme omitted
//	file:///home/u/.oib      one JSON document per key, via afs
//	mem://localhost/oib      in-memory afs file system (tests, dry runs)
//
// Any other scheme afs understands is passed through to the document
// backend unchanged.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/oibkeeper/internal/client/repositories/kv"
	"github.com/viant/afs"
)

const sqliteScheme = "sqlite://"

// ErrEmptyDSN is returned by Open when no DSN is configured.
var ErrEmptyDSN = errors.New("storage DSN is empty")

// Backend is an opened repository plus whatever must be closed with it.
type Backend struct {
	Repo kv.Repository
	Kind string
	io.Closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the repository for dsn. For SQLite the database file is
// created and migrated on first use.
func Open(ctx context.Context, dsn string) (*Backend, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return nil, ErrEmptyDSN

	case strings.HasPrefix(dsn, sqliteScheme) || !strings.Contains(dsn, "://"):
		path := strings.TrimPrefix(dsn, sqliteScheme)
		db, err := InitDatabase(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", path, err)
		}
		return &Backend{Repo: kv.NewSQLiteRepository(db), Kind: "sqlite", Closer: db}, nil

	default:
		fs := afs.New()
		return &Backend{Repo: kv.NewDocumentRepository(fs, dsn), Kind: "document", Closer: nopCloser{}}, nil
	}
}
