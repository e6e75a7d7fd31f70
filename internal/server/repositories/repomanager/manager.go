// Package repomanager vends the server repositories for the configured
// database and owns its connection and schema migrations.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rateday/internal/server/repositories/ratings"
	"github.com/dmitrijs2005/rateday/internal/server/repositories/subscriptions"
)

type RepositoryManager interface {
	Ratings() ratings.Repository
	Subscriptions() subscriptions.Repository
	RunMigrations(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the database named by dsn. mongodb:// and
// mongodb+srv:// DSNs select MongoDB, everything else PostgreSQL.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		m, err := OpenMongo(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case dsn == "":
		return nil, fmt.Errorf("empty database DSN")
	default:
		m, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}
