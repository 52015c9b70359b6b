package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/repository"
)

const (
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPgVector = "pgvector"
)

// Options carries what each backend needs. Only the fields of the selected
// backend are read.
type Options struct {
	Backend   string
	Path      string
	Dimension int
	MySQL     *gorm.DB
	Postgres  *pgxpool.Pool
	Embedder  ai.Embedder
}

func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("vector store needs an embedder")
	}
	switch opts.Backend {
	case BackendSQLite, "":
		return NewSQLiteStore(opts.Path, opts.Embedder)
	case BackendMySQL:
		if opts.MySQL == nil {
			return nil, fmt.Errorf("mysql vector store needs a mysql connection")
		}
		return NewMySQLStore(repository.NewChunkRepository(opts.MySQL), opts.Embedder), nil
	case BackendPgVector:
		if opts.Postgres == nil {
			return nil, fmt.Errorf("pgvector store needs a postgres pool")
		}
		return NewPgVectorStore(ctx, opts.Postgres, opts.Embedder, opts.Dimension)
	default:
		return nil, fmt.Errorf("unknown vector store backend: %s", opts.Backend)
	}
}
