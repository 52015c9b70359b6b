package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

// PgVectorStore ranks in PostgreSQL with the pgvector <-> (L2) operator.
// The pool is owned by the caller.
type PgVectorStore struct {
	pool     *pgxpool.Pool
	embedder ai.Embedder

	mu     sync.RWMutex
	closed bool
}

func NewPgVectorStore(ctx context.Context, pool *pgxpool.Pool, embedder ai.Embedder, dimension int) (*PgVectorStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("pgvector dimension must be positive, got %d", dimension)
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS qa_chunks (
			seq         BIGSERIAL PRIMARY KEY,
			id          TEXT NOT NULL UNIQUE,
			content     TEXT NOT NULL,
			metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
			search_date TEXT NOT NULL DEFAULT '',
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS idx_qa_chunks_search_date ON qa_chunks (search_date)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("prepare pgvector schema failed: %w", err)
		}
	}
	return &PgVectorStore{pool: pool, embedder: embedder}, nil
}

func (s *PgVectorStore) AddDocuments(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if s.isClosed() {
		return ErrStoreClosed
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, contents(chunks))
	if err != nil {
		return fmt.Errorf("embed chunks failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(chunks))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin pgvector tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, c := range chunks {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		meta := c.Metadata
		if meta == nil {
			meta = model.Metadata{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata failed: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO qa_chunks (id, content, metadata, search_date, embedding)
			VALUES ($1, $2, $3, $4, $5)
		`, id, c.Content, metaJSON, meta.SearchDate(), pgvector.NewVector(vectors[i]))
		if err != nil {
			return fmt.Errorf("insert chunk failed: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks failed: %w", err)
	}
	return nil
}

func (s *PgVectorStore) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]model.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, ErrStoreClosed
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	args := []any{pgvector.NewVector(queryVec), k}
	var clauses []string
	for key, value := range filter {
		if key == model.MetaSearchDate {
			args = append(args, value)
			clauses = append(clauses, fmt.Sprintf("search_date = $%d", len(args)))
			continue
		}
		args = append(args, key, value)
		clauses = append(clauses, fmt.Sprintf("metadata->>($%d::text) = $%d", len(args)-1, len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, content, metadata
		FROM qa_chunks
		`+where+`
		ORDER BY embedding <-> $1, seq
		LIMIT $2
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks failed: %w", err)
	}
	defer rows.Close()

	var out []model.Chunk
	for rows.Next() {
		var (
			c        model.Chunk
			metaJSON []byte
		)
		if err := rows.Scan(&c.ID, &c.Content, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan chunk failed: %w", err)
		}
		c.Metadata = model.Metadata{}
		if err := json.Unmarshal(metaJSON, &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode chunk metadata failed: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PgVectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *PgVectorStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

var _ Store = (*PgVectorStore)(nil)
