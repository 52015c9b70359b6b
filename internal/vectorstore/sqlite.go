package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS chunks (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	content     TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '{}',
	search_date TEXT NOT NULL DEFAULT '',
	embedding   BLOB NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_search_date ON chunks(search_date);
`

// SQLiteStore keeps chunks and vectors in a local SQLite file. Ranking is
// done in process over the rows that pass the metadata filter.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	embedder ai.Embedder

	mu     sync.RWMutex
	closed bool
}

func NewSQLiteStore(path string, embedder ai.Embedder) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create vector store dir failed: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite vector store failed: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema failed: %w", err)
	}

	return &SQLiteStore{db: db, path: path, embedder: embedder}, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) AddDocuments(ctx context.Context, chunks []model.Chunk) error {
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

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, content, metadata, search_date, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert failed: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
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
		if _, err := stmt.ExecContext(ctx, id, c.Content, string(metaJSON), meta.SearchDate(), float32SliceToBytes(vectors[i]), now); err != nil {
			return fmt.Errorf("insert chunk failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks failed: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]model.Chunk, error) {
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

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	where, args := sqliteWhere(filter)
	rows, err := s.db.QueryContext(ctx, "SELECT id, content, metadata, embedding FROM chunks"+where+" ORDER BY seq ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("query chunks failed: %w", err)
	}
	defer rows.Close()

	var candidates []candidate
	for rows.Next() {
		var (
			c        model.Chunk
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&c.ID, &c.Content, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk failed: %w", err)
		}
		c.Metadata = model.Metadata{}
		if err := json.Unmarshal([]byte(metaJSON), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode chunk metadata failed: %w", err)
		}
		candidates = append(candidates, candidate{chunk: c, vector: bytesToFloat32Slice(blob)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks failed: %w", err)
	}

	return rankL2(queryVec, candidates, k), nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks failed: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLiteStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func sqliteWhere(filter Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter)*2)
	for key, value := range filter {
		if key == model.MetaSearchDate {
			clauses = append(clauses, "search_date = ?")
			args = append(args, value)
			continue
		}
		clauses = append(clauses, "json_extract(metadata, ?) = ?")
		args = append(args, "$."+key, value)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func float32SliceToBytes(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(data []byte) []float32 {
	if len(data)%4 != 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

var _ Store = (*SQLiteStore)(nil)
