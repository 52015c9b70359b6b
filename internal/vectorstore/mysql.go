package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
	"academy-qabot/internal/repository"
)

// MySQLStore keeps chunks in the qa_chunks table. MySQL filters on
// metadata and the ranking happens in process. The *gorm.DB behind the
// repository is owned by the caller.
type MySQLStore struct {
	repo     *repository.ChunkRepository
	embedder ai.Embedder

	mu     sync.RWMutex
	closed bool
}

func NewMySQLStore(repo *repository.ChunkRepository, embedder ai.Embedder) *MySQLStore {
	return &MySQLStore{repo: repo, embedder: embedder}
}

func (s *MySQLStore) AddDocuments(ctx context.Context, chunks []model.Chunk) error {
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

	records := make([]model.ChunkRecord, len(chunks))
	for i, c := range chunks {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		rec, err := model.NewChunkRecord(c, vectors[i])
		if err != nil {
			return fmt.Errorf("encode chunk record failed: %w", err)
		}
		records[i] = rec
	}
	return s.repo.CreateBatch(ctx, records)
}

func (s *MySQLStore) SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]model.Chunk, error) {
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

	records, err := s.repo.ListByMetadata(ctx, filter)
	if err != nil {
		return nil, err
	}
	candidates := make([]candidate, 0, len(records))
	for i := range records {
		chunk, err := records[i].Chunk()
		if err != nil {
			return nil, fmt.Errorf("decode chunk record %s failed: %w", records[i].ChunkID, err)
		}
		candidates = append(candidates, candidate{chunk: chunk, vector: records[i].EmbeddingVector()})
	}
	return rankL2(queryVec, candidates, k), nil
}

func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MySQLStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

var _ Store = (*MySQLStore)(nil)
