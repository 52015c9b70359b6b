// Package vectorstore holds the chunk index behind similarity search. Every
// backend ranks by exact L2 distance and filters on metadata by exact match.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"academy-qabot/internal/model"
)

var (
	ErrStoreClosed   = errors.New("vector store closed")
	ErrInvalidFilter = errors.New("invalid metadata filter")
)

// Filter restricts a search to chunks whose metadata equals every pair.
type Filter map[string]string

// Store is the vector index shared by ingestion and serving. It is opened
// once at startup and must be closed by its owner.
type Store interface {
	AddDocuments(ctx context.Context, chunks []model.Chunk) error
	SimilaritySearch(ctx context.Context, query string, k int, filter Filter) ([]model.Chunk, error)
	Close() error
}

var filterKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (f Filter) validate() error {
	for key := range f {
		if !filterKeyPattern.MatchString(key) {
			return fmt.Errorf("%w: key %q", ErrInvalidFilter, key)
		}
	}
	return nil
}

// Match reports whether meta satisfies every pair of the filter.
func (f Filter) Match(meta model.Metadata) bool {
	for key, want := range f {
		if meta.String(key) != want {
			return false
		}
	}
	return true
}

func contents(chunks []model.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
