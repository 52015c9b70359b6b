package vectorstore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/model"
)

// keywordEmbedder maps text onto a fixed vocabulary so distances are
// predictable.
type keywordEmbedder struct {
	vocab []string
}

func (e keywordEmbedder) vector(text string) []float32 {
	vec := make([]float32, len(e.vocab))
	for i, w := range e.vocab {
		if strings.Contains(text, w) {
			vec[i] = 1
		}
	}
	return vec
}

func (e keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "index", "chunks.db"),
		keywordEmbedder{vocab: []string{"vacation", "leave", "timetable", "law"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRankL2OrdersByDistance(t *testing.T) {
	cands := []candidate{
		{chunk: model.Chunk{ID: "far"}, vector: []float32{5, 5}},
		{chunk: model.Chunk{ID: "near"}, vector: []float32{1, 0}},
		{chunk: model.Chunk{ID: "tie-a"}, vector: []float32{0, 2}},
		{chunk: model.Chunk{ID: "tie-b"}, vector: []float32{2, 0}},
		{chunk: model.Chunk{ID: "wrong-dim"}, vector: []float32{1}},
	}
	got := rankL2([]float32{0, 0}, cands, 3)
	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"near", "tie-a", "tie-b"}, ids)
	assert.Nil(t, rankL2([]float32{0, 0}, cands, 0))
}

func TestFilterMatch(t *testing.T) {
	meta := model.Metadata{model.MetaSearchDate: "20250302", "cohort": 7}
	assert.True(t, Filter{model.MetaSearchDate: "20250302"}.Match(meta))
	assert.True(t, Filter{"cohort": "7"}.Match(meta))
	assert.False(t, Filter{model.MetaSearchDate: "20250303"}.Match(meta))
	assert.True(t, Filter(nil).Match(meta))
}

func TestSQLiteStoreSearch(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	err := store.AddDocuments(ctx, []model.Chunk{
		{ID: "1", Content: "vacation leave form", Metadata: model.Metadata{model.MetaSource: "notion"}},
		{ID: "2", Content: "timetable", Metadata: model.Metadata{model.MetaSearchDate: "20250302"}},
		{ID: "3", Content: "timetable", Metadata: model.Metadata{model.MetaSearchDate: "20250303"}},
		{ID: "4", Content: "law article"},
	})
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := store.SimilaritySearch(ctx, "vacation leave", 2, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "notion", got[0].Metadata.Source())

	got, err = store.SimilaritySearch(ctx, "20250303", 4, Filter{model.MetaSearchDate: "20250303"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got, err = store.SimilaritySearch(ctx, "timetable", 4, Filter{model.MetaSearchDate: "20990101"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStoreJSONFilterAndAttachments(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	meta := model.Metadata{model.MetaDocumentType: model.DocumentTypeHTML}
	meta.SetAttachedFiles([]string{"휴가신청서.docx"})
	require.NoError(t, store.AddDocuments(ctx, []model.Chunk{
		{Content: "vacation", Metadata: meta},
		{Content: "vacation", Metadata: model.Metadata{model.MetaDocumentType: model.DocumentTypeLaw}},
	}))

	got, err := store.SimilaritySearch(ctx, "vacation", 4, Filter{model.MetaDocumentType: model.DocumentTypeHTML})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, []string{"휴가신청서.docx"}, got[0].Metadata.AttachedFiles())
}

func TestSQLiteStoreRejectsBadFilterAndClosedUse(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SimilaritySearch(ctx, "q", 4, Filter{"bad key')": "x"})
	assert.True(t, errors.Is(err, ErrInvalidFilter))

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	_, err = store.SimilaritySearch(ctx, "q", 4, nil)
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.AddDocuments(ctx, []model.Chunk{{Content: "x"}}), ErrStoreClosed)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.db")
	embedder := keywordEmbedder{vocab: []string{"law"}}

	store, err := NewSQLiteStore(path, embedder)
	require.NoError(t, err)
	require.NoError(t, store.AddDocuments(context.Background(), []model.Chunk{{ID: "a", Content: "law"}}))
	require.NoError(t, store.Close())

	reopened, err := Open(context.Background(), Options{Backend: BackendSQLite, Path: path, Embedder: embedder})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.SimilaritySearch(context.Background(), "law", 1, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestOpenValidatesDependencies(t *testing.T) {
	embedder := keywordEmbedder{}
	_, err := Open(context.Background(), Options{Backend: BackendMySQL, Embedder: embedder})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Backend: BackendPgVector, Embedder: embedder})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Backend: "faiss", Embedder: embedder})
	assert.Error(t, err)
	_, err = Open(context.Background(), Options{Backend: BackendSQLite})
	assert.Error(t, err)
}
