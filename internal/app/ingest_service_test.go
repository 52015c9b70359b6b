package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/crawler"
	"academy-qabot/internal/loader"
	"academy-qabot/internal/model"
)

type fakeCrawler struct {
	result   *crawler.Result
	startURL string
}

func (f *fakeCrawler) Crawl(_ context.Context, startURL string) (*crawler.Result, error) {
	f.startURL = startURL
	return f.result, nil
}

func testLoaders() map[SourceKind]loader.Loader {
	splitter := loader.NewRecursiveSplitter()
	return map[SourceKind]loader.Loader{
		SourceMarkdown: &loader.MarkdownLoader{Splitter: splitter},
		SourceHTML:     &loader.HTMLLoader{Splitter: splitter},
		SourceLaw:      &loader.LawLoader{Splitter: splitter},
	}
}

func TestIngestMarkdown(t *testing.T) {
	store := &fakeStore{}
	svc := NewIngestService(store, testLoaders())

	result, err := svc.Ingest(context.Background(), IngestSource{
		Kind:    SourceMarkdown,
		Name:    "notice.md",
		Content: []byte("# 공지\n\n휴가는 [휴가신청서.docx](files/휴가신청서.docx)로 신청합니다."),
	})
	require.NoError(t, err)
	assert.Equal(t, &IngestResult{Kind: SourceMarkdown, Documents: 1, ChunkCount: 1}, result)

	require.Len(t, store.added, 1)
	assert.Equal(t, "notice.md", store.added[0].Metadata.Source())
	assert.Equal(t, []string{"휴가신청서.docx"}, store.added[0].Metadata.AttachedFiles())
}

func TestIngestRejectsBadSources(t *testing.T) {
	svc := NewIngestService(&fakeStore{}, testLoaders())

	_, err := svc.Ingest(context.Background(), IngestSource{Kind: SourcePDF, Content: []byte("x")})
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	_, err = svc.Ingest(context.Background(), IngestSource{Kind: SourceMarkdown})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), IngestSource{Kind: SourceCrawl})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}

func TestIngestPropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := NewIngestService(&fakeStore{err: storeErr}, testLoaders())
	_, err := svc.Ingest(context.Background(), IngestSource{Kind: SourceLaw, Content: []byte("제1조 목적")})
	assert.ErrorIs(t, err, storeErr)
}

func TestIngestCrawl(t *testing.T) {
	store := &fakeStore{}
	fc := &fakeCrawler{result: &crawler.Result{
		Pages: []crawler.Page{
			{URL: "https://kb.example.com/", HTML: []byte("<html><body><h1>휴가</h1><p>신청 방법</p></body></html>"), Attachments: []string{"휴가신청서.docx"}},
			{URL: "https://kb.example.com/empty", HTML: []byte("<html><body></body></html>")},
		},
		Files: []crawler.File{{Name: "휴가신청서.docx", StoragePath: "ab/x.docx"}},
	}}
	svc := NewIngestService(store, testLoaders(), WithCrawler(fc, "https://kb.example.com/"))

	result, err := svc.Ingest(context.Background(), IngestSource{Kind: SourceCrawl})
	require.NoError(t, err)

	assert.Equal(t, "https://kb.example.com/", fc.startURL)
	assert.Equal(t, 2, result.Documents)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Len(t, result.Files, 1)

	require.Len(t, store.added, 1)
	assert.Equal(t, model.DocumentTypeHTML, store.added[0].Metadata.String(model.MetaDocumentType))
	assert.Equal(t, []string{"휴가신청서.docx"}, store.added[0].Metadata.AttachedFiles())
}

func TestParseSourceKind(t *testing.T) {
	k, ok := ParseSourceKind(" Timetable_CSV ")
	assert.True(t, ok)
	assert.Equal(t, SourceTimetableCSV, k)

	_, ok = ParseSourceKind("docx")
	assert.False(t, ok)
}
