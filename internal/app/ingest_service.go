package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"academy-qabot/internal/crawler"
	"academy-qabot/internal/loader"
	"academy-qabot/internal/model"
	"academy-qabot/internal/vectorstore"
)

type SourceKind string

const (
	SourceTimetableCSV SourceKind = "timetable_csv"
	SourceMarkdown     SourceKind = "markdown"
	SourceLaw          SourceKind = "law"
	SourceHTML         SourceKind = "html"
	SourcePDF          SourceKind = "pdf"
	SourceCrawl        SourceKind = "crawl"
)

// IngestSource is one document to index. Crawl sources use URL and
// ignore Content.
type IngestSource struct {
	Kind          SourceKind
	Name          string
	Content       []byte
	URL           string
	AttachedFiles []string
}

type IngestResult struct {
	Kind       SourceKind     `json:"kind"`
	Documents  int            `json:"documents"`
	ChunkCount int            `json:"chunk_count"`
	Files      []crawler.File `json:"files,omitempty"`
}

// PageCrawler fetches pages for crawl ingestion.
type PageCrawler interface {
	Crawl(ctx context.Context, startURL string) (*crawler.Result, error)
}

type IngestOption func(*IngestService)

// WithCrawler enables crawl sources. startURL is used when a source has no
// URL of its own.
func WithCrawler(c PageCrawler, startURL string) IngestOption {
	return func(s *IngestService) {
		s.crawler = c
		s.startURL = startURL
	}
}

type IngestService struct {
	store    vectorstore.Store
	loaders  map[SourceKind]loader.Loader
	crawler  PageCrawler
	startURL string
}

func NewIngestService(store vectorstore.Store, loaders map[SourceKind]loader.Loader, opts ...IngestOption) *IngestService {
	s := &IngestService{store: store, loaders: loaders}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest loads source into chunks and adds them to the vector store.
func (s *IngestService) Ingest(ctx context.Context, source IngestSource) (*IngestResult, error) {
	if source.Kind == SourceCrawl {
		return s.ingestCrawl(ctx, source)
	}

	l, ok := s.loaders[source.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source.Kind)
	}
	if len(source.Content) == 0 {
		return nil, ErrInvalidInput
	}
	name := strings.TrimSpace(source.Name)
	if name == "" {
		name = model.UnknownSource
	}

	chunks, err := l.Load(ctx, loader.Document{Source: name, Content: source.Content, AttachedFiles: source.AttachedFiles})
	if err != nil {
		return nil, fmt.Errorf("load %s %q failed: %w", source.Kind, name, err)
	}
	if err := s.store.AddDocuments(ctx, chunks); err != nil {
		return nil, fmt.Errorf("add documents failed: %w", err)
	}
	log.Printf("ingest done: kind=%s source=%s chunks=%d", source.Kind, name, len(chunks))
	return &IngestResult{Kind: source.Kind, Documents: 1, ChunkCount: len(chunks)}, nil
}

func (s *IngestService) ingestCrawl(ctx context.Context, source IngestSource) (*IngestResult, error) {
	if s.crawler == nil {
		return nil, fmt.Errorf("%w: crawler is not configured", ErrUnsupportedSource)
	}
	htmlLoader, ok := s.loaders[SourceHTML]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, SourceHTML)
	}
	startURL := strings.TrimSpace(source.URL)
	if startURL == "" {
		startURL = s.startURL
	}
	if startURL == "" {
		return nil, ErrInvalidInput
	}

	crawled, err := s.crawler.Crawl(ctx, startURL)
	if err != nil {
		return nil, fmt.Errorf("crawl %s failed: %w", startURL, err)
	}

	var chunks []model.Chunk
	for _, page := range crawled.Pages {
		pageChunks, err := htmlLoader.Load(ctx, loader.Document{Source: page.URL, Content: page.HTML, AttachedFiles: page.Attachments})
		if err != nil {
			log.Printf("load crawled page %s failed: %v", page.URL, err)
			continue
		}
		chunks = append(chunks, pageChunks...)
	}
	if err := s.store.AddDocuments(ctx, chunks); err != nil {
		return nil, fmt.Errorf("add documents failed: %w", err)
	}
	log.Printf("ingest done: kind=%s url=%s pages=%d chunks=%d", SourceCrawl, startURL, len(crawled.Pages), len(chunks))
	return &IngestResult{
		Kind:       SourceCrawl,
		Documents:  len(crawled.Pages),
		ChunkCount: len(chunks),
		Files:      crawled.Files,
	}, nil
}

// ParseSourceKind accepts the kind names used by the API and the CLI.
func ParseSourceKind(raw string) (SourceKind, bool) {
	switch k := SourceKind(strings.ToLower(strings.TrimSpace(raw))); k {
	case SourceTimetableCSV, SourceMarkdown, SourceLaw, SourceHTML, SourcePDF, SourceCrawl:
		return k, true
	}
	return "", false
}
