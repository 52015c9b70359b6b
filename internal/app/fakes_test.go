package app

import (
	"context"
	"sync"

	"academy-qabot/internal/ai"
	"academy-qabot/internal/model"
	"academy-qabot/internal/vectorstore"
)

type fakeChat struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]ai.ChatMessage
}

func (f *fakeChat) Complete(_ context.Context, messages []ai.ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

type searchCall struct {
	query  string
	k      int
	filter vectorstore.Filter
}

// fakeStore returns byQuery[query] when present, otherwise all chunks
// matching the filter, limited to k.
type fakeStore struct {
	chunks  []model.Chunk
	byQuery map[string][]model.Chunk
	err     error
	added   []model.Chunk
	calls   []searchCall
}

func (f *fakeStore) AddDocuments(_ context.Context, chunks []model.Chunk) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, chunks...)
	return nil
}

func (f *fakeStore) SimilaritySearch(_ context.Context, query string, k int, filter vectorstore.Filter) ([]model.Chunk, error) {
	f.calls = append(f.calls, searchCall{query: query, k: k, filter: filter})
	if f.err != nil {
		return nil, f.err
	}
	if out, ok := f.byQuery[query]; ok {
		return out, nil
	}
	var out []model.Chunk
	for _, c := range f.chunks {
		if filter.Match(c.Metadata) {
			out = append(out, c)
		}
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func chunk(source, content string, files ...string) model.Chunk {
	meta := model.Metadata{model.MetaSource: source}
	if len(files) > 0 {
		meta[model.MetaAttachedFile] = files
	}
	return model.Chunk{Content: content, Metadata: meta}
}
