package model

import (
	"fmt"
	"sort"
)

// Metadata keys written by the loaders.
const (
	MetaSource       = "source"
	MetaAttachedFile = "attached_file"
	MetaSearchDate   = "search_date"
	MetaDocumentType = "document_type"
)

const (
	DocumentTypeTimetable = "timetable"
	DocumentTypeMarkdown  = "markdown"
	DocumentTypeLaw       = "law"
	DocumentTypeHTML      = "html"
	DocumentTypePDF       = "pdf"
)

// UnknownSource is reported for chunks stored without a source.
const UnknownSource = "Unknown"

// Metadata is the free-form key/value bag attached to a chunk.
type Metadata map[string]any

// Chunk is one retrievable unit of text. Chunks are immutable once stored.
type Chunk struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

func (m Metadata) Source() string {
	if s := m.String(MetaSource); s != "" {
		return s
	}
	return UnknownSource
}

func (m Metadata) SearchDate() string {
	return m.String(MetaSearchDate)
}

func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// AttachedFiles returns the attached_file list. Values decoded from JSON
// arrive as []any and are accepted as well.
func (m Metadata) AttachedFiles() []string {
	switch v := m[MetaAttachedFile].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// SetAttachedFiles stores a sorted, deduplicated copy of files.
func (m Metadata) SetAttachedFiles(files []string) {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	m[MetaAttachedFile] = out
}

func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		if files, ok := v.([]string); ok {
			v = append([]string(nil), files...)
		}
		out[k] = v
	}
	return out
}
