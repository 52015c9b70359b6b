package loader

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 150
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter splits text on the first separator that occurs in it and
// recurses into pieces that are still too long. Sizes count runes.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

type SplitterOption func(*RecursiveSplitter)

func WithChunkSize(size int) SplitterOption {
	return func(s *RecursiveSplitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

func WithChunkOverlap(overlap int) SplitterOption {
	return func(s *RecursiveSplitter) {
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
	}
}

func WithSeparators(seps ...string) SplitterOption {
	return func(s *RecursiveSplitter) {
		if len(seps) > 0 {
			s.separators = seps
		}
	}
}

func NewRecursiveSplitter(opts ...SplitterOption) *RecursiveSplitter {
	s := &RecursiveSplitter{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		separators:   defaultSeparators,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chunkOverlap >= s.chunkSize {
		s.chunkOverlap = s.chunkSize / 2
	}
	return s
}

func (s *RecursiveSplitter) Split(text string) []string {
	return s.split(text, s.separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, sep)
	}

	var out, pending []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) <= s.chunkSize {
			pending = append(pending, p)
			continue
		}
		if len(pending) > 0 {
			out = append(out, s.merge(pending, sep)...)
			pending = nil
		}
		if len(rest) == 0 {
			out = append(out, p)
		} else {
			out = append(out, s.split(p, rest)...)
		}
	}
	if len(pending) > 0 {
		out = append(out, s.merge(pending, sep)...)
	}
	return out
}

// merge packs pieces into chunks of at most chunkSize runes, carrying up to
// chunkOverlap runes of trailing pieces into the next chunk.
func (s *RecursiveSplitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)
	var (
		docs    []string
		current []string
		total   int
	)
	joinLen := func() int {
		if len(current) > 0 {
			return sepLen
		}
		return 0
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n+joinLen() > s.chunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.chunkOverlap || (total+n+joinLen() > s.chunkSize && total > 0) {
				drop := utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc := strings.TrimSpace(strings.Join(current, sep)); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}
