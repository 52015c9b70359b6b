package app

import (
	"fmt"
	"sort"
	"strings"

	"academy-qabot/internal/model"
)

// NoAttachedFiles is the attached files value when no chunk lists a file.
const NoAttachedFiles = "None"

// ExtractContextAndFiles formats chunks as "source: ..., contents: ..."
// entries, dropping exact duplicates while keeping order, and collects the
// sorted set of attached file names.
func ExtractContextAndFiles(chunks []model.Chunk) (string, string) {
	entries := make([]string, 0, len(chunks))
	seenEntries := make(map[string]struct{}, len(chunks))
	files := make(map[string]struct{})

	for _, c := range chunks {
		entry := fmt.Sprintf("source: %s, contents: %s", c.Metadata.Source(), c.Content)
		if _, ok := seenEntries[entry]; !ok {
			seenEntries[entry] = struct{}{}
			entries = append(entries, entry)
		}
		for _, f := range c.Metadata.AttachedFiles() {
			if f != "" {
				files[f] = struct{}{}
			}
		}
	}

	if len(files) == 0 {
		return strings.Join(entries, "\n\n"), NoAttachedFiles
	}
	names := make([]string, 0, len(files))
	for f := range files {
		names = append(names, f)
	}
	sort.Strings(names)
	return strings.Join(entries, "\n\n"), strings.Join(names, "\n")
}
