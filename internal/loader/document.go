// Package loader turns raw sources into chunks with metadata.
package loader

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"academy-qabot/internal/model"
)

// Document is one raw source handed to a loader. AttachedFiles lists files
// already known to belong to the source, such as crawler downloads.
type Document struct {
	Source        string
	Content       []byte
	AttachedFiles []string
}

type Loader interface {
	Load(ctx context.Context, doc Document) ([]model.Chunk, error)
}

var (
	imageMarkdownPattern = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	fileSizePattern      = regexp.MustCompile(`\n\n\d+(\.\d+)?(KB|MB|GB)`)
	markdownLinkPattern  = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	blankLinesPattern    = regexp.MustCompile(`\n{3,}`)
)

// DefaultAttachmentExts are the file types treated as attachments.
var DefaultAttachmentExts = []string{".docx", ".pdf", ".hwp", ".xlsx"}

// CleanText drops image markup and the file-size lines that follow
// attachment links in exported pages.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = imageMarkdownPattern.ReplaceAllString(text, "")
	text = fileSizePattern.ReplaceAllString(text, "")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// IsAttachment reports whether ref names a file with one of exts. Empty
// exts means DefaultAttachmentExts.
func IsAttachment(ref string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultAttachmentExts
	}
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// AttachmentName returns the display name of an attachment reference.
func AttachmentName(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(p)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}

// markdownAttachments collects attachment names from markdown links.
func markdownAttachments(text string, exts []string) []string {
	var out []string
	for _, m := range markdownLinkPattern.FindAllStringSubmatch(text, -1) {
		label, target := strings.TrimSpace(m[1]), m[2]
		switch {
		case IsAttachment(label, exts):
			out = append(out, label)
		case IsAttachment(target, exts):
			out = append(out, AttachmentName(target))
		}
	}
	return out
}

// chunksFromText splits text and stamps every piece with a copy of meta.
func chunksFromText(splitter *RecursiveSplitter, text string, meta model.Metadata) []model.Chunk {
	if splitter == nil {
		splitter = NewRecursiveSplitter()
	}
	pieces := splitter.Split(text)
	chunks := make([]model.Chunk, 0, len(pieces))
	for _, p := range pieces {
		chunks = append(chunks, model.Chunk{
			ID:       uuid.NewString(),
			Content:  p,
			Metadata: meta.Clone(),
		})
	}
	return chunks
}
