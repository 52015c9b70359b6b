package loader

import (
	"context"
	"strings"

	"academy-qabot/internal/model"
)

// MarkdownLoader splits markdown pages. Links to attachment files are
// recorded in attached_file.
type MarkdownLoader struct {
	Splitter       *RecursiveSplitter
	AttachmentExts []string
}

func (l *MarkdownLoader) Load(_ context.Context, doc Document) ([]model.Chunk, error) {
	text := CleanText(string(doc.Content))
	if text == "" {
		return nil, nil
	}
	meta := model.Metadata{
		model.MetaSource:       doc.Source,
		model.MetaDocumentType: model.DocumentTypeMarkdown,
	}
	meta.SetAttachedFiles(append(markdownAttachments(text, l.AttachmentExts), doc.AttachedFiles...))
	return chunksFromText(l.Splitter, text, meta), nil
}

// LawLoader splits statute text. Laws never carry attachments.
type LawLoader struct {
	Splitter *RecursiveSplitter
}

func (l *LawLoader) Load(_ context.Context, doc Document) ([]model.Chunk, error) {
	text := strings.TrimSpace(strings.ReplaceAll(string(doc.Content), "\r\n", "\n"))
	if text == "" {
		return nil, nil
	}
	meta := model.Metadata{
		model.MetaSource:       doc.Source,
		model.MetaDocumentType: model.DocumentTypeLaw,
	}
	return chunksFromText(l.Splitter, text, meta), nil
}
