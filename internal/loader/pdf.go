package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"academy-qabot/internal/model"
	"academy-qabot/internal/pkg/pdfextract"
)

type PDFLoader struct {
	Splitter *RecursiveSplitter
}

func (l *PDFLoader) Load(_ context.Context, doc Document) ([]model.Chunk, error) {
	text, err := pdfextract.ExtractText(bytes.NewReader(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("extract pdf text from %s failed: %w", doc.Source, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	meta := model.Metadata{
		model.MetaSource:       doc.Source,
		model.MetaDocumentType: model.DocumentTypePDF,
	}
	meta.SetAttachedFiles(doc.AttachedFiles)
	return chunksFromText(l.Splitter, text, meta), nil
}
