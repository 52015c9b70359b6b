package bootstrap

import (
	"academy-qabot/internal/app"
	"academy-qabot/internal/config"
	"academy-qabot/internal/loader"
)

// NewLoaders builds one loader per ingest source kind from config.
func NewLoaders(cfg *config.Config) map[app.SourceKind]loader.Loader {
	text := loader.NewRecursiveSplitter(
		loader.WithChunkSize(cfg.Splitter.ChunkSize),
		loader.WithChunkOverlap(cfg.Splitter.ChunkOverlap),
	)
	law := loader.NewRecursiveSplitter(
		loader.WithChunkSize(cfg.Splitter.LawChunkSize),
		loader.WithChunkOverlap(cfg.Splitter.LawChunkOverlap),
	)
	exts := cfg.Crawler.AttachmentExts

	return map[app.SourceKind]loader.Loader{
		app.SourceTimetableCSV: &loader.TimetableLoader{
			SkipRows:   cfg.Timetable.SkipRows,
			PivotMonth: cfg.Timetable.PivotMonth,
			BaseYear:   cfg.Timetable.BaseYear,
		},
		app.SourceMarkdown: &loader.MarkdownLoader{Splitter: text, AttachmentExts: exts},
		app.SourceLaw:      &loader.LawLoader{Splitter: law},
		app.SourceHTML:     &loader.HTMLLoader{Splitter: text, AttachmentExts: exts},
		app.SourcePDF:      &loader.PDFLoader{Splitter: text},
	}
}
