package loader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"academy-qabot/internal/logging"
	"academy-qabot/internal/model"
)

var dateHeaders = []string{"date", "날짜", "일자"}

// TimetableLoader reads a schedule CSV. The first SkipRows rows are banner
// rows, the next row is the header, and every data row becomes one chunk
// tagged with its normalized search_date.
type TimetableLoader struct {
	SkipRows   int
	PivotMonth int
	BaseYear   int
}

func (l *TimetableLoader) Load(_ context.Context, doc Document) ([]model.Chunk, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(doc.Content, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read timetable csv failed: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) <= l.SkipRows {
		return nil, fmt.Errorf("timetable csv %s has no header row", doc.Source)
	}
	rows = rows[l.SkipRows:]

	header := make([]string, len(rows[0]))
	dateCol := -1
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
		if dateCol < 0 && containsFold(dateHeaders, header[i]) {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, fmt.Errorf("timetable csv %s has no date column", doc.Source)
	}

	filled := forwardFill(rows[1:], len(header))
	chunks := make([]model.Chunk, 0, len(filled))
	for lineNo, row := range filled {
		date, err := NormalizeDate(row[dateCol], l.PivotMonth, l.BaseYear)
		if err != nil {
			logging.LogEvent("skip timetable row %d of %s: %v", lineNo+1, doc.Source, err)
			continue
		}

		var b strings.Builder
		for i, name := range header {
			if name == "" || strings.TrimSpace(row[i]) == "" {
				continue
			}
			value := row[i]
			if i == dateCol {
				value = date
			}
			fmt.Fprintf(&b, "%s: %s\n", name, strings.TrimSpace(value))
		}

		meta := model.Metadata{
			model.MetaSource:       doc.Source,
			model.MetaSearchDate:   date,
			model.MetaDocumentType: model.DocumentTypeTimetable,
		}
		meta.SetAttachedFiles(doc.AttachedFiles)
		chunks = append(chunks, model.Chunk{
			ID:       uuid.NewString(),
			Content:  strings.TrimSpace(b.String()),
			Metadata: meta,
		})
	}
	return chunks, nil
}

// forwardFill pads rows to width and copies an empty cell from the row above.
func forwardFill(rows [][]string, width int) [][]string {
	out := make([][]string, 0, len(rows))
	prev := make([]string, width)
	for _, row := range rows {
		filled := make([]string, width)
		empty := true
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if cell != "" {
				empty = false
			} else {
				cell = prev[i]
			}
			filled[i] = cell
		}
		if empty {
			continue
		}
		prev = filled
		out = append(out, filled)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
