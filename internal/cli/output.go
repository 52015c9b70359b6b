package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"academy-qabot/internal/app"
)

var (
	heading = color.New(color.FgCyan, color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	muted   = color.New(color.FgHiBlack).SprintFunc()
)

func printAnswer(w io.Writer, result *app.AskResult) {
	label := string(result.Category)
	if result.Cached {
		label += " " + muted("(cached)")
	}
	fmt.Fprintf(w, "%s %s\n\n", heading("category:"), label)
	fmt.Fprintln(w, strings.TrimSpace(result.Answer))
	if result.AttachedFiles != "" && result.AttachedFiles != app.NoAttachedFiles {
		fmt.Fprintf(w, "\n%s\n%s\n", heading("attached files:"), result.AttachedFiles)
	}
}

func printIngest(w io.Writer, result *app.IngestResult) {
	fmt.Fprintf(w, "%s kind=%s documents=%d chunks=%d\n", success("indexed"), result.Kind, result.Documents, result.ChunkCount)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s %s -> %s\n", muted("file"), f.Name, f.StoragePath)
	}
}
