package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"academy-qabot/internal/app"
	"academy-qabot/internal/bootstrap"
)

var (
	ingestKind     string
	ingestFile     string
	ingestName     string
	ingestAttached []string
	crawlURL       string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load one source file into the vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := app.ParseSourceKind(ingestKind)
		if !ok || kind == app.SourceCrawl {
			return fmt.Errorf("unsupported kind %q (use timetable_csv, markdown, law, html or pdf)", ingestKind)
		}
		content, err := os.ReadFile(ingestFile)
		if err != nil {
			return fmt.Errorf("read source file failed: %w", err)
		}
		name := strings.TrimSpace(ingestName)
		if name == "" {
			name = filepath.Base(ingestFile)
		}

		return runIngest(cmd, app.IngestSource{
			Kind:          kind,
			Name:          name,
			Content:       content,
			AttachedFiles: ingestAttached,
		})
	},
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the knowledge base site and index every page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd, app.IngestSource{Kind: app.SourceCrawl, URL: crawlURL})
	},
}

func runIngest(cmd *cobra.Command, source app.IngestSource) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Ingest.Ingest(cmd.Context(), source)
	if err != nil {
		return err
	}
	flushAnswers(cmd.Context(), a, result)
	printIngest(cmd.OutOrStdout(), result)
	return nil
}

func flushAnswers(ctx context.Context, a *bootstrap.App, result *app.IngestResult) {
	if a.AnswerCache == nil || result.ChunkCount == 0 {
		return
	}
	n, err := a.AnswerCache.Flush(ctx)
	if err != nil {
		log.Printf("flush answer cache failed: %v", err)
		return
	}
	log.Printf("answer cache flushed: keys=%d", n)
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestKind, "kind", "k", "", "source kind: timetable_csv, markdown, law, html or pdf")
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "path of the source file")
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "source name stored with each chunk (defaults to the file name)")
	ingestCmd.Flags().StringSliceVar(&ingestAttached, "attached", nil, "attached file names to record on every chunk")
	_ = ingestCmd.MarkFlagRequired("kind")
	_ = ingestCmd.MarkFlagRequired("file")

	crawlCmd.Flags().StringVar(&crawlURL, "url", "", "start URL (defaults to crawler.start_url)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(crawlCmd)
}
