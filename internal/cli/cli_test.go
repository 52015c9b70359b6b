package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/app"
	"academy-qabot/internal/crawler"
	"academy-qabot/internal/model"
	"academy-qabot/internal/pkg/jwtutil"
)

func TestTokenCommandIssuesParsableToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[auth]\njwt_secret = \"cli-secret\"\n"), 0o644))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("LOG_PATH", "")

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"token", "--config", path, "--subject", "manager"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	claims, err := jwtutil.ParseToken("cli-secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Subject)
	assert.Equal(t, jwtutil.RoleAdmin, claims.Role)
}

func TestPrintAnswer(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printAnswer(&buf, &app.AskResult{
		Category:      model.CategoryVacation,
		Answer:        "- 휴가 신청서를 제출하세요.\n",
		AttachedFiles: "휴가_신청서.docx",
		Cached:        true,
	})
	out := buf.String()
	assert.Contains(t, out, "category: vacation (cached)")
	assert.Contains(t, out, "- 휴가 신청서를 제출하세요.")
	assert.Contains(t, out, "attached files:\n휴가_신청서.docx")

	buf.Reset()
	printAnswer(&buf, &app.AskResult{Category: model.CategoryEtc, Answer: "hi", AttachedFiles: app.NoAttachedFiles})
	assert.NotContains(t, buf.String(), "attached files")
}

func TestPrintIngest(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printIngest(&buf, &app.IngestResult{
		Kind:       app.SourceCrawl,
		Documents:  2,
		ChunkCount: 5,
		Files:      []crawler.File{{Name: "guide.pdf", StoragePath: "ab/ab12_guide.pdf"}},
	})
	assert.Contains(t, buf.String(), "indexed kind=crawl documents=2 chunks=5")
	assert.Contains(t, buf.String(), "guide.pdf -> ab/ab12_guide.pdf")
}
