package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-qabot/internal/app"
	"academy-qabot/internal/model"
	"academy-qabot/internal/storage"
	"academy-qabot/internal/transport/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAsker struct {
	result *app.AskResult
	err    error
	input  app.AskInput
}

func (f *fakeAsker) Ask(_ context.Context, input app.AskInput) (*app.AskResult, error) {
	f.input = input
	return f.result, f.err
}

type fakeIngester struct {
	source app.IngestSource
	result *app.IngestResult
	err    error
}

func (f *fakeIngester) Ingest(_ context.Context, source app.IngestSource) (*app.IngestResult, error) {
	f.source = source
	return f.result, f.err
}

type countingFlusher struct{ calls int }

func (f *countingFlusher) Flush(context.Context) (int, error) {
	f.calls++
	return 3, nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var out response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAskReturnsAnswer(t *testing.T) {
	asker := &fakeAsker{result: &app.AskResult{Category: model.CategoryVacation, Answer: "- 네", AttachedFiles: "None"}}
	router := gin.New()
	router.POST("/ask", NewQAHandler(asker).Ask)

	rec := postJSON(router, "/ask", `{"question":"휴가?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "휴가?", asker.input.Question)

	body := decode(t, rec)
	assert.Equal(t, response.CodeOK, body.Code)
	data := body.Data.(map[string]any)
	assert.Equal(t, "vacation", data["category"])
	assert.Equal(t, "- 네", data["answer"])
}

func TestAskMapsErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{app.ErrInvalidInput, http.StatusBadRequest, response.CodeBadRequest},
		{fmt.Errorf("search: %w", &app.DateExtractionError{Raw: "?", Err: errors.New("bad")}), http.StatusBadGateway, response.CodeDateExtraction},
		{errors.New("upstream 500"), http.StatusInternalServerError, response.CodeInternalServer},
	}
	for _, tc := range cases {
		router := gin.New()
		router.POST("/ask", NewQAHandler(&fakeAsker{err: tc.err}).Ask)

		rec := postJSON(router, "/ask", `{"question":"q"}`)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.code, decode(t, rec).Code, tc.err.Error())
	}
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	router := gin.New()
	router.POST("/ask", NewQAHandler(&fakeAsker{}).Ask)

	rec := postJSON(router, "/ask", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func multipartRequest(t *testing.T, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingest", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestIngestUpload(t *testing.T) {
	ingester := &fakeIngester{result: &app.IngestResult{Kind: app.SourceMarkdown, Documents: 1, ChunkCount: 2}}
	flusher := &countingFlusher{}
	router := gin.New()
	router.POST("/ingest", NewIngestHandler(ingester, flusher).Upload)

	req := multipartRequest(t, map[string]string{"kind": "markdown", "attached_files": "a.docx, b.pdf"}, "notice.md", "# 공지")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, app.SourceMarkdown, ingester.source.Kind)
	assert.Equal(t, "notice.md", ingester.source.Name)
	assert.Equal(t, "# 공지", string(ingester.source.Content))
	assert.Equal(t, []string{"a.docx", "b.pdf"}, ingester.source.AttachedFiles)
	assert.Equal(t, 1, flusher.calls)
}

func TestIngestUploadRejectsUnknownKind(t *testing.T) {
	router := gin.New()
	router.POST("/ingest", NewIngestHandler(&fakeIngester{}, nil).Upload)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, map[string]string{"kind": "docx"}, "a.docx", "x"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeUnsupportedSource, decode(t, rec).Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, map[string]string{"kind": "markdown"}, "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrawlUsesRequestURL(t *testing.T) {
	ingester := &fakeIngester{result: &app.IngestResult{Kind: app.SourceCrawl}}
	router := gin.New()
	router.POST("/crawl", NewIngestHandler(ingester, nil).Crawl)

	rec := postJSON(router, "/crawl", `{"url":"https://kb.example.com/"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.IngestSource{Kind: app.SourceCrawl, URL: "https://kb.example.com/"}, ingester.source)

	req := httptest.NewRequest(http.MethodPost, "/crawl", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", ingester.source.URL)
}

func TestCrawlMapsUnsupported(t *testing.T) {
	router := gin.New()
	router.POST("/crawl", NewIngestHandler(&fakeIngester{err: fmt.Errorf("%w: crawler", app.ErrUnsupportedSource)}, nil).Crawl)

	rec := postJSON(router, "/crawl", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, response.CodeUnsupportedSource, decode(t, rec).Code)
}

func TestFilesDownload(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	path, err := store.Upload(context.Background(), [16]byte{1}, "guide.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	router := gin.New()
	router.GET("/files/*path", NewFilesHandler(store).Download)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/"+path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF", rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/00/missing.pdf", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeAuth struct {
	err error
}

func (f *fakeAuth) Login(_ context.Context, input app.LoginInput) (*app.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &app.AuthResult{Token: "tok-" + input.Username, Admin: &model.Admin{Username: input.Username, Role: "admin"}}, nil
}

func TestLogin(t *testing.T) {
	router := gin.New()
	router.POST("/login", NewAuthHandler(&fakeAuth{}).Login)

	rec := postJSON(router, "/login", `{"username":"manager","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, "tok-manager", data["token"])

	rec = postJSON(router, "/login", `{"username":"manager"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	router = gin.New()
	router.POST("/login", NewAuthHandler(&fakeAuth{err: app.ErrInvalidCredential}).Login)
	rec = postJSON(router, "/login", `{"username":"manager","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.CodeUnauthorized, decode(t, rec).Code)
}
