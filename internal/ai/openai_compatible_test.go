package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *OpenAICompatibleClient {
	return &OpenAICompatibleClient{httpClient: srv.Client()}
}

func TestCompleteSendsTemperatureAndJSONMode(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"category\":\"legal\"}"}}]}`))
	}))
	defer srv.Close()

	cfg := ChatConfig{BaseURL: srv.URL + "/v1/", APIKey: "key", Model: "solar-pro", Temperature: 1, JSONMode: true}
	out, err := newTestClient(srv).Complete(context.Background(), cfg, []ChatMessage{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, `{"category":"legal"}`, out)
	assert.Equal(t, "solar-pro", got["model"])
	assert.Equal(t, 1.0, got["temperature"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
}

func TestCompleteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Complete(context.Background(), ChatConfig{BaseURL: srv.URL}, nil)
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[2,2]},{"index":0,"embedding":[1,1]}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv).EmbedBatch(context.Background(), EmbeddingConfig{BaseURL: srv.URL}, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}}, out)
}

func TestEmbedBatchRejectsBlankInput(t *testing.T) {
	client := &OpenAICompatibleClient{httpClient: http.DefaultClient}
	_, err := client.EmbedBatch(context.Background(), EmbeddingConfig{}, []string{"a", "  "})
	require.Error(t, err)
}

func TestOpenAIEmbedderBatchesAndUsesQueryModel(t *testing.T) {
	var models []string
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string          `json:"model"`
			Input json.RawMessage `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		models = append(models, body.Model)

		var inputs []string
		if err := json.Unmarshal(body.Input, &inputs); err != nil {
			inputs = []string{"single"}
		}
		sizes = append(sizes, len(inputs))

		type item struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]item, len(inputs))
		for i := range inputs {
			data[i] = item{Index: i, Embedding: []float32{float32(i), 1}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	embedder := NewOpenAIEmbedder(newTestClient(srv),
		EmbeddingConfig{BaseURL: srv.URL, Model: "embedding-passage"},
		EmbeddingConfig{BaseURL: srv.URL, Model: "embedding-query"},
	)

	texts := make([]string, 23)
	for i := range texts {
		texts[i] = "chunk"
	}
	vectors, err := embedder.EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, 23)
	assert.Equal(t, []int{10, 10, 3}, sizes)

	_, err = embedder.EmbedQuery(context.Background(), "질문")
	require.NoError(t, err)
	assert.Equal(t, "embedding-query", models[len(models)-1])
	assert.Equal(t, "embedding-passage", models[0])
}
