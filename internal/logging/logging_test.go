package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestMessage(t *testing.T) {
	msg := buildRequestMessage("request", "openai", "solar-pro", map[string]string{"q": "휴가"})
	assert.Equal(t, `[REQUEST] provider=openai model=solar-pro payload={"q":"휴가"}`, msg)

	msg = buildRequestMessage("response", "", " ", nil)
	assert.Equal(t, "[RESPONSE] provider=unknown model=unknown payload=null", msg)
}

func TestFormatPayloadTruncates(t *testing.T) {
	long := strings.Repeat("가", maxPayloadLen+10)
	out := formatPayload(long)
	assert.True(t, strings.HasSuffix(out, "...(truncated)"))
	assert.Equal(t, maxPayloadLen, len([]rune(strings.TrimSuffix(out, "...(truncated)"))))
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qabot.log")
	require.NoError(t, Init(path))
	t.Cleanup(func() {
		_ = Close()
		log.SetOutput(os.Stderr)
	})

	LogEvent("ingested %d chunks", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ingested 3 chunks")
}
