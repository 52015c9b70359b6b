package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQALog(t *testing.T) {
	entry, err := decodeQALog([]byte(`{"id":9,"question":"휴가?","category":"vacation","answer":"- 네","latency_ms":120}`))
	require.NoError(t, err)
	assert.Zero(t, entry.ID)
	assert.Equal(t, "휴가?", entry.Question)
	assert.Equal(t, "vacation", entry.Category)
	assert.Equal(t, int64(120), entry.LatencyMS)
}

func TestDecodeQALogRejectsBadPayloads(t *testing.T) {
	_, err := decodeQALog([]byte("not json"))
	assert.Error(t, err)

	_, err = decodeQALog([]byte(`{"answer":"x"}`))
	assert.Error(t, err)
}
