package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.BatchEvent("completed", "b-1", 3, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "batch_event", entry["msg"])
	assert.Equal(t, "b-1", entry["batch_id"])
	assert.EqualValues(t, 3, entry["total"])
	assert.EqualValues(t, 1, entry["invalid"])
}

func TestProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.ValidationOutcome(12, true, nil)

	assert.Empty(t, buf.String())
}

func TestDevelopmentLogsValidationOutcome(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf)

	log.ValidationOutcome(12, false, []string{"national", "international"})

	out := buf.String()
	assert.Contains(t, out, "validation_outcome")
	assert.Contains(t, out, "value_len=12")
	assert.Contains(t, out, "valid=false")
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	log.WithContext(ctx).Info("hello")

	assert.True(t, strings.Contains(buf.String(), `"request_id":"req-42"`))
}
