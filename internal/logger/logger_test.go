package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FallsBackToInfo(t *testing.T) {
	l := New("not-a-level")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}

func TestWithUserID_WritesJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("debug", &buf)

	l.WithUserID(context.Background(), "uid-1").Info("loaded")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loaded", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "uid-1", line["user_id"])
	assert.Contains(t, line, "timestamp")
	assert.NotContains(t, line, "request_id")
}

func TestFromContext_CarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput("debug", &buf)
	ctx := ContextWithRequestID(context.Background(), "rid-9")

	l.WithUserID(ctx, "uid-1").Warn("denied")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "rid-9", line["request_id"])
	assert.Equal(t, "uid-1", line["user_id"])
	assert.Equal(t, "rid-9", RequestIDFrom(ctx))
	assert.Empty(t, RequestIDFrom(context.Background()))
}
