package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json"})
	logger.Info("server started", "addr", ":8080")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "server started", entry["msg"])
	require.Equal(t, "autoworkx", entry["service"])
	require.Equal(t, ":8080", entry["addr"])
}

func TestNewLoggerTextFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "pretty"})
	logger.Info("server started")

	out := buf.String()
	require.Contains(t, out, "msg=\"server started\"")
	require.Contains(t, out, "service=autoworkx")
	require.NotContains(t, out, "{")
}
