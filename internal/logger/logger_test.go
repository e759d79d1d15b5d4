package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesJSON(t *testing.T) {
	var term, js bytes.Buffer
	l := New(&term, WithJSON(&js), WithoutColor())
	l.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.LogBooking("CREATE", 42, "confirmed")

	var entry Entry
	require.NoError(t, json.Unmarshal(js.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "BOOKING", entry.Category)
	assert.Equal(t, "[CREATE] 42 - confirmed", entry.Message)
	assert.Equal(t, "2025-01-02T03:04:05.000Z", entry.Timestamp)
	assert.Contains(t, term.String(), "03:04:05")
	assert.Contains(t, term.String(), "[CREATE] 42 - confirmed")
}

func TestLogger_LevelFilter(t *testing.T) {
	var term bytes.Buffer
	l := New(&term, WithLevel(WARN), WithoutColor())

	l.Info("API", "hidden")
	l.Error("API", "shown")

	assert.NotContains(t, term.String(), "hidden")
	assert.Equal(t, 1, strings.Count(term.String(), "\n"))
}

func TestLogger_Nil(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Error("X", "nothing") })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("WARNING"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel(""))
}

func TestOpen_File(t *testing.T) {
	dir := t.TempDir()
	l, closer, err := Open(dir, "api", "warn")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, WARN, l.minLevel)
	assert.NotNil(t, l.jsonOut)
}

func TestOpen_Stdout(t *testing.T) {
	l, closer, err := Open("", "api", "debug")
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Nil(t, l.jsonOut)
}
