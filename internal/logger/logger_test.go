package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	mu.Unlock()
	originalLevel := GetLevel()
	originalFormat, _ := currentFormat.Load().(string)

	InitWithWriter(buf, "", "", false)

	t.Cleanup(func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		SetLevel(originalLevel.String())
		SetFormat(originalFormat)
		reconfigure()
	})
	return buf
}

func TestDefaultLevelIsWarn(t *testing.T) {
	assert.Equal(t, LevelWarn, Level(currentLevel.Load()))
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		out := buf.String()
		assert.Contains(t, out, "debug message")
		assert.Contains(t, out, "info message")
		assert.Contains(t, out, "warn message")
		assert.Contains(t, out, "error message")
	})

	t.Run("WarnLevelFiltersDebugAndInfo", func(t *testing.T) {
		buf := captureOutput(t)
		SetLevel("WARN")

		Debug("debug message")
		Info("info message")
		Warn("warn message")

		out := buf.String()
		assert.NotContains(t, out, "debug message")
		assert.NotContains(t, out, "info message")
		assert.Contains(t, out, "warn message")
	})

	t.Run("InvalidLevelIsIgnored", func(t *testing.T) {
		_ = captureOutput(t)
		SetLevel("ERROR")
		SetLevel("LOUD")
		assert.Equal(t, LevelError, GetLevel())
	})
}

func TestTextHandler(t *testing.T) {
	t.Run("RendersKeyValuePairs", func(t *testing.T) {
		buf := captureOutput(t)
		SetFormat("text")
		SetLevel("DEBUG")

		Debug("lookup", KeyUID, uint32(1000), KeyUsername, "alice")

		out := buf.String()
		assert.Contains(t, out, "DEBUG lookup")
		assert.Contains(t, out, "uid=1000")
		assert.Contains(t, out, "username=alice")
		assert.True(t, strings.HasSuffix(out, "\n"))
	})

	t.Run("QuotesValuesWithSpaces", func(t *testing.T) {
		buf := captureOutput(t)
		SetFormat("text")

		Warn("odd", KeyPath, "/tmp/with space")
		assert.Contains(t, buf.String(), `path="/tmp/with space"`)
	})

	t.Run("FlattensGroups", func(t *testing.T) {
		buf := captureOutput(t)
		SetFormat("text")

		getLogger().With(Source("files")).WithGroup("db").Warn("read", slog.Int("line", 3))
		out := buf.String()
		assert.Contains(t, out, "source=files")
		assert.Contains(t, out, "db.line=3")
	})
}

func TestJSONFormat(t *testing.T) {
	buf := captureOutput(t)
	SetFormat("json")

	Warn("json message", KeyGID, uint32(27))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "json message", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, 27, entry["gid"])
}

func TestContextFields(t *testing.T) {
	buf := captureOutput(t)
	SetFormat("text")
	SetLevel("DEBUG")

	lc := NewLogContext("id").WithSource("files").WithOperand("alice")
	ctx := WithContext(context.Background(), lc)

	DebugCtx(ctx, "resolving")

	out := buf.String()
	assert.Contains(t, out, "command=id")
	assert.Contains(t, out, "source=files")
	assert.Contains(t, out, "operand=alice")
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Nil(t, FromContext(nil))

	lc := NewLogContext("idstore import")
	got := FromContext(WithContext(context.Background(), lc))
	require.NotNil(t, got)
	assert.Equal(t, "idstore import", got.Command)
	assert.GreaterOrEqual(t, got.Elapsed(), 0.0)
}

func TestInitWithFile(t *testing.T) {
	_ = captureOutput(t)
	path := filepath.Join(t.TempDir(), "id.log")

	require.NoError(t, Init(Config{Level: "INFO", Format: "text", Output: path}))
	Info("to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
