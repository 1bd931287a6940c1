package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	cases := map[string]any{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"":        LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

// TestLazyLogger_Trace 测试 verbose 开关对 Trace 的影响
func TestLazyLogger_Trace(t *testing.T) {
	prev := Default()
	prevLevel := GetLevel()
	t.Cleanup(func() {
		SetDefault(prev)
		SetLevel(prevLevel)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)

	l := Logger("test/trace")
	l.Trace(false, "quiet")
	assert.Empty(t, buf.String())

	l.Trace(true, "loud", "k", "v")
	out := buf.String()
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "component=test/trace")
	assert.Contains(t, out, "k=v")
}

// TestTruncateID 测试 ID 截取
func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateID("abcdefghij", 8))
}
