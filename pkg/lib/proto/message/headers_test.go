package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPackHeaders_RoundTrip 测试头部打包往返
func TestPackHeaders_RoundTrip(t *testing.T) {
	in := map[string]string{
		"X-HELLO": "world",
		"X-名字":    "爱丽丝",
		"empty":   "",
	}

	packed, err := PackHeaders(in)
	require.NoError(t, err)

	out, err := UnpackHeaders(packed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// TestPackHeaders_Layout 测试打包布局
func TestPackHeaders_Layout(t *testing.T) {
	packed, err := PackHeaders(map[string]string{"k": "vv"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 'k', 0, 0, 0, 2, 'v', 'v'}, packed)
}

// TestPackHeaders_Empty 测试空头部
func TestPackHeaders_Empty(t *testing.T) {
	packed, err := PackHeaders(nil)
	require.NoError(t, err)
	assert.Empty(t, packed)

	out, err := UnpackHeaders(packed)
	require.NoError(t, err)
	assert.Empty(t, out)
}

// TestUnpackHeaders_Malformed 测试未能完整消费的缓冲区被拒绝
func TestUnpackHeaders_Malformed(t *testing.T) {
	packed, err := PackHeaders(map[string]string{"key": "value"})
	require.NoError(t, err)

	tests := map[string][]byte{
		"trailing byte": append(append([]byte{}, packed...), 0x00),
		"truncated":     packed[:len(packed)-1],
		"key overrun":   {0, 9, 'a'},
		"value overrun": {0, 1, 'a', 0, 0, 0, 9, 'b'},
		"bad utf8":      {0, 1, 0xff, 0, 0, 0, 0},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UnpackHeaders(data)
			assert.ErrorIs(t, err, ErrInvalidHeaders)
		})
	}
}
