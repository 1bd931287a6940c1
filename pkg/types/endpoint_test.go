package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseEndpoint 测试 endpoint 解析
func TestParseEndpoint(t *testing.T) {
	host, port, err := ParseEndpoint("tcp://192.168.1.5:49152")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.5", host)
	assert.Equal(t, 49152, port)

	host, port, err = ParseEndpoint("tcp://[::1]:0")
	require.NoError(t, err)
	assert.Equal(t, "::1", host)
	assert.Equal(t, 0, port)

	for _, bad := range []string{"", "udp://1.2.3.4:5", "tcp://1.2.3.4", "tcp://:5", "tcp://h:99999", "tcp://h:x"} {
		_, _, err := ParseEndpoint(bad)
		assert.ErrorIs(t, err, ErrInvalidEndpoint, bad)
	}
}

// TestFormatEndpoint 测试 endpoint 生成
func TestFormatEndpoint(t *testing.T) {
	assert.Equal(t, "tcp://10.0.0.1:5670", FormatEndpoint("10.0.0.1", 5670))
	assert.Equal(t, "tcp://[::1]:80", FormatEndpoint("::1", 80))
}
