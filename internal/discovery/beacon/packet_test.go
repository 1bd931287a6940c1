package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-zre/pkg/types"
)

// TestPacket_RoundTrip 测试信标编解码
func TestPacket_RoundTrip(t *testing.T) {
	id := types.NewNodeID()
	p := Packet{ID: id, Port: 0xc001}

	b := p.Marshal()
	require.Len(t, b, 22)
	assert.Equal(t, []byte("ZRE"), b[:3])
	assert.Equal(t, PacketVersion, b[3])
	assert.Equal(t, []byte{0xc0, 0x01}, b[20:])

	back, err := ParsePacket(b)
	require.NoError(t, err)
	assert.Equal(t, p, back)
	assert.False(t, back.Withdrawal())
}

// TestPacket_Withdrawal 测试端口为 0 的退出信标
func TestPacket_Withdrawal(t *testing.T) {
	back, err := ParsePacket(Packet{ID: types.NewNodeID()}.Marshal())
	require.NoError(t, err)
	assert.True(t, back.Withdrawal())
}

// TestParsePacket_Invalid 测试非法信标被拒绝
func TestParsePacket_Invalid(t *testing.T) {
	good := Packet{ID: types.NewNodeID(), Port: 1}.Marshal()

	badProto := append([]byte{}, good...)
	badProto[0] = 'X'

	badVersion := append([]byte{}, good...)
	badVersion[3] = 2

	for name, b := range map[string][]byte{
		"short":   good[:21],
		"long":    append(append([]byte{}, good...), 0),
		"proto":   badProto,
		"version": badVersion,
		"empty":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePacket(b)
			assert.ErrorIs(t, err, ErrInvalidPacket)
		})
	}
}
