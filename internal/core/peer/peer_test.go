package peer

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-zre/internal/core/transport/memory"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

func setup(t *testing.T) (*memory.Network, pkgif.Inbox, *Peer, types.NodeID) {
	t.Helper()
	n := memory.NewNetwork()
	ib, err := n.Bind("tcp://127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ib.Close() })

	p := New(types.NewNodeID(), clock.NewMock(), 0, 0)
	return n, ib, p, types.NewNodeID()
}

func recvFrames(t *testing.T, ib pkgif.Inbox) [][]byte {
	t.Helper()
	select {
	case f := <-ib.Recv():
		return f
	case <-time.After(time.Second):
		t.Fatal("超时未收到消息")
		return nil
	}
}

// TestPeer_ConnectSend 测试连接并发送，序列号递增
func TestPeer_ConnectSend(t *testing.T) {
	n, ib, p, self := setup(t)

	require.NoError(t, p.Connect(n, self, ib.Endpoint()))
	assert.True(t, p.Connected())
	assert.False(t, p.Ready())
	assert.Equal(t, ib.Endpoint(), p.Endpoint())

	p.Send(message.NewPing())
	p.Send(message.NewWhisper([]byte("hi")))

	f := recvFrames(t, ib)
	assert.Equal(t, self.RoutingID(), f[0])
	m, err := message.Decode(f[1:])
	require.NoError(t, err)
	assert.Equal(t, message.TypePing, m.Type)
	assert.Equal(t, uint16(1), m.Sequence)

	f = recvFrames(t, ib)
	m, err = message.Decode(f[1:])
	require.NoError(t, err)
	assert.Equal(t, message.TypeWhisper, m.Type)
	assert.Equal(t, uint16(2), m.Sequence)
	assert.Equal(t, [][]byte{[]byte("hi")}, m.Content)
}

// TestPeer_ConnectTwice 测试重复连接
func TestPeer_ConnectTwice(t *testing.T) {
	n, ib, p, self := setup(t)

	require.NoError(t, p.Connect(n, self, ib.Endpoint()))
	assert.ErrorIs(t, p.Connect(n, self, ib.Endpoint()), ErrAlreadyConnected)
}

// TestPeer_ConnectInvalid 测试非法 endpoint 返回 ConnectionError
func TestPeer_ConnectInvalid(t *testing.T) {
	n, _, p, self := setup(t)

	err := p.Connect(n, self, "not-an-endpoint")
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "not-an-endpoint", ce.Endpoint)
	assert.ErrorIs(t, err, pkgif.ErrInvalidEndpoint)
	assert.False(t, p.Connected())

	// 未连接时发送是空操作
	assert.NotPanics(t, func() { p.Send(message.NewPing()) })
}

// TestPeer_Disconnect 测试断开可重复调用
func TestPeer_Disconnect(t *testing.T) {
	n, ib, p, self := setup(t)

	require.NoError(t, p.Connect(n, self, ib.Endpoint()))
	p.SetReady(true)

	p.Disconnect()
	assert.False(t, p.Connected())
	assert.False(t, p.Ready())
	assert.Empty(t, p.Endpoint())

	assert.NotPanics(t, p.Disconnect)
}

// TestPeer_MessageLost 测试序列号校验
func TestPeer_MessageLost(t *testing.T) {
	p := New(types.NewNodeID(), clock.NewMock(), 0, 0)

	hello := message.NewHello("tcp://127.0.0.1:1", nil, 0, "a", nil)
	hello.Sequence = 1
	assert.False(t, p.MessageLost(hello))

	ping := message.NewPing()
	ping.Sequence = 2
	assert.False(t, p.MessageLost(ping))

	// 跳号
	ping = message.NewPing()
	ping.Sequence = 4
	assert.True(t, p.MessageLost(ping))

	// HELLO 总是重置为 1
	hello.Sequence = 1
	assert.False(t, p.MessageLost(hello))

	hello.Sequence = 7
	assert.True(t, p.MessageLost(hello))
}

// TestPeer_SequenceWraps 测试 16 位序列号回绕
func TestPeer_SequenceWraps(t *testing.T) {
	p := New(types.NewNodeID(), clock.NewMock(), 0, 0)
	p.wantSequence = 0xFFFF

	m := message.NewPing()
	m.Sequence = 0
	assert.False(t, p.MessageLost(m))
}

// TestPeer_Liveness 测试 evasive 与过期判断
func TestPeer_Liveness(t *testing.T) {
	clk := clock.NewMock()
	p := New(types.NewNodeID(), clk, 10*time.Second, 30*time.Second)
	p.Refresh()

	t0 := clk.Now()
	assert.Equal(t, t0.Add(10*time.Second), p.EvasiveAt())
	assert.Equal(t, t0.Add(30*time.Second), p.ExpiredAt())

	clk.Add(9 * time.Second)
	assert.False(t, p.MarkEvasive(clk.Now()))

	clk.Add(time.Second)
	assert.True(t, p.MarkEvasive(clk.Now()))
	assert.False(t, p.MarkEvasive(clk.Now()), "evasive 只触发一次")
	assert.False(t, p.Expired(clk.Now()))

	clk.Add(20 * time.Second)
	assert.True(t, p.Expired(clk.Now()))

	p.Refresh()
	assert.False(t, p.Expired(clk.Now()))
	clk.Add(10 * time.Second)
	assert.True(t, p.MarkEvasive(clk.Now()), "刷新后可再次触发")
}

// TestPeer_Attributes 测试属性读写
func TestPeer_Attributes(t *testing.T) {
	p := New(types.NewNodeID(), nil, 0, 0)

	p.SetName("bob")
	p.SetHeaders(map[string]string{"X-A": "1"})
	p.SetStatus(254)
	p.IncStatus()
	p.IncStatus()

	assert.Equal(t, "bob", p.Name())
	assert.Equal(t, byte(0), p.Status())

	v, ok := p.Header("X-A")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	h := p.Headers()
	h["X-A"] = "changed"
	v, _ = p.Header("X-A")
	assert.Equal(t, "1", v, "Headers 返回副本")
}

// TestPeer_Entered 测试 ENTER 标记不随断开清除
func TestPeer_Entered(t *testing.T) {
	_, _, p, _ := setup(t)
	assert.False(t, p.Entered())

	p.SetEntered()
	p.Disconnect()
	assert.True(t, p.Entered())
}
