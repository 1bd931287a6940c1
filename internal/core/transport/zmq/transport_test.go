package zmq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/types"
)

// newTestTransport 创建测试传输
func newTestTransport(t *testing.T) *Transport {
	t.Helper()
	tr, err := New(DefaultConfig())
	require.NoError(t, err)
	return tr
}

// TestTransport_RouterDealer 测试 DEALER 到 ROUTER 的多帧消息与路由标识
func TestTransport_RouterDealer(t *testing.T) {
	tr := newTestTransport(t)

	ib, err := tr.Bind("tcp://127.0.0.1:0")
	require.NoError(t, err)
	defer ib.Close()

	_, port, err := types.ParseEndpoint(ib.Endpoint())
	require.NoError(t, err)
	assert.NotZero(t, port)

	id := types.NewNodeID()
	mb, err := tr.Dial(id.RoutingID(), ib.Endpoint())
	require.NoError(t, err)
	defer mb.Close()

	require.NoError(t, mb.Send([][]byte{[]byte("header"), []byte("payload")}))

	select {
	case msg := <-ib.Recv():
		require.Len(t, msg, 3)
		from, err := types.NodeIDFromRoutingID(msg[0])
		require.NoError(t, err)
		assert.Equal(t, id, from)
		assert.Equal(t, []byte("header"), msg[1])
		assert.Equal(t, []byte("payload"), msg[2])
	case <-time.After(5 * time.Second):
		t.Fatal("超时未收到消息")
	}
}

// TestTransport_InvalidEndpoint 测试非法 endpoint 立即失败
func TestTransport_InvalidEndpoint(t *testing.T) {
	tr := newTestTransport(t)

	_, err := tr.Bind("127.0.0.1:0")
	assert.ErrorIs(t, err, pkgif.ErrInvalidEndpoint)

	_, err = tr.Dial([]byte{1}, "tcp://nohost")
	assert.ErrorIs(t, err, pkgif.ErrInvalidEndpoint)
}

// TestMailbox_Close 测试关闭后的发送与重复关闭
func TestMailbox_Close(t *testing.T) {
	tr := newTestTransport(t)

	mb, err := tr.Dial(types.NewNodeID().RoutingID(), "tcp://127.0.0.1:1")
	require.NoError(t, err)

	require.NoError(t, mb.Close())
	require.NoError(t, mb.Close())
	assert.ErrorIs(t, mb.Send([][]byte{[]byte("x")}), pkgif.ErrMailboxClosed)

	done := make(chan struct{})
	go func() {
		mb.(*mailbox).wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Log("后台拨号仍在退出中")
	}
}

// TestInbox_Close 测试关闭收件箱后通道关闭
func TestInbox_Close(t *testing.T) {
	tr := newTestTransport(t)

	ib, err := tr.Bind("tcp://127.0.0.1:0")
	require.NoError(t, err)

	require.NoError(t, ib.Close())
	_ = ib.Close()

	select {
	case _, ok := <-ib.Recv():
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("收件箱通道未关闭")
	}
}

// TestNew_InvalidConfig 测试非法配置
func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOptions(WithSendQueue(0))

	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.ApplyOptions(WithDialTimeout(time.Second), WithDialRetry(10*time.Millisecond))
	assert.NoError(t, cfg.Validate())
}

// TestMailbox_DialsLateListener 测试对端晚于拨号开始监听时消息仍能送达
func TestMailbox_DialsLateListener(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOptions(WithDialRetry(10 * time.Millisecond))
	tr, err := New(cfg)
	require.NoError(t, err)

	// 先占用再释放一个端口，拨号时无人监听
	reserved, err := tr.Bind("tcp://127.0.0.1:0")
	require.NoError(t, err)
	endpoint := reserved.Endpoint()
	require.NoError(t, reserved.Close())

	id := types.NewNodeID()
	mb, err := tr.Dial(id.RoutingID(), endpoint)
	require.NoError(t, err)
	defer mb.Close()
	require.NoError(t, mb.Send([][]byte{[]byte("hello")}))

	// 超过 zmq4 默认的 10 次重试
	time.Sleep(300 * time.Millisecond)

	ib, err := tr.Bind(endpoint)
	require.NoError(t, err)
	defer ib.Close()

	select {
	case msg := <-ib.Recv():
		require.Len(t, msg, 2)
		assert.Equal(t, id.RoutingID(), msg[0])
		assert.Equal(t, []byte("hello"), msg[1])
	case <-time.After(5 * time.Second):
		t.Fatal("监听晚于拨号时消息未送达")
	}
}

// TestConfig_MaxRetries 测试重试次数校验
func TestConfig_MaxRetries(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, -1, cfg.MaxRetries)

	cfg.ApplyOptions(WithMaxRetries(-2))
	assert.Error(t, cfg.Validate())

	cfg.ApplyOptions(WithMaxRetries(0))
	assert.NoError(t, cfg.Validate())
}
