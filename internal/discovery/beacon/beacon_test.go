package beacon

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-zre/pkg/types"
)

// newLoopbackService 创建发往回环地址的信标
func newLoopbackService(t *testing.T) *Service {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ApplyOptions(WithPort(0), WithInterface(AllInterfaces), WithBroadcast("127.0.0.1"))
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// sendRaw 从独立套接字发送一个 UDP 包
func sendRaw(t *testing.T, port int, payload []byte) {
	t.Helper()
	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write(payload)
	require.NoError(t, err)
}

// TestService_SelfFilter 测试自身信标不会被交付，其他节点的信标会被交付
func TestService_SelfFilter(t *testing.T) {
	s := newLoopbackService(t)
	s.Subscribe([]byte(Protocol))

	own := Packet{ID: types.NewNodeID(), Port: 50000}.Marshal()
	require.NoError(t, s.Publish(own, 20*time.Millisecond))

	// 等待若干个自身回显
	time.Sleep(100 * time.Millisecond)

	foreign := Packet{ID: types.NewNodeID(), Port: 50001}.Marshal()
	sendRaw(t, s.Port(), foreign)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case sig := <-s.Signals():
			require.NotEqual(t, own, sig.Payload, "不应交付自身信标")
			if assert.Equal(t, foreign, sig.Payload) {
				assert.Equal(t, "127.0.0.1", sig.Addr)
				return
			}
		case <-deadline:
			t.Fatal("超时未收到外部信标")
		}
	}
}

// TestService_FilterPrefix 测试过滤前缀
func TestService_FilterPrefix(t *testing.T) {
	s := newLoopbackService(t)

	// 未订阅时不交付
	sendRaw(t, s.Port(), Packet{ID: types.NewNodeID(), Port: 1}.Marshal())
	time.Sleep(50 * time.Millisecond)

	s.Subscribe([]byte(Protocol))
	sendRaw(t, s.Port(), []byte("XYZ-not-a-beacon"))
	valid := Packet{ID: types.NewNodeID(), Port: 2}.Marshal()
	sendRaw(t, s.Port(), valid)

	select {
	case sig := <-s.Signals():
		assert.Equal(t, valid, sig.Payload)
	case <-time.After(3 * time.Second):
		t.Fatal("超时未收到信标")
	}

	s.Unsubscribe()
	sendRaw(t, s.Port(), valid)
	select {
	case sig := <-s.Signals():
		t.Fatalf("取消订阅后不应交付: %x", sig.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestService_PublishErrors 测试发布参数和关闭状态
func TestService_PublishErrors(t *testing.T) {
	s := newLoopbackService(t)

	assert.ErrorIs(t, s.Publish([]byte("ZRE"), 0), ErrInvalidInterval)
	assert.NotEmpty(t, s.Hostname())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Publish([]byte("ZRE"), time.Second), ErrAlreadyClosed)

	_, ok := <-s.Signals()
	assert.False(t, ok)
}

// TestNew_InvalidConfig 测试非法配置
func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ApplyOptions(WithBroadcast("::1"))
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// TestAcceptPayload 测试过滤规则
func TestAcceptPayload(t *testing.T) {
	own := []byte("ZRE-own")
	assert.False(t, acceptPayload([]byte("ZRE-x"), nil, nil))
	assert.True(t, acceptPayload([]byte("ZRE-x"), []byte("ZRE"), own))
	assert.False(t, acceptPayload(own, []byte("ZRE"), own))
	assert.False(t, acceptPayload([]byte("ZR"), []byte("ZRE"), nil))
}

// TestService_NamedInterface 测试指定网卡时绑定该网卡并正常接收
func TestService_NamedInterface(t *testing.T) {
	ifaces, err := systemInterfaces()
	require.NoError(t, err)
	lo := ""
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp != 0 && ifc.Flags&net.FlagLoopback != 0 {
			lo = ifc.Name
			break
		}
	}
	if lo == "" {
		t.Skip("没有可用的回环网卡")
	}

	cfg := DefaultConfig()
	cfg.ApplyOptions(WithPort(0), WithInterface(lo), WithBroadcast("127.0.0.1"))
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, lo, s.route.device)
	assert.Equal(t, "127.0.0.1", s.Hostname())

	s.Subscribe([]byte(Protocol))
	foreign := Packet{ID: types.NewNodeID(), Port: 50002}.Marshal()
	sendRaw(t, s.Port(), foreign)

	select {
	case sig := <-s.Signals():
		assert.Equal(t, foreign, sig.Payload)
	case <-time.After(3 * time.Second):
		t.Fatal("超时未收到信标")
	}
}
