package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/internal/testutil"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

func request(t *testing.T, e *Engine, op Op, args ...string) ([]string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return e.Request(ctx, NewCommand(op, args...))
}

func running(t *testing.T, opts ...ConfigOption) *fixture {
	t.Helper()
	f := newFixture(t, opts...)
	require.NoError(t, f.engine.Go(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		f.engine.Close(ctx)
	})
	return f
}

// TestControl_Getters 测试名称与标识命令
func TestControl_Getters(t *testing.T) {
	f := running(t)
	e := f.engine

	v, err := request(t, e, OpName)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, v)

	_, err = request(t, e, OpSetName, "carol")
	require.NoError(t, err)
	v, _ = request(t, e, OpName)
	assert.Equal(t, []string{"carol"}, v)

	id := types.NewNodeID()
	_, err = request(t, e, OpSetUUID, id.String())
	require.NoError(t, err)
	v, _ = request(t, e, OpUUID)
	assert.Equal(t, []string{id.String()}, v)

	_, err = request(t, e, OpSetUUID, "zzz")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	_, err = request(t, e, OpStart)
	require.NoError(t, err)
	_, err = request(t, e, OpSetUUID, types.NewNodeID().String())
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	_, err = request(t, e, OpStart)
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

// TestControl_DefaultName 测试默认名称取 UUID 前 6 个字符
func TestControl_DefaultName(t *testing.T) {
	id := types.NewNodeID()
	f := running(t, WithName(""), WithIdentity(id))

	v, err := request(t, f.engine, OpName)
	require.NoError(t, err)
	assert.Equal(t, []string{id.String()[:6]}, v)
}

// TestControl_UnknownCommand 测试未知命令
func TestControl_UnknownCommand(t *testing.T) {
	f := running(t)

	_, err := request(t, f.engine, Op("FROBNICATE"))
	assert.ErrorIs(t, err, ErrUnknownCommand)

	// 引擎仍然正常
	_, err = request(t, f.engine, OpName)
	assert.NoError(t, err)
}

// TestControl_PeerQueries 测试对端查询
func TestControl_PeerQueries(t *testing.T) {
	f := running(t)
	e := f.engine

	_, err := request(t, e, OpStart)
	require.NoError(t, err)

	_, err = request(t, e, OpPeerEndpoint, types.NewNodeID().String())
	assert.ErrorIs(t, err, ErrUnknownPeer)
	_, err = request(t, e, OpPeerName, "bad")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	// 远端握手
	// START 的应答返回之后读取 endpoint 是安全的
	mb, err := f.net.Dial(f.remoteID.RoutingID(), e.endpoint)
	require.NoError(t, err)
	hello := message.NewHello(f.remoteInbox.Endpoint(), []string{"room"}, 0, "bob", map[string]string{"K": "V"})
	hello.Sequence = 1
	frames, err := message.Encode(hello)
	require.NoError(t, err)
	require.NoError(t, mb.Send(frames))

	testutil.WaitFor(t, e.Events(), time.Second, func(ev Event) bool {
		return ev.Type == types.EventEnter
	}, "等待 ENTER")

	id := f.remoteID.String()
	v, err := request(t, e, OpPeers)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, v)

	v, _ = request(t, e, OpPeerEndpoint, id)
	assert.Equal(t, []string{f.remoteInbox.Endpoint()}, v)
	v, _ = request(t, e, OpPeerName, id)
	assert.Equal(t, []string{"bob"}, v)
	v, _ = request(t, e, OpPeerHeader, id, "K")
	assert.Equal(t, []string{"V"}, v)
	v, _ = request(t, e, OpPeerHeader, id, "missing")
	assert.Equal(t, []string{""}, v)
	v, _ = request(t, e, OpPeerGroups)
	assert.Equal(t, []string{"room"}, v)

	_, err = request(t, e, OpDump)
	assert.NoError(t, err)
}

// TestControl_JoinLeave 测试 JOIN / LEAVE 广播并递增状态
func TestControl_JoinLeave(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.hello()
	f.received()

	e := f.engine
	e.handleCommand(NewCommand(OpJoin, "room"))
	m := f.received()
	assert.Equal(t, message.TypeJoin, m.Type)
	assert.Equal(t, "room", m.Group)
	assert.Equal(t, byte(1), m.Status)

	e.handleCommand(NewCommand(OpJoin, "room"))
	f.noMessage()

	e.handleCommand(NewCommand(OpLeave, "room"))
	m = f.received()
	assert.Equal(t, message.TypeLeave, m.Type)
	assert.Equal(t, byte(2), m.Status)
	assert.Empty(t, e.ownGroups.Names())

	e.handleCommand(NewCommand(OpLeave, "room"))
	f.noMessage()
}

// TestControl_WhisperShout 测试 WHISPER 与 SHOUT 路由
func TestControl_WhisperShout(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.hello("room")
	f.received()

	e := f.engine
	e.handleCommand(NewCommand(OpWhisper, f.remoteID.String()).WithContent([]byte("hi")))
	m := f.received()
	assert.Equal(t, message.TypeWhisper, m.Type)
	assert.Equal(t, [][]byte{[]byte("hi")}, m.Content)

	e.handleCommand(NewCommand(OpShout, "room").WithContent([]byte("all")))
	m = f.received()
	assert.Equal(t, message.TypeShout, m.Type)
	assert.Equal(t, "room", m.Group)
	assert.Equal(t, uint16(3), m.Sequence)

	// 未知对端和群组静默丢弃
	e.handleCommand(NewCommand(OpWhisper, types.NewNodeID().String()).WithContent([]byte("x")))
	e.handleCommand(NewCommand(OpShout, "nowhere").WithContent([]byte("x")))
	f.noMessage()

	assert.GreaterOrEqual(t, f.rec.sent["SHOUT"], 1)
}

// TestControl_SetEndpoint 测试显式 endpoint 与 gossip
func TestControl_SetEndpoint(t *testing.T) {
	f := running(t)
	e := f.engine

	_, err := request(t, e, OpSetPort, "0")
	require.NoError(t, err)
	_, err = request(t, e, OpStart)
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, err = request(t, e, OpSetEndpoint, "tcp://127.0.0.1:7000")
	require.NoError(t, err)
	_, err = request(t, e, OpSetEndpoint, "tcp://127.0.0.1:7001")
	assert.ErrorIs(t, err, ErrEndpointBind)

	_, err = request(t, e, OpGossipBind, "tcp://127.0.0.1:7100")
	require.NoError(t, err)
	_, err = request(t, e, OpGossipConnect, "")
	assert.Error(t, err)

	_, err = request(t, e, OpStart)
	require.NoError(t, err)
	assert.Equal(t, 0, f.hub.Members(), "gossip 模式不使用信标")

	_, err = request(t, e, OpStop)
	require.NoError(t, err)
	ev := testutil.WaitFor(t, e.Events(), time.Second, func(ev Event) bool {
		return ev.Type == types.EventStop
	}, "等待 STOP")
	assert.Equal(t, e.ID(), ev.Peer)

	// 显式 endpoint 在 STOP 后保留
	_, err = request(t, e, OpStart)
	assert.NoError(t, err)
}

// TestControl_SetCommands 测试设置类命令的参数校验
func TestControl_SetCommands(t *testing.T) {
	f := running(t)
	e := f.engine

	_, err := request(t, e, OpSetHeader, "only-key")
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = request(t, e, OpSetHeader, "X-A", "1")
	assert.NoError(t, err)

	_, err = request(t, e, OpSetInterval, "-5")
	assert.ErrorIs(t, err, ErrMissingArgument)
	_, err = request(t, e, OpSetInterval, "50")
	assert.NoError(t, err)

	_, err = request(t, e, OpSetPort, "70000")
	assert.Error(t, err)

	_, err = request(t, e, OpSetVerbose)
	assert.NoError(t, err)
	_, err = request(t, e, OpSetInterface, "lo")
	assert.NoError(t, err)
	_, err = request(t, e, OpJoin)
	assert.ErrorIs(t, err, ErrMissingArgument)

	v, err := request(t, e, OpOwnGroups)
	require.NoError(t, err)
	assert.Empty(t, v)
}

// TestEngine_Close 测试终止后命令通道与事件通道
func TestEngine_Close(t *testing.T) {
	f := newFixture(t)
	e := f.engine
	require.NoError(t, e.Go(context.Background()))

	_, err := request(t, e, OpStart)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.Close(ctx))

	<-e.Done()
	for range e.Events() {
	}

	_, err = request(t, e, OpName)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 0, f.hub.Members(), "退出时关闭信标")
	assert.ErrorIs(t, e.Go(context.Background()), ErrAlreadyStarted)
}

// TestEngine_StopWithdraws 测试 STOP 发送零端口信标
func TestEngine_StopWithdraws(t *testing.T) {
	f := newFixture(t)
	f.start()
	f.hello()
	f.event()

	watcher := f.hub.Join()
	watcher.Subscribe([]byte("ZRE"))

	require.NoError(t, f.engine.stop())

	sig := testutil.WaitFor(t, watcher.Signals(), time.Second, func(s pkgif.BeaconSignal) bool {
		return len(s.Payload) == 22
	}, "等待退出信标")
	assert.Equal(t, []byte{0, 0}, sig.Payload[20:])

	assert.Equal(t, types.EventExit, f.event().Type)
	assert.Equal(t, types.EventStop, f.event().Type)
	assert.Equal(t, 1, f.rec.evicted[metrics.ReasonStopped])
	assert.Empty(t, f.engine.endpoint)
	require.NoError(t, watcher.Close())
}
