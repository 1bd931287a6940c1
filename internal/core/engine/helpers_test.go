package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-zre/internal/core/transport/memory"
	"github.com/dep2p/go-zre/internal/discovery/beacon"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// recorder 记录上报的指标
type recorder struct {
	mu      sync.Mutex
	peers   int
	dropped map[string]int
	evicted map[string]int
	sent    map[string]int
	recv    map[string]int
	events  int
}

func newRecorder() *recorder {
	return &recorder{
		dropped: make(map[string]int),
		evicted: make(map[string]int),
		sent:    make(map[string]int),
		recv:    make(map[string]int),
	}
}

func (r *recorder) SetPeers(n int) { r.mu.Lock(); r.peers = n; r.mu.Unlock() }
func (r *recorder) MessageReceived(t string) {
	r.mu.Lock()
	r.recv[t]++
	r.mu.Unlock()
}
func (r *recorder) MessageSent(t string) {
	r.mu.Lock()
	r.sent[t]++
	r.mu.Unlock()
}
func (r *recorder) MessageDropped(reason string) {
	r.mu.Lock()
	r.dropped[reason]++
	r.mu.Unlock()
}
func (r *recorder) PeerEvicted(reason string) {
	r.mu.Lock()
	r.evicted[reason]++
	r.mu.Unlock()
}
func (r *recorder) BeaconReceived() {}
func (r *recorder) EventDropped() {
	r.mu.Lock()
	r.events++
	r.mu.Unlock()
}

// fixture 一个引擎加一个手动驱动的远端
type fixture struct {
	t      *testing.T
	net    *memory.Network
	hub    *beacon.Hub
	clk    *clock.Mock
	rec    *recorder
	engine *Engine

	remoteID    types.NodeID
	remoteInbox pkgif.Inbox
	remoteSeq   uint16
}

func newFixture(t *testing.T, opts ...ConfigOption) *fixture {
	t.Helper()

	f := &fixture{
		t:        t,
		net:      memory.NewNetwork(),
		hub:      beacon.NewHub(),
		clk:      clock.NewMock(),
		rec:      newRecorder(),
		remoteID: types.NewNodeID(),
	}

	cfg := DefaultConfig()
	cfg.ApplyOptions(WithName("alice"), WithInterval(time.Hour))
	cfg.ApplyOptions(opts...)

	e, err := New(cfg, Deps{
		Transport: f.net,
		Beacons:   f.hub.Factory(),
		Clock:     f.clk,
		Metrics:   f.rec,
	})
	require.NoError(t, err)
	f.engine = e

	ib, err := f.net.Bind("tcp://127.0.0.1:0")
	require.NoError(t, err)
	f.remoteInbox = ib
	t.Cleanup(func() {
		ib.Close()
		e.shutdown()
	})
	return f
}

// start 直接启动引擎（不运行事件循环）
func (f *fixture) start() {
	f.t.Helper()
	require.NoError(f.t, f.engine.start())
}

// deliver 以远端身份投递一条消息，序列号自动递增
func (f *fixture) deliver(m *message.Message) {
	f.t.Helper()
	if m.Type == message.TypeHello {
		f.remoteSeq = 0
	}
	f.remoteSeq++
	m.Sequence = f.remoteSeq
	f.deliverRaw(m)
}

func (f *fixture) deliverRaw(m *message.Message) {
	f.t.Helper()
	frames, err := message.Encode(m)
	require.NoError(f.t, err)
	f.engine.handleInbox(append([][]byte{f.remoteID.RoutingID()}, frames...))
}

// hello 完成握手
func (f *fixture) hello(groups ...string) {
	f.t.Helper()
	f.deliver(message.NewHello(f.remoteInbox.Endpoint(), groups, 0, "bob", map[string]string{"X-Role": "test"}))
}

// received 读取远端收件箱中的下一条消息
func (f *fixture) received() *message.Message {
	f.t.Helper()
	select {
	case frames := <-f.remoteInbox.Recv():
		require.Equal(f.t, f.engine.id.RoutingID(), frames[0])
		m, err := message.Decode(frames[1:])
		require.NoError(f.t, err)
		return m
	case <-time.After(time.Second):
		f.t.Fatal("远端未收到消息")
		return nil
	}
}

// noMessage 确认远端没有收到消息
func (f *fixture) noMessage() {
	f.t.Helper()
	select {
	case frames := <-f.remoteInbox.Recv():
		m, _ := message.Decode(frames[1:])
		f.t.Fatalf("不应收到消息: %v", m)
	case <-time.After(20 * time.Millisecond):
	}
}

// event 读取下一个事件（引擎未运行时事件同步写入缓冲通道）
func (f *fixture) event() Event {
	f.t.Helper()
	select {
	case ev := <-f.engine.events:
		return ev
	default:
		f.t.Fatal("没有待读的事件")
		return Event{}
	}
}

// noEvent 确认没有待读的事件
func (f *fixture) noEvent() {
	f.t.Helper()
	select {
	case ev := <-f.engine.events:
		f.t.Fatalf("不应有事件: %v", ev)
	default:
	}
}

func (f *fixture) remotePeerReady() bool {
	p, ok := f.engine.peers[f.remoteID]
	return ok && p.Ready()
}
