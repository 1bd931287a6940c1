package engine

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"

	"github.com/dep2p/go-zre/internal/core/group"
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/internal/core/peer"
	"github.com/dep2p/go-zre/internal/discovery/gossip"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
	"github.com/dep2p/go-zre/pkg/types"
)

var logger = log.Logger("core/engine")

// Deps 引擎依赖
type Deps struct {
	// Transport 收件箱与发件箱的传输实现（必需）
	Transport pkgif.Transport

	// Beacons 信标工厂，为 nil 时启动信标会失败
	Beacons pkgif.BeaconFactory

	// Clock 时钟，为 nil 时使用系统时钟
	Clock clock.Clock

	// Metrics 指标上报，为 nil 时不上报
	Metrics metrics.Reporter
}

// Engine ZRE 节点引擎
//
// 除 Request / Post / Events / Done 外的所有方法只在 Run 协程中调用。
type Engine struct {
	deps    Deps
	clock   clock.Clock
	metrics metrics.Reporter

	// 自身状态
	id          types.NodeID
	name        string
	headers     map[string]string
	status      byte
	endpoint    string
	interval    time.Duration
	beaconPort  int
	iface       string
	broadcast   string
	verbose     bool
	started     bool
	explicitEP  bool
	evasive     time.Duration
	expired     time.Duration
	tick        time.Duration

	peers      map[types.NodeID]*peer.Peer
	peerGroups *group.Registry
	ownGroups  *group.Registry

	beacon pkgif.Beacon
	inbox  pkgif.Inbox
	gossip *gossip.Service

	dropLog *rate.Limiter

	commands chan Command
	events   chan Event
	done     chan struct{}
	running  atomic.Bool
}

// New 创建引擎
func New(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewEngineError("new", err, "invalid config")
	}
	if deps.Transport == nil {
		return nil, ErrNoTransport
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}

	id := cfg.Identity
	if id.IsEmpty() {
		id = types.NewNodeID()
	}
	name := cfg.Name
	if name == "" {
		name = id.String()[:6]
	}

	e := &Engine{
		deps:        deps,
		clock:       deps.Clock,
		metrics:     deps.Metrics,
		id:          id,
		name:        name,
		headers:     make(map[string]string, len(cfg.Headers)),
		interval:    cfg.Interval,
		beaconPort:  cfg.BeaconPort,
		iface:       cfg.Interface,
		broadcast:   cfg.Broadcast,
		verbose:     cfg.Verbose,
		evasive:     cfg.Evasive,
		expired:     cfg.Expired,
		tick:        cfg.Tick,
		peers:       make(map[types.NodeID]*peer.Peer),
		peerGroups:  group.NewRegistry(),
		ownGroups:   group.NewRegistry(),
		dropLog:     rate.NewLimiter(rate.Every(time.Second), 10),
		commands:    make(chan Command, cfg.CommandBuffer),
		events:      make(chan Event, cfg.EventBuffer),
		done:        make(chan struct{}),
	}
	for k, v := range cfg.Headers {
		e.headers[k] = v
	}
	for _, g := range cfg.Groups {
		e.joinOwnGroup(g)
	}
	return e, nil
}

// ID 返回节点标识
//
// 仅在 Run 之前或 Run 协程内读取是安全的，门面通过 UUID 命令获取。
func (e *Engine) ID() types.NodeID { return e.id }

// Events 返回事件通道
//
// Run 退出后通道被关闭。
func (e *Engine) Events() <-chan Event { return e.events }

// Done 返回引擎退出信号
func (e *Engine) Done() <-chan struct{} { return e.done }

// ============================================================================
//                              命令通道
// ============================================================================

// Post 发送命令，不等待处理结果
func (e *Engine) Post(ctx context.Context, cmd Command) error {
	cmd.reply = nil
	return e.enqueue(ctx, cmd)
}

// Request 发送命令并等待应答
func (e *Engine) Request(ctx context.Context, cmd Command) ([]string, error) {
	cmd.reply = make(chan Reply, 1)
	if err := e.enqueue(ctx, cmd); err != nil {
		return nil, err
	}
	select {
	case r := <-cmd.reply:
		return r.Values, r.Err
	case <-e.done:
		// 引擎在退出前应答了最后一条命令
		select {
		case r := <-cmd.reply:
			return r.Values, r.Err
		default:
			return nil, ErrClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close 发送 $TERM 并等待事件循环退出
//
// Run 尚未运行时直接返回。
func (e *Engine) Close(ctx context.Context) error {
	if !e.running.Load() {
		return nil
	}
	if _, err := e.Request(ctx, NewCommand(OpTerm)); err != nil && !errors.Is(err, ErrClosed) {
		return err
	}
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) enqueue(ctx context.Context, cmd Command) error {
	select {
	case <-e.done:
		return ErrClosed
	default:
	}
	select {
	case e.commands <- cmd:
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
//                              事件循环
// ============================================================================

// Run 运行事件循环，直到 ctx 取消或收到 $TERM
//
// 退出前停止节点、释放套接字并关闭事件通道。
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return NewEngineError("run", ErrAlreadyStarted, "engine loop already running")
	}
	return e.loop(ctx)
}

// Go 在新协程中运行事件循环
func (e *Engine) Go(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return NewEngineError("run", ErrAlreadyStarted, "engine loop already running")
	}
	go func() {
		if err := e.loop(ctx); err != nil {
			logger.Warn("引擎退出", "err", err)
		}
	}()
	return nil
}

func (e *Engine) loop(ctx context.Context) error {
	defer close(e.done)
	defer close(e.events)

	ticker := e.clock.Ticker(e.tick)
	defer ticker.Stop()

	logger.Debug("引擎已运行", "id", e.id.ShortString(), "name", e.name)

	for {
		var signals <-chan pkgif.BeaconSignal
		if e.beacon != nil {
			signals = e.beacon.Signals()
		}
		var inbound <-chan [][]byte
		if e.inbox != nil && e.started {
			inbound = e.inbox.Recv()
		}

		select {
		case <-ctx.Done():
			return e.shutdown()

		case cmd := <-e.commands:
			if !e.handleCommand(cmd) {
				return e.shutdown()
			}

		case sig, ok := <-signals:
			if !ok {
				logger.Warn("信标通道已关闭")
				e.beacon = nil
				continue
			}
			e.handleBeacon(sig)

		case frames, ok := <-inbound:
			if !ok {
				logger.Warn("收件箱已关闭", "endpoint", e.endpoint)
				e.inbox = nil
				continue
			}
			e.handleInbox(frames)

		case <-ticker.C:
			e.sweep()
		}
	}
}

// emit 发出事件，通道满时丢弃
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.metrics.EventDropped()
		if e.dropLog.Allow() {
			logger.Warn("事件通道已满，丢弃事件", "type", ev.Type.String(), "peer", ev.Peer.ShortString())
		}
	}
}

// drop 记录被丢弃的入站数据
func (e *Engine) drop(reason string, args ...any) {
	e.metrics.MessageDropped(reason)
	if e.dropLog.Allow() {
		logger.Trace(e.verbose, "丢弃入站消息", append([]any{"reason", reason}, args...)...)
	}
}

// sortedPeers 返回按标识排序的对端快照
func (e *Engine) sortedPeers() []*peer.Peer {
	out := make([]*peer.Peer, 0, len(e.peers))
	for _, p := range e.peers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}
