package zre

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-zre/internal/core/engine"
	"github.com/dep2p/go-zre/pkg/lib/log"
)

var logger = log.Logger("zre")

// ════════════════════════════════════════════════════════════════════════════
//                              节点状态
// ════════════════════════════════════════════════════════════════════════════

// NodeState 节点状态
type NodeState int

const (
	// StateIdle 已创建，未启动
	StateIdle NodeState = iota
	// StateStarted 正在广播并接收消息
	StateStarted
	// StateStopped 已停止，可以再次启动
	StateStopped
	// StateClosed 已关闭，不可再用
	StateClosed
)

// String 返回状态名称
func (s NodeState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              Node
// ════════════════════════════════════════════════════════════════════════════

// Node ZRE 节点
//
// 所有方法都是线程安全的：每个调用被转为一条命令交给引擎协程处理，
// 需要结果的调用阻塞到引擎应答或 ctx 取消。
type Node struct {
	app    *fx.App
	engine *engine.Engine

	events  chan Event
	closing chan struct{}
	pumped  chan struct{}

	mu    sync.Mutex
	state NodeState
	uuid  string
}

// New 创建节点
//
// 引擎的事件循环随之运行，但节点尚未广播信标，需要再调用 Start。
// 在 Start 之前可以设置名称、标识、头部并加入群组。
func New(ctx context.Context, opts ...Option) (*Node, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, fmt.Errorf("apply options: %w", err)
	}

	n := &Node{
		events:  make(chan Event, o.config.Events.Buffer),
		closing: make(chan struct{}),
		pumped:  make(chan struct{}),
	}

	app, err := buildFxApp(o, n)
	if err != nil {
		return nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("start fx app: %w", err)
	}
	n.app = app

	go n.pump()

	logger.Debug("节点已创建", "id", n.engine.ID().ShortString())
	return n, nil
}

// Start 创建并启动节点
//
// 等价于 New 之后调用 Node.Start。
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	n, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		return nil, multierr.Append(err, n.Close(ctx))
	}
	return n, nil
}

// State 返回节点状态
func (n *Node) State() NodeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Events 返回事件通道
//
// Close 之后通道被关闭。调用方不读取时引擎会丢弃新事件。
func (n *Node) Events() <-chan Event {
	return n.events
}

// ════════════════════════════════════════════════════════════════════════════
//                              生命周期
// ════════════════════════════════════════════════════════════════════════════

// Start 开始广播信标并接收消息
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateClosed:
		return ErrNodeClosed
	case StateStarted:
		return ErrAlreadyStarted
	}
	if _, err := n.engine.Request(ctx, engine.NewCommand(engine.OpStart)); err != nil {
		return err
	}
	n.state = StateStarted
	return nil
}

// Stop 停止节点
//
// 通知局域网内的对端本节点离开，移除所有对端。之后可以再次 Start。
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case StateClosed:
		return ErrNodeClosed
	case StateIdle, StateStopped:
		return ErrNotStarted
	}
	if _, err := n.engine.Request(ctx, engine.NewCommand(engine.OpStop)); err != nil {
		return err
	}
	n.state = StateStopped
	return nil
}

// Close 关闭节点并释放所有资源
//
// 已启动的节点先被停止。可重复调用。
func (n *Node) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.state == StateClosed {
		n.mu.Unlock()
		return nil
	}
	n.state = StateClosed
	n.mu.Unlock()

	logger.Debug("正在关闭节点", "id", n.engine.ID().ShortString())

	err := n.app.Stop(ctx)
	close(n.closing)
	<-n.pumped
	return err
}

// pump 把引擎事件转为公共事件
func (n *Node) pump() {
	defer close(n.pumped)
	defer close(n.events)

	source := n.engine.Events()
	for {
		select {
		case ev, ok := <-source:
			if !ok {
				return
			}
			select {
			case n.events <- convertEvent(ev):
			case <-n.closing:
				return
			}
		case <-n.closing:
			return
		}
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              自身信息
// ════════════════════════════════════════════════════════════════════════════

// UUID 返回节点标识（32 位大写十六进制）
//
// 启动后标识不再变化，结果被缓存。
func (n *Node) UUID(ctx context.Context) (string, error) {
	n.mu.Lock()
	cached := n.uuid
	n.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	id, err := n.single(ctx, engine.NewCommand(engine.OpUUID))
	if err != nil {
		return "", err
	}

	n.mu.Lock()
	if n.state == StateStarted {
		n.uuid = id
	}
	n.mu.Unlock()
	return id, nil
}

// SetUUID 设置节点标识，仅在 Start 之前有效
func (n *Node) SetUUID(ctx context.Context, id string) error {
	if err := n.request(ctx, engine.NewCommand(engine.OpSetUUID, id)); err != nil {
		return err
	}
	n.mu.Lock()
	n.uuid = ""
	n.mu.Unlock()
	return nil
}

// Name 返回节点名称
func (n *Node) Name(ctx context.Context) (string, error) {
	return n.single(ctx, engine.NewCommand(engine.OpName))
}

// SetName 设置节点名称
func (n *Node) SetName(ctx context.Context, name string) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetName, name))
}

// SetHeader 设置随 HELLO 发送的头部，只影响之后建立的握手
func (n *Node) SetHeader(ctx context.Context, key, value string) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetHeader, key, value))
}

// SetInterval 设置信标广播间隔（毫秒精度）
func (n *Node) SetInterval(ctx context.Context, d time.Duration) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetInterval, strconv.FormatInt(d.Milliseconds(), 10)))
}

// SetVerbose 开关协议跟踪日志
func (n *Node) SetVerbose(ctx context.Context, verbose bool) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetVerbose, strconv.FormatBool(verbose)))
}

// SetPort 设置信标端口，在下一次 Start 时生效
func (n *Node) SetPort(ctx context.Context, port int) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetPort, strconv.Itoa(port)))
}

// SetInterface 设置信标网卡，在下一次 Start 时生效
func (n *Node) SetInterface(ctx context.Context, name string) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetInterface, name))
}

// SetEndpoint 在显式 endpoint 上绑定收件箱
//
// 同时禁用 UDP 信标，对端需要通过 gossip 或其他方式得知本节点。
func (n *Node) SetEndpoint(ctx context.Context, endpoint string) error {
	return n.request(ctx, engine.NewCommand(engine.OpSetEndpoint, endpoint))
}

// GossipBind 记录 gossip 绑定 endpoint
func (n *Node) GossipBind(ctx context.Context, endpoint string) error {
	return n.request(ctx, engine.NewCommand(engine.OpGossipBind, endpoint))
}

// GossipConnect 记录 gossip 连接 endpoint
func (n *Node) GossipConnect(ctx context.Context, endpoint string) error {
	return n.request(ctx, engine.NewCommand(engine.OpGossipConnect, endpoint))
}

// Dump 把节点状态输出到日志
func (n *Node) Dump(ctx context.Context) error {
	return n.request(ctx, engine.NewCommand(engine.OpDump))
}

// ════════════════════════════════════════════════════════════════════════════
//                              群组与消息
// ════════════════════════════════════════════════════════════════════════════

// Join 加入群组，重复加入无效果
func (n *Node) Join(ctx context.Context, group string) error {
	return n.request(ctx, engine.NewCommand(engine.OpJoin, group))
}

// Leave 离开群组，未加入时无效果
func (n *Node) Leave(ctx context.Context, group string) error {
	return n.request(ctx, engine.NewCommand(engine.OpLeave, group))
}

// Whisper 发送消息给单个对端
//
// 对端不存在时消息被静默丢弃。
func (n *Node) Whisper(ctx context.Context, peer string, content ...[]byte) error {
	return n.request(ctx, engine.NewCommand(engine.OpWhisper, peer).WithContent(content...))
}

// WhisperString 发送单帧字符串消息给单个对端
func (n *Node) WhisperString(ctx context.Context, peer, text string) error {
	return n.Whisper(ctx, peer, []byte(text))
}

// Shout 发送消息给群组内所有对端
//
// 群组中没有对端时消息被静默丢弃。
func (n *Node) Shout(ctx context.Context, group string, content ...[]byte) error {
	return n.request(ctx, engine.NewCommand(engine.OpShout, group).WithContent(content...))
}

// ShoutString 发送单帧字符串消息给群组
func (n *Node) ShoutString(ctx context.Context, group, text string) error {
	return n.Shout(ctx, group, []byte(text))
}

// ════════════════════════════════════════════════════════════════════════════
//                              查询
// ════════════════════════════════════════════════════════════════════════════

// Peers 返回已知对端的 UUID
func (n *Node) Peers(ctx context.Context) ([]string, error) {
	return n.engine.Request(ctx, engine.NewCommand(engine.OpPeers))
}

// PeerEndpoint 返回对端的 endpoint
func (n *Node) PeerEndpoint(ctx context.Context, peer string) (string, error) {
	return n.single(ctx, engine.NewCommand(engine.OpPeerEndpoint, peer))
}

// PeerHeader 返回对端 HELLO 中的头部值，不存在时返回空字符串
func (n *Node) PeerHeader(ctx context.Context, peer, key string) (string, error) {
	return n.single(ctx, engine.NewCommand(engine.OpPeerHeader, peer, key))
}

// PeerName 返回对端名称
func (n *Node) PeerName(ctx context.Context, peer string) (string, error) {
	return n.single(ctx, engine.NewCommand(engine.OpPeerName, peer))
}

// PeerGroups 返回对端加入的所有群组
func (n *Node) PeerGroups(ctx context.Context) ([]string, error) {
	return n.engine.Request(ctx, engine.NewCommand(engine.OpPeerGroups))
}

// OwnGroups 返回本节点加入的群组
func (n *Node) OwnGroups(ctx context.Context) ([]string, error) {
	return n.engine.Request(ctx, engine.NewCommand(engine.OpOwnGroups))
}

// ════════════════════════════════════════════════════════════════════════════
//                              辅助函数
// ════════════════════════════════════════════════════════════════════════════

func (n *Node) request(ctx context.Context, cmd engine.Command) error {
	_, err := n.engine.Request(ctx, cmd)
	return err
}

func (n *Node) single(ctx context.Context, cmd engine.Command) (string, error) {
	values, err := n.engine.Request(ctx, cmd)
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}
