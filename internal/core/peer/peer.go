package peer

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-zre/internal/core/metrics"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

var logger = log.Logger("core/peer")

// 默认存活阈值
const (
	DefaultEvasive = 10 * time.Second
	DefaultExpired = 30 * time.Second
)

// Peer 远端节点
type Peer struct {
	id      types.NodeID
	clock   clock.Clock
	evasive time.Duration
	expired time.Duration

	// origin 本节点名称，仅用于日志
	origin   string
	verbose  bool
	reporter metrics.Reporter

	mailbox   pkgif.Mailbox
	endpoint  string
	connected bool
	ready     bool
	entered   bool

	name    string
	headers map[string]string
	status  byte

	sentSequence uint16
	wantSequence uint16

	evasiveAt  time.Time
	expiredAt  time.Time
	evasiveHit bool
}

// New 创建对端
//
// clk 为 nil 时使用系统时钟；阈值非正时使用默认值。
func New(id types.NodeID, clk clock.Clock, evasive, expired time.Duration) *Peer {
	if clk == nil {
		clk = clock.New()
	}
	if evasive <= 0 {
		evasive = DefaultEvasive
	}
	if expired <= 0 {
		expired = DefaultExpired
	}
	return &Peer{
		id:       id,
		clock:    clk,
		evasive:  evasive,
		expired:  expired,
		reporter: metrics.Nop{},
		headers:  make(map[string]string),
	}
}

// ID 返回对端标识
func (p *Peer) ID() types.NodeID { return p.id }

// SetOrigin 设置日志中使用的本节点名称
func (p *Peer) SetOrigin(origin string) { p.origin = origin }

// SetVerbose 开关协议跟踪日志
func (p *Peer) SetVerbose(v bool) { p.verbose = v }

// SetReporter 设置发送计数的上报器
func (p *Peer) SetReporter(r metrics.Reporter) {
	if r == nil {
		r = metrics.Nop{}
	}
	p.reporter = r
}

// ============================================================================
//                              连接
// ============================================================================

// Connect 以 from 的路由标识连接 endpoint
//
// 失败时返回 *ConnectionError，对端保持未连接状态。
func (p *Peer) Connect(tr pkgif.Transport, from types.NodeID, endpoint string) error {
	if p.connected {
		return ErrAlreadyConnected
	}
	if tr == nil {
		return &ConnectionError{Endpoint: endpoint, Err: ErrNoTransport}
	}

	mb, err := tr.Dial(from.RoutingID(), endpoint)
	if err != nil {
		logger.Warn("无法连接对端", "origin", p.origin, "endpoint", endpoint, "err", err)
		return &ConnectionError{Endpoint: endpoint, Err: err}
	}

	p.mailbox = mb
	p.endpoint = endpoint
	p.connected = true
	p.ready = false

	logger.Trace(p.verbose, "已连接对端", "origin", p.origin, "endpoint", endpoint)
	return nil
}

// Disconnect 断开连接，可重复调用
func (p *Peer) Disconnect() {
	if !p.connected {
		return
	}
	if err := p.mailbox.Close(); err != nil {
		logger.Debug("关闭发件箱失败", "endpoint", p.endpoint, "err", err)
	}
	p.mailbox = nil
	p.endpoint = ""
	p.connected = false
	p.ready = false
}

// Send 发送消息
//
// 写入下一个序列号后编码发送，失败静默丢弃。未连接时不发送。
func (p *Peer) Send(m *message.Message) {
	if !p.connected || m == nil {
		return
	}
	p.sentSequence++
	m.Sequence = p.sentSequence

	logger.Trace(p.verbose, "发送消息",
		"origin", p.origin,
		"type", m.Type.String(),
		"peer", p.displayName(),
		"seq", m.Sequence)

	frames, err := message.Encode(m)
	if err != nil {
		logger.Debug("编码消息失败", "type", m.Type.String(), "err", err)
		return
	}
	if err := p.mailbox.Send(frames); err != nil {
		logger.Trace(p.verbose, "发送失败，丢弃",
			"origin", p.origin,
			"peer", p.displayName(),
			"err", err)
		return
	}
	p.reporter.MessageSent(m.Type.String())
}

// ============================================================================
//                              序列号与存活
// ============================================================================

// MessageLost 校验序列号
//
// HELLO 把期望值重置为 1，其他消息期望值加 1。返回 true 表示消息丢失，
// 调用方应移除该对端。
func (p *Peer) MessageLost(m *message.Message) bool {
	logger.Trace(p.verbose, "收到消息",
		"origin", p.origin,
		"type", m.Type.String(),
		"peer", p.displayName(),
		"seq", m.Sequence)

	if m.Type == message.TypeHello {
		p.wantSequence = 1
	} else {
		p.wantSequence++
	}

	if p.wantSequence != m.Sequence {
		logger.Info("序列号错误",
			"origin", p.origin,
			"peer", p.displayName(),
			"expect", p.wantSequence,
			"got", m.Sequence)
		return true
	}
	return false
}

// Refresh 重新计算存活时间点
func (p *Peer) Refresh() {
	now := p.clock.Now()
	p.evasiveAt = now.Add(p.evasive)
	p.expiredAt = now.Add(p.expired)
	p.evasiveHit = false
}

// EvasiveAt 返回 evasive 时间点
func (p *Peer) EvasiveAt() time.Time { return p.evasiveAt }

// ExpiredAt 返回过期时间点
func (p *Peer) ExpiredAt() time.Time { return p.expiredAt }

// Expired 检查是否已过期
func (p *Peer) Expired(now time.Time) bool {
	return !now.Before(p.expiredAt)
}

// MarkEvasive 检查是否首次进入 evasive 状态
//
// 每次 Refresh 之后最多返回一次 true。
func (p *Peer) MarkEvasive(now time.Time) bool {
	if p.evasiveHit || now.Before(p.evasiveAt) {
		return false
	}
	p.evasiveHit = true
	return true
}

// ============================================================================
//                              属性
// ============================================================================

// Endpoint 返回对端 endpoint
func (p *Peer) Endpoint() string { return p.endpoint }

// Connected 是否已连接
func (p *Peer) Connected() bool { return p.connected }

// Ready 是否已完成握手
func (p *Peer) Ready() bool { return p.ready }

// SetReady 设置握手状态
func (p *Peer) SetReady(ready bool) { p.ready = ready }

// Entered 是否已向应用发出 ENTER
//
// 未发出 ENTER 的对端被移除时不发出 EXIT。
func (p *Peer) Entered() bool { return p.entered }

// SetEntered 标记已发出 ENTER
func (p *Peer) SetEntered() { p.entered = true }

// Name 返回对端名称
func (p *Peer) Name() string { return p.name }

// SetName 设置对端名称
func (p *Peer) SetName(name string) { p.name = name }

// Status 返回对端状态计数
func (p *Peer) Status() byte { return p.status }

// SetStatus 设置对端状态计数
func (p *Peer) SetStatus(s byte) { p.status = s }

// IncStatus 状态计数加 1（溢出回绕）
func (p *Peer) IncStatus() { p.status++ }

// Headers 返回头部副本
func (p *Peer) Headers() map[string]string {
	out := make(map[string]string, len(p.headers))
	for k, v := range p.headers {
		out[k] = v
	}
	return out
}

// SetHeaders 替换头部
func (p *Peer) SetHeaders(h map[string]string) {
	p.headers = make(map[string]string, len(h))
	for k, v := range h {
		p.headers[k] = v
	}
}

// Header 查询单个头部
func (p *Peer) Header(key string) (string, bool) {
	v, ok := p.headers[key]
	return v, ok
}

func (p *Peer) displayName() string {
	if p.name == "" {
		return "-"
	}
	return p.name
}
