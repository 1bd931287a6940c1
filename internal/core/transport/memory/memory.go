// Package memory 实现进程内传输
//
// 多个节点共享同一个 Network 时，彼此可以像通过 TCP 一样收发多帧消息，
// 用于单元测试和演示，行为与 zmq 传输保持一致：
//   - Dial 不阻塞，只校验 endpoint 格式
//   - 发送时才查找目标收件箱，目标不存在则静默丢弃
//   - 收件箱队列满时返回 ErrMailboxFull
package memory

import (
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
	"github.com/dep2p/go-zre/pkg/types"
)

var logger = log.Logger("transport/memory")

// DefaultQueueSize 收件箱默认队列长度
const DefaultQueueSize = 1000

// firstPort 动态端口起点（与 ZRE 动态端口范围一致）
const firstPort = 0xc000

// Network 进程内网络
//
// Network 实现 pkgif.Transport。
type Network struct {
	mu       sync.RWMutex
	inboxes  map[string]*inbox
	nextPort int
	queue    int
}

var _ pkgif.Transport = (*Network)(nil)

// NewNetwork 创建进程内网络
func NewNetwork() *Network {
	return NewNetworkWithQueue(DefaultQueueSize)
}

// NewNetworkWithQueue 创建指定收件箱队列长度的进程内网络
func NewNetworkWithQueue(queue int) *Network {
	if queue <= 0 {
		queue = DefaultQueueSize
	}
	return &Network{
		inboxes:  make(map[string]*inbox),
		nextPort: firstPort,
		queue:    queue,
	}
}

// Bind 在 endpoint 上打开收件箱
//
// 端口为 0 时分配一个未使用的动态端口。
func (n *Network) Bind(endpoint string) (pkgif.Inbox, error) {
	host, port, err := types.ParseEndpoint(endpoint)
	if err != nil {
		return nil, pkgif.ErrInvalidEndpoint
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if port == 0 {
		for {
			port = n.nextPort
			n.nextPort++
			if n.nextPort > 0xffff {
				n.nextPort = firstPort
			}
			if _, used := n.inboxes[types.FormatEndpoint(host, port)]; !used {
				break
			}
		}
	}

	bound := types.FormatEndpoint(host, port)
	if _, used := n.inboxes[bound]; used {
		return nil, ErrAddressInUse
	}

	ib := &inbox{
		net:      n,
		endpoint: bound,
		ch:       make(chan [][]byte, n.queue),
	}
	n.inboxes[bound] = ib
	logger.Debug("绑定收件箱", "endpoint", bound)
	return ib, nil
}

// Dial 创建到 endpoint 的发件箱
func (n *Network) Dial(identity []byte, endpoint string) (pkgif.Mailbox, error) {
	if _, _, err := types.ParseEndpoint(endpoint); err != nil {
		return nil, pkgif.ErrInvalidEndpoint
	}
	return &mailbox{
		net:      n,
		identity: append([]byte{}, identity...),
		endpoint: endpoint,
	}, nil
}

// Endpoints 返回当前已绑定的 endpoint 数量
func (n *Network) Endpoints() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.inboxes)
}

func (n *Network) lookup(endpoint string) *inbox {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.inboxes[endpoint]
}

func (n *Network) unbind(endpoint string) {
	n.mu.Lock()
	delete(n.inboxes, endpoint)
	n.mu.Unlock()
}

// ============================================================================
//                              inbox
// ============================================================================

type inbox struct {
	net      *Network
	endpoint string

	mu     sync.Mutex
	ch     chan [][]byte
	closed bool
}

func (ib *inbox) Endpoint() string {
	return ib.endpoint
}

func (ib *inbox) Recv() <-chan [][]byte {
	return ib.ch
}

func (ib *inbox) Close() error {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.closed {
		return nil
	}
	ib.closed = true
	ib.net.unbind(ib.endpoint)
	close(ib.ch)
	return nil
}

// deliver 投递一条消息，帧切片会被复制
func (ib *inbox) deliver(identity []byte, frames [][]byte) error {
	msg := make([][]byte, 0, len(frames)+1)
	msg = append(msg, append([]byte{}, identity...))
	for _, f := range frames {
		msg = append(msg, append([]byte{}, f...))
	}

	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.closed {
		return nil
	}
	select {
	case ib.ch <- msg:
		return nil
	default:
		return pkgif.ErrMailboxFull
	}
}

// ============================================================================
//                              mailbox
// ============================================================================

type mailbox struct {
	net      *Network
	identity []byte
	endpoint string
	closed   atomic.Bool
}

func (m *mailbox) Send(frames [][]byte) error {
	if m.closed.Load() {
		return pkgif.ErrMailboxClosed
	}
	target := m.net.lookup(m.endpoint)
	if target == nil {
		// 对端尚未绑定或已关闭，与 TCP 上的未连接状态一致
		return nil
	}
	return target.deliver(m.identity, frames)
}

func (m *mailbox) Close() error {
	m.closed.Store(true)
	return nil
}
