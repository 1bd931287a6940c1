// Package zmq 基于 go-zeromq/zmq4 实现 ZRE 传输
//
// 收件箱是一个 ROUTER 套接字，接收所有对端的 DEALER 连接，
// 每条消息的第 0 帧是对端握手时声明的路由标识。
// 发件箱是一个以本节点路由标识拨出的 DEALER 套接字，
// 拨号在后台完成，期间的消息进入有界队列。
package zmq

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"
	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
	"github.com/dep2p/go-zre/pkg/types"
)

var logger = log.Logger("transport/zmq")

// Transport zmq 传输
type Transport struct {
	cfg *Config
}

var _ pkgif.Transport = (*Transport)(nil)

// New 创建 zmq 传输
func New(cfg *Config) (*Transport, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, multierr.Append(ErrInvalidConfig, err)
	}
	return &Transport{cfg: cfg}, nil
}

// Bind 绑定 ROUTER 收件箱
func (t *Transport) Bind(endpoint string) (pkgif.Inbox, error) {
	host, _, err := types.ParseEndpoint(endpoint)
	if err != nil {
		return nil, pkgif.ErrInvalidEndpoint
	}

	ctx, cancel := context.WithCancel(context.Background())
	sck := zmq4.NewRouter(ctx)
	if err := sck.Listen(endpoint); err != nil {
		cancel()
		_ = sck.Close()
		return nil, &ZMQError{Op: "bind", Endpoint: endpoint, Err: err}
	}

	addr, ok := sck.Addr().(*net.TCPAddr)
	if !ok {
		cancel()
		_ = sck.Close()
		return nil, &ZMQError{Op: "bind", Endpoint: endpoint, Err: ErrNoAddress}
	}

	ib := &inbox{
		sck:      sck,
		cancel:   cancel,
		endpoint: types.FormatEndpoint(host, addr.Port),
		ch:       make(chan [][]byte, t.cfg.SendQueue),
	}
	ib.wg.Add(1)
	go ib.recvLoop()

	logger.Debug("ROUTER 已绑定", "endpoint", ib.endpoint)
	return ib, nil
}

// Dial 创建 DEALER 发件箱，拨号在后台进行
func (t *Transport) Dial(identity []byte, endpoint string) (pkgif.Mailbox, error) {
	if _, _, err := types.ParseEndpoint(endpoint); err != nil {
		return nil, pkgif.ErrInvalidEndpoint
	}

	ctx, cancel := context.WithCancel(context.Background())
	sck := zmq4.NewDealer(ctx,
		zmq4.WithID(zmq4.SocketIdentity(identity)),
		zmq4.WithDialerRetry(t.cfg.DialRetry),
		zmq4.WithDialerTimeout(t.cfg.DialTimeout),
		zmq4.WithDialerMaxRetries(t.cfg.MaxRetries),
	)

	mb := &mailbox{
		sck:      sck,
		ctx:      ctx,
		cancel:   cancel,
		endpoint: endpoint,
		retry:    t.cfg.DialRetry,
		queue:    make(chan [][]byte, t.cfg.SendQueue),
	}
	mb.wg.Add(1)
	go mb.sendLoop()
	return mb, nil
}

// ============================================================================
//                              inbox
// ============================================================================

type inbox struct {
	sck      zmq4.Socket
	cancel   context.CancelFunc
	endpoint string
	ch       chan [][]byte

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

func (ib *inbox) Endpoint() string {
	return ib.endpoint
}

func (ib *inbox) Recv() <-chan [][]byte {
	return ib.ch
}

// recvLoop 读取 ROUTER 消息直到套接字关闭
func (ib *inbox) recvLoop() {
	defer ib.wg.Done()
	defer close(ib.ch)

	for {
		msg, err := ib.sck.Recv()
		if err != nil {
			logger.Debug("ROUTER 接收结束", "endpoint", ib.endpoint, "err", err)
			return
		}
		if len(msg.Frames) == 0 {
			continue
		}
		ib.ch <- msg.Frames
	}
}

func (ib *inbox) Close() error {
	ib.closeOnce.Do(func() {
		ib.cancel()
		ib.closeErr = ib.sck.Close()
		// 消费方可能已经停止读取，排空以便 recvLoop 退出
		go func() {
			for range ib.ch {
			}
		}()
		ib.wg.Wait()
	})
	return ib.closeErr
}

// ============================================================================
//                              mailbox
// ============================================================================

type mailbox struct {
	sck      zmq4.Socket
	ctx      context.Context
	cancel   context.CancelFunc
	endpoint string
	retry    time.Duration
	queue    chan [][]byte

	wg     sync.WaitGroup
	closed atomic.Bool
}

// sendLoop 先拨号，成功后把排队的消息依次写出
//
// 拨号失败后间隔 retry 重新拨号，直到发件箱关闭；期间消息留在队列中。
// 套接字由 sendLoop 独占，退出时关闭。
func (mb *mailbox) sendLoop() {
	defer mb.wg.Done()
	defer mb.sck.Close()

	if !mb.dial() {
		return
	}

	for {
		select {
		case <-mb.ctx.Done():
			return
		case frames := <-mb.queue:
			if err := mb.sck.SendMulti(zmq4.NewMsgFrom(frames...)); err != nil {
				logger.Debug("DEALER 发送失败", "endpoint", mb.endpoint, "err", err)
			}
		}
	}
}

// dial 拨号直到成功，发件箱关闭时返回 false
func (mb *mailbox) dial() bool {
	for {
		err := mb.sck.Dial(mb.endpoint)
		if err == nil {
			return true
		}
		if mb.ctx.Err() != nil {
			return false
		}
		logger.Warn("DEALER 拨号失败，稍后重试", "endpoint", mb.endpoint, "err", err)

		t := time.NewTimer(mb.retry)
		select {
		case <-mb.ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}

func (mb *mailbox) Send(frames [][]byte) error {
	if mb.closed.Load() {
		return pkgif.ErrMailboxClosed
	}
	select {
	case mb.queue <- frames:
		return nil
	default:
		return pkgif.ErrMailboxFull
	}
}

// Close 停止发件箱，不等待后台拨号结束
func (mb *mailbox) Close() error {
	if !mb.closed.CompareAndSwap(false, true) {
		return nil
	}
	mb.cancel()
	return nil
}

// wait 等待后台协程退出（测试使用）
func (mb *mailbox) wait() {
	mb.wg.Wait()
}
