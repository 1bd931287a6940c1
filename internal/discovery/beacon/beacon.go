// Package beacon 实现 ZRE UDP 广播信标
//
// 信标绑定 0.0.0.0:port（地址与端口可复用），周期性把当前负载发往
// 所选网卡的广播地址，同时接收同端口上其他节点的信标：
//   - 只交付以订阅前缀开头的负载
//   - 与最近一次发送内容完全相同的负载视为自己的回显，丢弃
//
// Service 实现 pkgif.Beacon，Hub 提供同语义的进程内实现。
package beacon

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
)

var logger = log.Logger("discovery/beacon")

// Service UDP 信标服务
type Service struct {
	cfg   *Config
	route route
	conn  net.PacketConn
	port  int
	dest  *net.UDPAddr

	mu       sync.Mutex
	transmit []byte
	filter   []byte
	stopPub  chan struct{}

	signals chan pkgif.BeaconSignal
	wg      sync.WaitGroup
	closed  atomic.Bool
}

var _ pkgif.Beacon = (*Service)(nil)

// New 创建并绑定信标
//
// 绑定成功后立即开始接收，但在 Subscribe 之前不会交付任何信标。
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewBeaconError("new", ErrInvalidConfig, err.Error())
	}

	r, err := resolveRoute(cfg.Interface, cfg.Broadcast)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{Control: socketControl(r.device)}
	conn, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, NewBeaconError("bind", err, "listen udp failed")
	}

	port := cfg.Port
	if ua, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		port = ua.Port
	}

	s := &Service{
		cfg:     cfg,
		route:   r,
		conn:    conn,
		port:    port,
		dest:    &net.UDPAddr{IP: r.broadcast, Port: port},
		signals: make(chan pkgif.BeaconSignal, signalBuffer),
	}

	s.wg.Add(1)
	go s.readLoop()

	logger.Info("信标已绑定",
		"port", port,
		"interface", cfg.Interface,
		"device", r.device,
		"hostname", r.hostname,
		"broadcast", r.broadcast.String())
	return s, nil
}

// Factory 返回使用 UDP 信标的 BeaconFactory
//
// broadcast 非空时覆盖所有实例的广播地址。
func Factory(broadcast string) pkgif.BeaconFactory {
	return func(bc pkgif.BeaconConfig) (pkgif.Beacon, error) {
		cfg := DefaultConfig()
		cfg.ApplyOptions(WithPort(bc.Port), WithInterface(bc.Interface))
		if bc.Broadcast != "" {
			cfg.Broadcast = bc.Broadcast
		} else {
			cfg.Broadcast = broadcast
		}
		s, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Hostname 返回对外通告的 IP
func (s *Service) Hostname() string {
	return s.route.hostname
}

// Port 返回实际绑定的端口
func (s *Service) Port() int {
	return s.port
}

// Publish 立即发送一次，之后每隔 interval 重复发送
func (s *Service) Publish(payload []byte, interval time.Duration) error {
	if s.closed.Load() {
		return ErrAlreadyClosed
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	s.stopPublisherLocked()
	s.transmit = append([]byte{}, payload...)
	stop := make(chan struct{})
	s.stopPub = stop
	transmit := s.transmit
	s.mu.Unlock()

	s.send(transmit)

	s.wg.Add(1)
	go s.publishLoop(transmit, interval, stop)
	return nil
}

// Silence 停止广播
//
// 保留最近一次的发送内容用于过滤回显。
func (s *Service) Silence() {
	s.mu.Lock()
	s.stopPublisherLocked()
	s.mu.Unlock()
}

// Subscribe 设置过滤前缀
func (s *Service) Subscribe(filter []byte) {
	s.mu.Lock()
	s.filter = append([]byte{}, filter...)
	s.mu.Unlock()
}

// Unsubscribe 清除过滤前缀
func (s *Service) Unsubscribe() {
	s.mu.Lock()
	s.filter = nil
	s.mu.Unlock()
}

// Signals 返回收到的信标
func (s *Service) Signals() <-chan pkgif.BeaconSignal {
	return s.signals
}

// Close 关闭信标
func (s *Service) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.Silence()
	err := s.conn.Close()
	s.wg.Wait()
	close(s.signals)
	logger.Debug("信标已关闭", "port", s.port)
	return err
}

func (s *Service) stopPublisherLocked() {
	if s.stopPub != nil {
		close(s.stopPub)
		s.stopPub = nil
	}
}

func (s *Service) publishLoop(payload []byte, interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.send(payload)
		}
	}
}

func (s *Service) send(payload []byte) {
	if _, err := s.conn.WriteTo(payload, s.dest); err != nil && !s.closed.Load() {
		logger.Debug("发送信标失败", "dest", s.dest.String(), "err", err)
	}
}

func (s *Service) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, maxDatagram)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if !s.closed.Load() {
				logger.Warn("接收信标失败", "err", err)
			}
			return
		}

		payload := buf[:n]
		if !s.accept(payload) {
			continue
		}

		host := addr.String()
		if ua, ok := addr.(*net.UDPAddr); ok {
			host = ua.IP.String()
		}

		select {
		case s.signals <- pkgif.BeaconSignal{Addr: host, Payload: append([]byte{}, payload...)}:
		default:
			logger.Debug("信标通道已满，丢弃", "from", host)
		}
	}
}

// accept 过滤前缀和自身回显
func (s *Service) accept(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return acceptPayload(payload, s.filter, s.transmit)
}

// acceptPayload 判断负载是否应交付
//
// 未订阅时不交付；与 transmit 完全相同时视为回显。
func acceptPayload(payload, filter, transmit []byte) bool {
	if filter == nil || !bytes.HasPrefix(payload, filter) {
		return false
	}
	if transmit != nil && bytes.Equal(payload, transmit) {
		return false
	}
	return true
}
