package beacon

import (
	"sync"
	"sync/atomic"
	"time"

	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
)

// Hub 进程内信标广播域
//
// 同一 Hub 上的信标互相可见，过滤与回显语义与 UDP 信标相同。
// 所有成员的 Hostname 为 127.0.0.1，配合 memory 传输使用。
type Hub struct {
	mu      sync.RWMutex
	members map[*hubBeacon]struct{}
}

// NewHub 创建进程内广播域
func NewHub() *Hub {
	return &Hub{members: make(map[*hubBeacon]struct{})}
}

// Factory 返回在该 Hub 上创建信标的 BeaconFactory
func (h *Hub) Factory() pkgif.BeaconFactory {
	return func(pkgif.BeaconConfig) (pkgif.Beacon, error) {
		return h.Join(), nil
	}
}

// Join 加入广播域
func (h *Hub) Join() pkgif.Beacon {
	b := &hubBeacon{
		hub:     h,
		signals: make(chan pkgif.BeaconSignal, signalBuffer),
	}
	h.mu.Lock()
	h.members[b] = struct{}{}
	h.mu.Unlock()
	return b
}

// Members 返回成员数量
func (h *Hub) Members() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.members)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for m := range h.members {
		m.deliver(payload)
	}
}

func (h *Hub) leave(b *hubBeacon) {
	h.mu.Lock()
	delete(h.members, b)
	h.mu.Unlock()
}

// hubBeacon 进程内信标
type hubBeacon struct {
	hub *Hub

	mu       sync.Mutex
	transmit []byte
	filter   []byte
	stopPub  chan struct{}
	signals  chan pkgif.BeaconSignal

	wg     sync.WaitGroup
	closed atomic.Bool
}

func (b *hubBeacon) Hostname() string {
	return "127.0.0.1"
}

func (b *hubBeacon) Publish(payload []byte, interval time.Duration) error {
	if b.closed.Load() {
		return ErrAlreadyClosed
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}

	b.mu.Lock()
	b.stopLocked()
	b.transmit = append([]byte{}, payload...)
	stop := make(chan struct{})
	b.stopPub = stop
	transmit := b.transmit
	b.mu.Unlock()

	b.hub.broadcast(transmit)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.hub.broadcast(transmit)
			}
		}
	}()
	return nil
}

func (b *hubBeacon) Silence() {
	b.mu.Lock()
	b.stopLocked()
	b.mu.Unlock()
}

func (b *hubBeacon) stopLocked() {
	if b.stopPub != nil {
		close(b.stopPub)
		b.stopPub = nil
	}
}

func (b *hubBeacon) Subscribe(filter []byte) {
	b.mu.Lock()
	b.filter = append([]byte{}, filter...)
	b.mu.Unlock()
}

func (b *hubBeacon) Unsubscribe() {
	b.mu.Lock()
	b.filter = nil
	b.mu.Unlock()
}

func (b *hubBeacon) Signals() <-chan pkgif.BeaconSignal {
	return b.signals
}

// deliver 由 Hub 调用，持有 hub 读锁
func (b *hubBeacon) deliver(payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed.Load() || !acceptPayload(payload, b.filter, b.transmit) {
		return
	}
	select {
	case b.signals <- pkgif.BeaconSignal{Addr: b.Hostname(), Payload: append([]byte{}, payload...)}:
	default:
	}
}

func (b *hubBeacon) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	b.Silence()
	b.hub.leave(b)
	b.wg.Wait()

	b.mu.Lock()
	close(b.signals)
	b.mu.Unlock()
	return nil
}
