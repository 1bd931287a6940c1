package engine

import (
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// sweep 存活扫描
//
// 过期的对端被移除；首次进入 evasive 的对端收到一次 PING，
// 已发出 ENTER 的对端同时向应用发出 EVASIVE。
func (e *Engine) sweep() {
	now := e.clock.Now()
	for _, p := range e.sortedPeers() {
		if p.Expired(now) {
			logger.Trace(e.verbose, "对端已过期", "origin", e.name, "peer", p.Name(), "endpoint", p.Endpoint())
			e.removePeer(p, metrics.ReasonExpired)
			continue
		}
		if p.MarkEvasive(now) {
			logger.Trace(e.verbose, "对端无响应", "origin", e.name, "peer", p.Name(), "endpoint", p.Endpoint())
			p.Send(message.NewPing())
			if !p.Entered() {
				continue
			}
			e.emit(Event{Type: types.EventEvasive, Peer: p.ID(), Name: p.Name()})
		}
	}
}
