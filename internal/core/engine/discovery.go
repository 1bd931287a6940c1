package engine

import (
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/internal/discovery/beacon"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/types"
)

// handleBeacon 处理收到的信标
//
// 非零端口创建或刷新对端；零端口表示对端退出，立即移除。
func (e *Engine) handleBeacon(sig pkgif.BeaconSignal) {
	pkt, err := beacon.ParsePacket(sig.Payload)
	if err != nil {
		e.drop(metrics.ReasonMalformed, "from", sig.Addr, "len", len(sig.Payload))
		return
	}
	if pkt.ID == e.id {
		return
	}
	if sig.Addr == "" {
		e.drop(metrics.ReasonMalformed, "peer", pkt.ID.ShortString())
		return
	}
	e.metrics.BeaconReceived()

	if pkt.Withdrawal() {
		if p, ok := e.peers[pkt.ID]; ok {
			logger.Trace(e.verbose, "对端已退出", "origin", e.name, "peer", p.Name())
			e.removePeer(p, metrics.ReasonWithdrawn)
		}
		return
	}

	endpoint := types.FormatEndpoint(sig.Addr, int(pkt.Port))
	p := e.requirePeer(pkt.ID, endpoint)
	p.Refresh()
}

// beaconPayload 构造本节点的信标
func (e *Engine) beaconPayload(port int) []byte {
	return beacon.Packet{ID: e.id, Port: uint16(port)}.Marshal()
}
