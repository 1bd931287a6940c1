package engine

import (
	"github.com/dep2p/go-zre/internal/core/group"
	"github.com/dep2p/go-zre/internal/core/peer"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// ============================================================================
//                              对端表
// ============================================================================

// requirePeer 返回对端，不存在时创建、连接并发送 HELLO
//
// 创建前断开同一 endpoint 上的其他对端（对方已以新标识重启）。
func (e *Engine) requirePeer(id types.NodeID, endpoint string) *peer.Peer {
	if p, ok := e.peers[id]; ok {
		return p
	}

	e.purgePeer(endpoint)

	p := peer.New(id, e.clock, e.evasive, e.expired)
	p.SetOrigin(e.name)
	p.SetVerbose(e.verbose)
	p.SetReporter(e.metrics)
	e.peers[id] = p
	e.metrics.SetPeers(len(e.peers))

	e.connectPeer(p, endpoint)
	return p
}

// connectPeer 连接对端并以 HELLO 开始握手
func (e *Engine) connectPeer(p *peer.Peer, endpoint string) {
	if err := p.Connect(e.deps.Transport, e.id, endpoint); err != nil {
		logger.Trace(e.verbose, "连接对端失败", "peer", p.ID().ShortString(), "endpoint", endpoint, "err", err)
		return
	}
	p.Send(e.hello())
}

// hello 构造携带自身状态的 HELLO
func (e *Engine) hello() *message.Message {
	return message.NewHello(e.endpoint, e.ownGroups.Names(), e.status, e.name, e.headers)
}

// purgePeer 断开 endpoint 上的所有对端
func (e *Engine) purgePeer(endpoint string) {
	if endpoint == "" {
		return
	}
	for _, p := range e.sortedPeers() {
		if p.Endpoint() == endpoint {
			logger.Trace(e.verbose, "清除同 endpoint 的旧对端", "peer", p.ID().ShortString(), "endpoint", endpoint)
			p.Disconnect()
		}
	}
}

// removePeer 移除对端
//
// 发出 EXIT，离开所有群组，断开连接并从对端表删除。
func (e *Engine) removePeer(p *peer.Peer, reason string) {
	if _, ok := e.peers[p.ID()]; !ok {
		return
	}

	if p.Entered() {
		e.emit(Event{Type: types.EventExit, Peer: p.ID(), Name: p.Name()})
	}
	logger.Trace(e.verbose, "EXIT",
		"origin", e.name,
		"peer", p.Name(),
		"endpoint", p.Endpoint(),
		"reason", reason)

	e.peerGroups.LeaveAll(p)
	p.Disconnect()
	delete(e.peers, p.ID())

	e.metrics.PeerEvicted(reason)
	e.metrics.SetPeers(len(e.peers))
}

// ============================================================================
//                              群组
// ============================================================================

// joinPeerGroup 把对端加入群组并发出 JOIN
func (e *Engine) joinPeerGroup(p *peer.Peer, name string) *group.Group {
	g := e.peerGroups.Require(name)
	g.Join(p)
	e.emit(Event{Type: types.EventJoin, Peer: p.ID(), Name: p.Name(), Group: name})
	logger.Trace(e.verbose, "JOIN", "origin", e.name, "peer", p.Name(), "group", name)
	return g
}

// leavePeerGroup 把对端移出群组并发出 LEAVE
func (e *Engine) leavePeerGroup(p *peer.Peer, name string) *group.Group {
	g := e.peerGroups.Require(name)
	g.Leave(p)
	e.emit(Event{Type: types.EventLeave, Peer: p.ID(), Name: p.Name(), Group: name})
	logger.Trace(e.verbose, "LEAVE", "origin", e.name, "peer", p.Name(), "group", name)
	return g
}

// joinOwnGroup 加入自身群组并通知所有对端
//
// 已加入时不做任何事。
func (e *Engine) joinOwnGroup(name string) bool {
	if e.ownGroups.Has(name) {
		return false
	}
	e.ownGroups.Require(name)
	e.status++
	e.sendAll(message.NewJoin(name, e.status))
	logger.Trace(e.verbose, "加入群组", "origin", e.name, "group", name)
	return true
}

// leaveOwnGroup 通知所有对端后离开自身群组
func (e *Engine) leaveOwnGroup(name string) bool {
	if !e.ownGroups.Has(name) {
		return false
	}
	e.status++
	e.sendAll(message.NewLeave(name, e.status))
	e.ownGroups.Remove(name)
	logger.Trace(e.verbose, "离开群组", "origin", e.name, "group", name)
	return true
}

// sendAll 向每个对端发送 m 的独立副本
func (e *Engine) sendAll(m *message.Message) {
	for _, p := range e.sortedPeers() {
		p.Send(m.Duplicate())
	}
}

// removeAllPeers 移除全部对端
func (e *Engine) removeAllPeers(reason string) {
	for _, p := range e.sortedPeers() {
		e.removePeer(p, reason)
	}
}
