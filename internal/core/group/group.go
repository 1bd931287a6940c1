package group

import (
	"sort"

	"github.com/dep2p/go-zre/internal/core/peer"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// Group 命名群组
type Group struct {
	name    string
	members map[types.NodeID]*peer.Peer
}

// New 创建群组
func New(name string) *Group {
	return &Group{
		name:    name,
		members: make(map[types.NodeID]*peer.Peer),
	}
}

// Name 返回群组名
func (g *Group) Name() string { return g.name }

// Join 加入成员
//
// 成员已存在时不重复加入，但总是递增对端的状态计数。
func (g *Group) Join(p *peer.Peer) {
	g.members[p.ID()] = p
	p.IncStatus()
}

// Leave 移除成员
//
// 成员不存在时不做修改，但总是递增对端的状态计数。
func (g *Group) Leave(p *peer.Peer) {
	delete(g.members, p.ID())
	p.IncStatus()
}

// Has 检查成员
func (g *Group) Has(id types.NodeID) bool {
	_, ok := g.members[id]
	return ok
}

// Len 返回成员数
func (g *Group) Len() int { return len(g.members) }

// Peers 返回成员快照，按标识排序
func (g *Group) Peers() []*peer.Peer {
	out := make([]*peer.Peer, 0, len(g.members))
	for _, p := range g.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID().String() < out[j].ID().String()
	})
	return out
}

// Send 向所有成员发送 m 的独立副本
//
// 先取成员快照再逐个发送，m 本身不会被修改。
func (g *Group) Send(m *message.Message) {
	for _, p := range g.Peers() {
		p.Send(m.Duplicate())
	}
}
