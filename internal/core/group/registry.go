package group

import (
	"sort"

	"github.com/dep2p/go-zre/internal/core/peer"
)

// Registry 群组表
type Registry struct {
	groups map[string]*Group
}

// NewRegistry 创建群组表
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Require 返回群组，不存在时创建
func (r *Registry) Require(name string) *Group {
	g, ok := r.groups[name]
	if !ok {
		g = New(name)
		r.groups[name] = g
	}
	return g
}

// Get 查找群组
func (r *Registry) Get(name string) (*Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// Has 检查群组是否存在
func (r *Registry) Has(name string) bool {
	_, ok := r.groups[name]
	return ok
}

// Remove 删除群组
func (r *Registry) Remove(name string) {
	delete(r.groups, name)
}

// Names 返回排序后的群组名
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.groups))
	for n := range r.groups {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len 返回群组数
func (r *Registry) Len() int { return len(r.groups) }

// LeaveAll 把对端从其所在的每个群组移除，返回离开的群组名
func (r *Registry) LeaveAll(p *peer.Peer) []string {
	var left []string
	for _, name := range r.Names() {
		g := r.groups[name]
		if g.Has(p.ID()) {
			g.Leave(p)
			left = append(left, name)
		}
	}
	return left
}
