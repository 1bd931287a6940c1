package engine

import (
	"fmt"

	"github.com/dep2p/go-zre/pkg/types"
)

// Event 应用可见的通知
//
// 各类型使用的字段：
//   - ENTER: Peer, Name, Headers（打包格式）, Endpoint
//   - EXIT / EVASIVE: Peer, Name
//   - JOIN / LEAVE: Peer, Name, Group
//   - WHISPER: Peer, Name, Content
//   - SHOUT: Peer, Name, Group, Content
//   - STOP: Peer（本节点标识）
type Event struct {
	Type     types.EventType
	Peer     types.NodeID
	Name     string
	Group    string
	Endpoint string
	Headers  []byte
	Content  [][]byte
}

// String 返回事件的可读表示
func (e Event) String() string {
	switch e.Type {
	case types.EventEnter:
		return fmt.Sprintf("%s %s %s %s", e.Type, e.Peer, e.Name, e.Endpoint)
	case types.EventJoin, types.EventLeave:
		return fmt.Sprintf("%s %s %s %s", e.Type, e.Peer, e.Name, e.Group)
	case types.EventShout:
		return fmt.Sprintf("%s %s %s %s frames=%d", e.Type, e.Peer, e.Name, e.Group, len(e.Content))
	case types.EventWhisper:
		return fmt.Sprintf("%s %s %s frames=%d", e.Type, e.Peer, e.Name, len(e.Content))
	case types.EventStop:
		return fmt.Sprintf("%s %s", e.Type, e.Peer)
	default:
		return fmt.Sprintf("%s %s %s", e.Type, e.Peer, e.Name)
	}
}
