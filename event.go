package zre

import (
	"fmt"

	"github.com/dep2p/go-zre/internal/core/engine"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// EventType 事件类型
type EventType = types.EventType

// 事件类型
const (
	EventEnter   = types.EventEnter
	EventExit    = types.EventExit
	EventJoin    = types.EventJoin
	EventLeave   = types.EventLeave
	EventWhisper = types.EventWhisper
	EventShout   = types.EventShout
	EventEvasive = types.EventEvasive
	EventStop    = types.EventStop
)

// Event 节点事件
//
// 各类型使用的字段：
//   - ENTER: PeerUUID, PeerName, PeerAddr, Headers
//   - EXIT / EVASIVE: PeerUUID, PeerName
//   - JOIN / LEAVE: PeerUUID, PeerName, Group
//   - WHISPER: PeerUUID, PeerName, Content
//   - SHOUT: PeerUUID, PeerName, Group, Content
//   - STOP: PeerUUID（本节点）
type Event struct {
	Type     EventType
	PeerUUID string
	PeerName string
	PeerAddr string
	Group    string
	Headers  map[string]string
	Content  [][]byte
}

// Header 返回 ENTER 事件携带的头部值
func (e Event) Header(key string) (string, bool) {
	v, ok := e.Headers[key]
	return v, ok
}

// Text 返回第一帧内容的字符串形式
func (e Event) Text() string {
	if len(e.Content) == 0 {
		return ""
	}
	return string(e.Content[0])
}

// String 返回事件的可读表示
func (e Event) String() string {
	switch e.Type {
	case EventEnter:
		return fmt.Sprintf("%s %s %s %s", e.Type, e.PeerUUID, e.PeerName, e.PeerAddr)
	case EventJoin, EventLeave:
		return fmt.Sprintf("%s %s %s %s", e.Type, e.PeerUUID, e.PeerName, e.Group)
	case EventShout:
		return fmt.Sprintf("%s %s %s %s %q", e.Type, e.PeerUUID, e.PeerName, e.Group, e.Text())
	case EventWhisper:
		return fmt.Sprintf("%s %s %s %q", e.Type, e.PeerUUID, e.PeerName, e.Text())
	case EventStop:
		return fmt.Sprintf("%s %s", e.Type, e.PeerUUID)
	default:
		return fmt.Sprintf("%s %s %s", e.Type, e.PeerUUID, e.PeerName)
	}
}

// convertEvent 把引擎事件转为公共事件
//
// ENTER 的打包头部在这里展开；格式错误时保留空头部并记录日志。
func convertEvent(ev engine.Event) Event {
	out := Event{
		Type:     ev.Type,
		PeerUUID: ev.Peer.String(),
		PeerName: ev.Name,
		PeerAddr: ev.Endpoint,
		Group:    ev.Group,
		Content:  ev.Content,
	}
	if ev.Type == types.EventEnter {
		headers, err := message.UnpackHeaders(ev.Headers)
		if err != nil {
			logger.Warn("无法解析 ENTER 头部", "peer", ev.Peer.ShortString(), "err", err)
			headers = map[string]string{}
		}
		out.Headers = headers
	}
	return out
}
