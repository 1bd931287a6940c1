package types

// ============================================================================
//                              EventType - 事件类型
// ============================================================================

// EventType 应用可见的事件类型
type EventType string

const (
	// EventEnter 节点进入网络（握手完成）
	EventEnter EventType = "ENTER"
	// EventExit 节点离开网络（过期、失序或重启）
	EventExit EventType = "EXIT"
	// EventJoin 节点加入群组
	EventJoin EventType = "JOIN"
	// EventLeave 节点离开群组
	EventLeave EventType = "LEAVE"
	// EventWhisper 收到单播消息
	EventWhisper EventType = "WHISPER"
	// EventShout 收到群组广播消息
	EventShout EventType = "SHOUT"
	// EventEvasive 节点静默超过软阈值
	EventEvasive EventType = "EVASIVE"
	// EventStop 本节点已停止
	EventStop EventType = "STOP"
)

// String 返回事件类型字符串
func (t EventType) String() string {
	return string(t)
}

// Valid 检查事件类型是否已定义
func (t EventType) Valid() bool {
	switch t {
	case EventEnter, EventExit, EventJoin, EventLeave,
		EventWhisper, EventShout, EventEvasive, EventStop:
		return true
	}
	return false
}
