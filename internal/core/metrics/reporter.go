package metrics

// Reporter 引擎指标上报接口
type Reporter interface {
	// SetPeers 记录当前节点数
	SetPeers(n int)

	// MessageReceived 记录收到的协议消息
	MessageReceived(msgType string)

	// MessageSent 记录发出的协议消息
	MessageSent(msgType string)

	// MessageDropped 记录被丢弃的入站消息
	MessageDropped(reason string)

	// PeerEvicted 记录节点移除
	PeerEvicted(reason string)

	// BeaconReceived 记录收到的信标
	BeaconReceived()

	// EventDropped 记录丢弃的应用事件
	EventDropped()
}

// Nop 不做任何事的 Reporter
type Nop struct{}

var _ Reporter = Nop{}

func (Nop) SetPeers(int)           {}
func (Nop) MessageReceived(string) {}
func (Nop) MessageSent(string)     {}
func (Nop) MessageDropped(string)  {}
func (Nop) PeerEvicted(string)     {}
func (Nop) BeaconReceived()        {}
func (Nop) EventDropped()          {}
