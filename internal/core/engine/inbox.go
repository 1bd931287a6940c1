package engine

import (
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// handleInbox 处理收件箱消息
//
// frames[0] 为发送方路由标识，其余为协议帧。
func (e *Engine) handleInbox(frames [][]byte) {
	if len(frames) < 2 {
		e.drop(metrics.ReasonMalformed, "frames", len(frames))
		return
	}

	id, err := types.NodeIDFromRoutingID(frames[0])
	if err != nil {
		e.drop(metrics.ReasonBadIdentity, "len", len(frames[0]))
		return
	}

	msg, err := message.Decode(frames[1:])
	if err != nil {
		e.drop(metrics.ReasonMalformed, "peer", id.ShortString(), "err", err)
		return
	}

	// HELLO 可以创建对端，其他消息要求对端已存在
	p := e.peers[id]
	if msg.Type == message.TypeHello {
		if p != nil {
			if p.Endpoint() != "" && p.Endpoint() == e.endpoint {
				e.drop(metrics.ReasonSelfLoop, "peer", id.ShortString())
				return
			}
			if p.Ready() {
				e.removePeer(p, metrics.ReasonRestart)
				p = nil
			}
		}
		if p == nil {
			p = e.requirePeer(id, msg.Endpoint)
		} else if !p.Connected() {
			// 被清除过的对端按 HELLO 中的 endpoint 重新连接
			e.connectPeer(p, msg.Endpoint)
		}
		p.SetReady(true)
	}

	if p == nil {
		e.drop(metrics.ReasonUnknownPeer, "peer", id.ShortString(), "type", msg.Type.String())
		return
	}
	if !p.Ready() {
		e.drop(metrics.ReasonNotReady, "peer", id.ShortString(), "type", msg.Type.String())
		return
	}

	if p.MessageLost(msg) {
		logger.Info("对端消息丢失，移除对端", "origin", e.name, "peer", p.Name())
		e.removePeer(p, metrics.ReasonDesync)
		return
	}
	e.metrics.MessageReceived(msg.Type.String())

	switch msg.Type {
	case message.TypeHello:
		p.SetName(msg.Name)
		p.SetHeaders(msg.Headers)

		packed, err := message.PackHeaders(msg.Headers)
		if err != nil {
			logger.Debug("打包头部失败", "peer", p.Name(), "err", err)
		}
		e.emit(Event{
			Type:     types.EventEnter,
			Peer:     id,
			Name:     p.Name(),
			Headers:  packed,
			Endpoint: msg.Endpoint,
		})
		p.SetEntered()
		logger.Trace(e.verbose, "ENTER", "origin", e.name, "peer", p.Name(), "endpoint", p.Endpoint())

		for _, g := range msg.Groups {
			e.joinPeerGroup(p, g)
		}
		// 加入群组之后再采用 HELLO 中的状态
		p.SetStatus(msg.Status)

	case message.TypeWhisper:
		e.emit(Event{Type: types.EventWhisper, Peer: id, Name: p.Name(), Content: msg.Content})

	case message.TypeShout:
		e.emit(Event{Type: types.EventShout, Peer: id, Name: p.Name(), Group: msg.Group, Content: msg.Content})

	case message.TypePing:
		p.Send(message.NewPingOK())

	case message.TypeJoin:
		e.joinPeerGroup(p, msg.Group)

	case message.TypeLeave:
		e.leavePeerGroup(p, msg.Group)
	}

	// 任何来自对端的活动都刷新其存活时间
	p.Refresh()
}
