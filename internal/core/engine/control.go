package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/dep2p/go-zre/internal/core/peer"
	"github.com/dep2p/go-zre/pkg/lib/proto/message"
	"github.com/dep2p/go-zre/pkg/types"
)

// handleCommand 处理一条控制命令
//
// 返回 false 表示收到 $TERM，事件循环应退出。
// 未知命令记录 Warn 并以 ErrUnknownCommand 应答。
func (e *Engine) handleCommand(cmd Command) bool {
	switch cmd.Op {
	case OpTerm:
		cmd.respond(nil, nil)
		return false

	case OpStart:
		cmd.respond(nil, e.start())

	case OpStop:
		cmd.respond(nil, e.stop())

	case OpSetName:
		name, ok := cmd.arg(0)
		if !ok {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		e.name = name
		for _, p := range e.peers {
			p.SetOrigin(name)
		}
		cmd.respond(nil, nil)

	case OpName:
		cmd.respond([]string{e.name}, nil)

	case OpSetUUID:
		cmd.respond(nil, e.setUUID(cmd))

	case OpUUID:
		cmd.respond([]string{e.id.String()}, nil)

	case OpSetInterval:
		cmd.respond(nil, e.setInterval(cmd))

	case OpSetVerbose:
		e.setVerbose(cmd)
		cmd.respond(nil, nil)

	case OpSetHeader:
		key, ok1 := cmd.arg(0)
		value, ok2 := cmd.arg(1)
		if !ok1 || !ok2 {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		e.headers[key] = value
		cmd.respond(nil, nil)

	case OpSetPort:
		s, ok := cmd.arg(0)
		if !ok {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		port, err := strconv.Atoi(s)
		if err != nil || port < 0 || port > 65535 {
			cmd.respond(nil, NewEngineError("set port", ErrMissingArgument, "port must be in [0, 65535]"))
			break
		}
		e.beaconPort = port
		cmd.respond(nil, nil)

	case OpSetInterface:
		name, _ := cmd.arg(0)
		e.iface = name
		cmd.respond(nil, nil)

	case OpWhisper:
		cmd.respond(nil, e.whisper(cmd))

	case OpShout:
		cmd.respond(nil, e.shout(cmd))

	case OpJoin:
		name, ok := cmd.arg(0)
		if !ok || name == "" {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		e.joinOwnGroup(name)
		cmd.respond(nil, nil)

	case OpLeave:
		name, ok := cmd.arg(0)
		if !ok || name == "" {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		e.leaveOwnGroup(name)
		cmd.respond(nil, nil)

	case OpPeers:
		ids := make([]string, 0, len(e.peers))
		for _, p := range e.sortedPeers() {
			ids = append(ids, p.ID().String())
		}
		cmd.respond(ids, nil)

	case OpPeerEndpoint:
		p, err := e.lookupPeer(cmd)
		if err != nil {
			cmd.respond(nil, err)
			break
		}
		cmd.respond([]string{p.Endpoint()}, nil)

	case OpPeerHeader:
		p, err := e.lookupPeer(cmd)
		if err != nil {
			cmd.respond(nil, err)
			break
		}
		key, _ := cmd.arg(1)
		v, _ := p.Header(key)
		cmd.respond([]string{v}, nil)

	case OpPeerName:
		p, err := e.lookupPeer(cmd)
		if err != nil {
			cmd.respond(nil, err)
			break
		}
		cmd.respond([]string{p.Name()}, nil)

	case OpPeerGroups:
		cmd.respond(e.peerGroups.Names(), nil)

	case OpOwnGroups:
		cmd.respond(e.ownGroups.Names(), nil)

	case OpSetEndpoint:
		endpoint, ok := cmd.arg(0)
		if !ok {
			cmd.respond(nil, ErrMissingArgument)
			break
		}
		cmd.respond(nil, e.setEndpoint(endpoint))

	case OpGossipBind:
		endpoint, _ := cmd.arg(0)
		e.startGossip()
		cmd.respond(nil, e.gossip.Bind(endpoint))

	case OpGossipConnect:
		endpoint, _ := cmd.arg(0)
		e.startGossip()
		cmd.respond(nil, e.gossip.Connect(endpoint))

	case OpDump:
		e.dump()
		cmd.respond(nil, nil)

	default:
		logger.Warn("未知命令，忽略", "op", string(cmd.Op))
		cmd.respond(nil, ErrUnknownCommand)
	}
	return true
}

func (e *Engine) setUUID(cmd Command) error {
	if e.started {
		return NewEngineError("set uuid", ErrAlreadyStarted, "identity is fixed once started")
	}
	s, ok := cmd.arg(0)
	if !ok {
		return ErrMissingArgument
	}
	id, err := types.ParseNodeID(s)
	if err != nil {
		return ErrInvalidIdentity
	}
	e.id = id
	return nil
}

// setInterval 设置信标间隔（毫秒）
//
// 信标已在广播时立即按新间隔重新发布。
func (e *Engine) setInterval(cmd Command) error {
	s, ok := cmd.arg(0)
	if !ok {
		return ErrMissingArgument
	}
	ms, err := strconv.Atoi(s)
	if err != nil || ms <= 0 {
		return NewEngineError("set interval", ErrMissingArgument, "interval must be a positive number of milliseconds")
	}
	e.interval = time.Duration(ms) * time.Millisecond

	if e.beacon != nil && e.started {
		_, port, err := types.ParseEndpoint(e.endpoint)
		if err == nil {
			return e.beacon.Publish(e.beaconPayload(port), e.interval)
		}
	}
	return nil
}

// setVerbose 无参数时开启，参数可为 true / false
func (e *Engine) setVerbose(cmd Command) {
	v := true
	if s, ok := cmd.arg(0); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			v = b
		}
	}
	e.verbose = v
	for _, p := range e.peers {
		p.SetVerbose(v)
	}
	if e.gossip != nil {
		e.gossip.SetVerbose(v)
	}
}

// whisper 发给单个对端，对端不存在时静默丢弃
func (e *Engine) whisper(cmd Command) error {
	s, ok := cmd.arg(0)
	if !ok {
		return ErrMissingArgument
	}
	id, err := types.ParseNodeID(s)
	if err != nil {
		return ErrInvalidIdentity
	}
	if p, ok := e.peers[id]; ok {
		p.Send(message.NewWhisper(cmd.Content...))
	}
	return nil
}

// shout 发给群组所有成员，群组不存在时静默丢弃
func (e *Engine) shout(cmd Command) error {
	name, ok := cmd.arg(0)
	if !ok {
		return ErrMissingArgument
	}
	if g, ok := e.peerGroups.Get(name); ok {
		g.Send(message.NewShout(name, cmd.Content...))
	}
	return nil
}

func (e *Engine) lookupPeer(cmd Command) (*peer.Peer, error) {
	s, ok := cmd.arg(0)
	if !ok {
		return nil, ErrMissingArgument
	}
	id, err := types.ParseNodeID(s)
	if err != nil {
		return nil, ErrInvalidIdentity
	}
	p, ok := e.peers[id]
	if !ok {
		return nil, ErrUnknownPeer
	}
	return p, nil
}

// dump 输出节点状态
func (e *Engine) dump() {
	logger.Info("节点状态",
		"id", e.id.String(),
		"name", e.name,
		"endpoint", e.endpoint,
		"started", e.started,
		"status", e.status,
		"own_groups", strings.Join(e.ownGroups.Names(), ","),
		"peer_groups", strings.Join(e.peerGroups.Names(), ","),
		"peers", len(e.peers))
	for _, p := range e.sortedPeers() {
		logger.Info("对端",
			"id", p.ID().String(),
			"name", p.Name(),
			"endpoint", p.Endpoint(),
			"ready", p.Ready(),
			"status", p.Status())
	}
}
