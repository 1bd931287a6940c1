package engine

import (
	"go.uber.org/multierr"

	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/internal/discovery/beacon"
	"github.com/dep2p/go-zre/internal/discovery/gossip"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/types"
)

// ============================================================================
//                              启动与停止
// ============================================================================

// start 启动节点
//
// 信标端口非零时创建信标，在信标主机名上绑定随机端口的收件箱，
// 然后开始广播并订阅 "ZRE" 信标。失败时释放已打开的套接字。
func (e *Engine) start() error {
	if e.started {
		return ErrAlreadyStarted
	}

	if e.beaconPort > 0 {
		if err := e.startBeacon(); err != nil {
			return err
		}
	} else if e.inbox == nil {
		return NewEngineError("start", ErrNoEndpoint, "")
	}

	e.started = true
	logger.Info("节点已启动",
		"id", e.id.ShortString(),
		"name", e.name,
		"endpoint", e.endpoint,
		"beacon_port", e.beaconPort)
	return nil
}

func (e *Engine) startBeacon() error {
	if e.deps.Beacons == nil {
		return NewEngineError("start", ErrBeaconBind, "no beacon factory")
	}
	b, err := e.deps.Beacons(pkgif.BeaconConfig{
		Port:      e.beaconPort,
		Interface: e.iface,
		Broadcast: e.broadcast,
	})
	if err != nil {
		return NewEngineError("start", multierr.Append(ErrBeaconBind, err), "")
	}

	if e.inbox == nil {
		ib, err := e.deps.Transport.Bind(types.FormatEndpoint(b.Hostname(), 0))
		if err != nil {
			return NewEngineError("start", multierr.Append(ErrEndpointBind, multierr.Append(err, b.Close())), "")
		}
		e.inbox = ib
		e.endpoint = ib.Endpoint()
		e.explicitEP = false
	}

	_, port, err := types.ParseEndpoint(e.endpoint)
	if err != nil {
		return NewEngineError("start", multierr.Append(ErrEndpointBind, multierr.Append(err, e.releaseStart(b))), "")
	}

	b.Subscribe([]byte(beacon.Protocol))
	if err := b.Publish(e.beaconPayload(port), e.interval); err != nil {
		return NewEngineError("start", multierr.Append(ErrBeaconBind, multierr.Append(err, e.releaseStart(b))), "")
	}
	e.beacon = b

	logger.Trace(e.verbose, "开始广播信标",
		"origin", e.name,
		"port", port,
		"interface", e.iface,
		"host", b.Hostname())
	return nil
}

// releaseStart 启动失败时释放信标和自动绑定的收件箱
func (e *Engine) releaseStart(b pkgif.Beacon) error {
	err := b.Close()
	if !e.explicitEP && e.inbox != nil {
		err = multierr.Append(err, e.inbox.Close())
		e.inbox = nil
		e.endpoint = ""
	}
	return err
}

// stop 停止节点
//
// 广播一次零端口信标让对端立即移除本节点，然后关闭信标；
// 移除所有对端，关闭自动绑定的收件箱，发出 STOP。
func (e *Engine) stop() error {
	if !e.started {
		return nil
	}

	var err error
	if e.beacon != nil {
		if perr := e.beacon.Publish(e.beaconPayload(0), e.interval); perr != nil {
			logger.Debug("发送退出信标失败", "err", perr)
		}
		e.beacon.Silence()
		err = multierr.Append(err, e.beacon.Close())
		e.beacon = nil
	}

	e.removeAllPeers(metrics.ReasonStopped)

	if !e.explicitEP && e.inbox != nil {
		err = multierr.Append(err, e.inbox.Close())
		e.inbox = nil
		e.endpoint = ""
	}

	e.started = false
	e.emit(Event{Type: types.EventStop, Peer: e.id})
	logger.Info("节点已停止", "id", e.id.ShortString(), "name", e.name)
	return err
}

// shutdown 退出事件循环前释放所有资源
func (e *Engine) shutdown() error {
	err := e.stop()
	if e.inbox != nil {
		err = multierr.Append(err, e.inbox.Close())
		e.inbox = nil
	}
	for _, p := range e.sortedPeers() {
		p.Disconnect()
	}
	if err != nil {
		logger.Warn("引擎退出时释放资源失败", "err", err)
	}
	logger.Debug("引擎已退出", "id", e.id.ShortString())
	return err
}

// ============================================================================
//                              显式 endpoint 与 gossip
// ============================================================================

// startGossip 首次使用时创建 gossip 服务并禁用 UDP 信标
func (e *Engine) startGossip() {
	if e.gossip != nil {
		return
	}
	e.beaconPort = 0
	e.gossip = gossip.New(e.verbose)
}

// setEndpoint 在显式 endpoint 上绑定收件箱
func (e *Engine) setEndpoint(endpoint string) error {
	e.startGossip()
	if e.inbox != nil {
		return NewEngineError("set endpoint", ErrEndpointBind, "inbox already bound")
	}
	ib, err := e.deps.Transport.Bind(endpoint)
	if err != nil {
		return NewEngineError("set endpoint", multierr.Append(ErrEndpointBind, err), endpoint)
	}
	e.inbox = ib
	e.endpoint = ib.Endpoint()
	e.explicitEP = true
	logger.Info("收件箱已绑定", "endpoint", e.endpoint)
	return nil
}
