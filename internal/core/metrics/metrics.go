package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 丢弃与移除原因
const (
	ReasonMalformed   = "malformed"
	ReasonBadIdentity = "bad_identity"
	ReasonUnknownPeer = "unknown_peer"
	ReasonNotReady    = "not_ready"
	ReasonSelfLoop    = "self_loop"

	ReasonExpired   = "expired"
	ReasonDesync    = "desync"
	ReasonRestart   = "restart"
	ReasonWithdrawn = "withdrawn"
	ReasonStopped   = "stopped"
)

// Metrics Prometheus 指标集合
type Metrics struct {
	peers         prometheus.Gauge
	received      *prometheus.CounterVec
	sent          *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	beacons       prometheus.Counter
	eventsDropped prometheus.Counter
}

var _ Reporter = (*Metrics)(nil)

// New 创建并注册指标
//
// reg 为 nil 时只创建不注册。
func New(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peers",
			Help:      "Number of known peers.",
		}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Protocol messages accepted from peers.",
		}, []string{"type"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Protocol messages sent to peers.",
		}, []string{"type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_dropped_total",
			Help:      "Inbound messages dropped before dispatch.",
		}, []string{"reason"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peer_evictions_total",
			Help:      "Peers removed from the peer table.",
		}, []string{"reason"}),
		beacons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "beacons_received_total",
			Help:      "Beacons received from other nodes.",
		}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Application events dropped because the event channel was full.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.peers, m.received, m.sent, m.dropped, m.evictions, m.beacons, m.eventsDropped)
	}
	return m
}

// Handler 暴露 /metrics
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SetPeers 记录当前节点数
func (m *Metrics) SetPeers(n int) {
	if m == nil {
		return
	}
	m.peers.Set(float64(n))
}

// MessageReceived 记录收到的协议消息
func (m *Metrics) MessageReceived(msgType string) {
	if m == nil {
		return
	}
	m.received.WithLabelValues(msgType).Inc()
}

// MessageSent 记录发出的协议消息
func (m *Metrics) MessageSent(msgType string) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(msgType).Inc()
}

// MessageDropped 记录被丢弃的入站消息
func (m *Metrics) MessageDropped(reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}

// PeerEvicted 记录节点移除
func (m *Metrics) PeerEvicted(reason string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(reason).Inc()
}

// BeaconReceived 记录收到的信标
func (m *Metrics) BeaconReceived() {
	if m == nil {
		return
	}
	m.beacons.Inc()
}

// EventDropped 记录丢弃的应用事件
func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}
