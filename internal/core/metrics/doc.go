// Package metrics 提供 ZRE 引擎的监控指标
//
// 基于 prometheus/client_golang，指标包括：
//   - zre_peers: 当前已知节点数
//   - zre_messages_received_total{type} / zre_messages_sent_total{type}
//   - zre_messages_dropped_total{reason}: 被丢弃的入站消息
//   - zre_peer_evictions_total{reason}: 节点移除原因（expired / desync / restart / withdrawn）
//   - zre_beacons_received_total
//   - zre_events_dropped_total: 应用事件通道满时丢弃的事件
//
// # 快速开始
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg, "zre")
//	http.Handle("/metrics", metrics.Handler(reg))
//
// 引擎只依赖 Reporter 接口，未启用指标时使用 Nop。
package metrics
