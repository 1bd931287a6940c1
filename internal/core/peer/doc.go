// Package peer 维护单个远端 ZRE 节点的状态
//
// 每个 Peer 持有一个到对端收件箱的发件箱，负责：
//   - 发送时分配递增的序列号
//   - 接收时校验序列号（HELLO 重置期望值为 1）
//   - 维护 evasive / expired 两个存活时间点
//
// Peer 只由引擎协程访问，没有内部锁。
package peer
