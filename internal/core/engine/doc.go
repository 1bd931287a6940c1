// Package engine 实现 ZRE 节点引擎
//
// Engine 在单个协程中运行，独占全部可变状态（对端表、群组、自身状态），
// 依次处理四类事件，从不并发：
//   - 控制命令（来自 Node 门面，经命令通道）
//   - 信标（发现、刷新、撤回对端）
//   - 收件箱消息（HELLO 握手、WHISPER、SHOUT、JOIN、LEAVE、PING）
//   - 存活扫描定时器（evasive 探测、过期移除）
//
// 应用可见的通知经事件通道发出，通道满时丢弃并计数。
//
// # 握手
//
// 收到信标或 HELLO 时创建对端并立即发送 HELLO；收到对端的 HELLO 后
// 对端进入 ready 状态，此后才处理其他消息。
//
// # 对端移除
//
// 过期、序列号错误、已 ready 对端的重复 HELLO、零端口信标以及 STOP
// 都经由 removePeer：发出 EXIT，离开所有群组，从对端表删除。
package engine
