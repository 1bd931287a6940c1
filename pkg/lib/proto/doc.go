// Package proto 定义 go-zre 的网络协议消息（wire format）
//
// # 子包
//
//   - message: ZRE 协议消息（HELLO、WHISPER、SHOUT、JOIN、LEAVE、PING、PING-OK）
//
// # 职能
//
// pkg/lib/proto 的职能是定义 **跨网络传输** 的协议消息：
//   - 固定的二进制布局，与其他 ZRE 实现互通
//   - 需要版本兼容（仅接受协议版本 2）
//   - 变更成本高（影响网络协议）
//
// # 与 pkg/types 的区别
//
// pkg/lib/proto 定义网络协议消息（wire format），
// pkg/types 定义 Go 内部数据结构（内存结构）。
package proto
