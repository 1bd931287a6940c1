// Package zre 实现 ZRE 局域网 P2P 协议
//
// ZRE (ZeroMQ Realtime Exchange) 让同一局域网内的节点无需任何配置即可互相发现、
// 握手并交换消息：
//
//   - 发现：每个节点周期性广播 22 字节的 UDP 信标，通告自己的 UUID 和收件箱端口
//   - 握手：发现对端后建立连接，互发 HELLO 交换名称、群组和头部
//   - 通信：WHISPER 发给单个对端，SHOUT 发给群组内所有成员
//   - 存活：静默超过软阈值的对端被 PING，超过硬阈值后被移除
//
// # 快速开始
//
//	import "github.com/dep2p/go-zre"
//
//	node, err := zre.Start(ctx, zre.WithName("alice"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer node.Close(ctx)
//
//	_ = node.Join(ctx, "room")
//	_ = node.ShoutString(ctx, "room", "hi")
//
//	for ev := range node.Events() {
//	    fmt.Println(ev)
//	}
//
// # 线程模型
//
//	┌──────────────┐   命令通道    ┌──────────────┐
//	│  Node (调用方) │ ───────────▶ │    Engine     │ ◀── 信标 / 收件箱 / 定时器
//	│              │ ◀─────────── │  (单协程)      │
//	└──────────────┘   事件通道    └──────────────┘
//
// Node 的方法可以在任意协程中调用；所有协议状态只由引擎协程读写。
// 不要在处理事件的同时阻塞引擎所需的调用方协程。
package zre
