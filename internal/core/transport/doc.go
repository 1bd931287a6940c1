// Package transport 组装消息传输层
//
// 根据统一配置选择具体实现：
//
//   - zmq (默认): 基于 go-zeromq/zmq4 的 ROUTER/DEALER，走 TCP
//   - memory: 进程内网络，用于测试和单进程演示
//
// # 使用示例
//
//	tr, err := transport.New(transport.ConfigFromUnified(cfg))
//	inbox, err := tr.Bind("tcp://192.168.1.5:0")
//	mailbox, err := tr.Dial(self.RoutingID(), "tcp://192.168.1.6:49152")
package transport
