// Package interfaces 定义 go-zre 的公共接口
//
// 引擎只依赖这些接口，具体实现位于 internal/ 下，可整体替换：
//   - transport.go - 面向连接的消息传输（ROUTER 收件箱 / DEALER 发件箱）
//   - beacon.go    - UDP 广播信标
//
// 使用时以 pkgif 别名导入：
//
//	import pkgif "github.com/dep2p/go-zre/pkg/interfaces"
package interfaces
