// Package types 定义 go-zre 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 go-zre 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - ids.go      - NodeID 节点身份与路由标识
//   - events.go   - EventType 应用可见事件类型
//   - endpoint.go - tcp://host:port 解析与生成
package types
