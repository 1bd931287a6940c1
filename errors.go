package zre

import (
	"errors"

	"github.com/dep2p/go-zre/internal/core/engine"
)

// 公共错误定义
//
// 引擎返回的错误可以直接用 errors.Is 与这里的变量比较。
var (
	// ────────────────────────────────────────────────────────────────────────
	// 节点生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 节点未启动
	ErrNotStarted = errors.New("zre: node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = engine.ErrAlreadyStarted

	// ErrNodeClosed 节点已关闭
	ErrNodeClosed = engine.ErrClosed

	// ErrNoEndpoint 信标已禁用且未设置 endpoint
	ErrNoEndpoint = engine.ErrNoEndpoint

	// ErrEndpointBind 绑定收件箱失败
	ErrEndpointBind = engine.ErrEndpointBind

	// ErrBeaconBind 创建 UDP 信标失败
	ErrBeaconBind = engine.ErrBeaconBind

	// ────────────────────────────────────────────────────────────────────────
	// 命令错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrUnknownPeer 对端不存在
	ErrUnknownPeer = engine.ErrUnknownPeer

	// ErrInvalidIdentity 无法解析的 UUID
	ErrInvalidIdentity = engine.ErrInvalidIdentity

	// ErrUnknownCommand 未知命令
	ErrUnknownCommand = engine.ErrUnknownCommand
)
