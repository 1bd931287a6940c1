package engine

import (
	"errors"
	"fmt"
)

// 引擎错误
var (
	// ErrClosed 引擎已退出
	ErrClosed = errors.New("engine: closed")

	// ErrAlreadyStarted 重复启动，或启动后修改标识
	ErrAlreadyStarted = errors.New("engine: already started")

	// ErrNoEndpoint 信标已禁用且未设置 endpoint
	ErrNoEndpoint = errors.New("engine: beacon disabled and no endpoint set")

	// ErrEndpointBind 绑定收件箱失败
	ErrEndpointBind = errors.New("engine: endpoint bind failed")

	// ErrBeaconBind 创建信标失败
	ErrBeaconBind = errors.New("engine: beacon bind failed")

	// ErrUnknownCommand 未知命令
	ErrUnknownCommand = errors.New("engine: unknown command")

	// ErrMissingArgument 命令缺少参数
	ErrMissingArgument = errors.New("engine: missing argument")

	// ErrUnknownPeer 对端不存在
	ErrUnknownPeer = errors.New("engine: unknown peer")

	// ErrInvalidIdentity 标识无法解析
	ErrInvalidIdentity = errors.New("engine: invalid identity")

	// ErrNoTransport 未提供传输
	ErrNoTransport = errors.New("engine: no transport")
)

// EngineError 引擎操作错误
type EngineError struct {
	Op      string
	Err     error
	Message string
}

func (e *EngineError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("engine %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError 创建引擎错误
func NewEngineError(op string, err error, message string) *EngineError {
	return &EngineError{Op: op, Err: err, Message: message}
}
