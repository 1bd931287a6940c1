package zmq

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("zmq: invalid config")

	// ErrNoAddress 监听后无法获取地址
	ErrNoAddress = errors.New("zmq: listener has no TCP address")
)

// ZMQError 传输错误
type ZMQError struct {
	Op       string // 操作名称（bind / dial / send）
	Endpoint string // 相关 endpoint
	Err      error  // 原始错误
}

// Error 实现 error 接口
func (e *ZMQError) Error() string {
	return fmt.Sprintf("zmq: %s %s: %v", e.Op, e.Endpoint, e.Err)
}

// Unwrap 支持 errors.Unwrap
func (e *ZMQError) Unwrap() error {
	return e.Err
}
