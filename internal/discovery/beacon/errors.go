package beacon

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrAlreadyClosed 信标已关闭
	ErrAlreadyClosed = errors.New("beacon: already closed")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("beacon: invalid config")

	// ErrNoInterface 找不到指定的网卡
	ErrNoInterface = errors.New("beacon: no usable IPv4 interface")

	// ErrInvalidInterval 广播间隔非法
	ErrInvalidInterval = errors.New("beacon: interval must be positive")
)

// BeaconError 信标错误
type BeaconError struct {
	Op      string // 操作名称
	Err     error  // 原始错误
	Message string // 错误信息
}

// Error 实现 error 接口
func (e *BeaconError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("beacon: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("beacon: %s: %s", e.Op, e.Message)
}

// Unwrap 支持 errors.Unwrap
func (e *BeaconError) Unwrap() error {
	return e.Err
}

// NewBeaconError 创建信标错误
func NewBeaconError(op string, err error, message string) *BeaconError {
	return &BeaconError{
		Op:      op,
		Err:     err,
		Message: message,
	}
}
