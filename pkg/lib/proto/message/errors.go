package message

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrEmptyMessage 没有任何帧
	ErrEmptyMessage = errors.New("message: no frames")

	// ErrInvalidSignature 帧签名不匹配
	ErrInvalidSignature = errors.New("message: invalid signature")

	// ErrUnsupportedVersion 协议版本不受支持
	ErrUnsupportedVersion = errors.New("message: unsupported version")

	// ErrUnknownType 未知消息类型
	ErrUnknownType = errors.New("message: unknown message type")

	// ErrTruncated 帧长度不足
	ErrTruncated = errors.New("message: truncated frame")

	// ErrStringTooLong 短字符串超过 255 字节
	ErrStringTooLong = errors.New("message: string exceeds 255 bytes")

	// ErrInvalidHeaders 打包的头部无法完整解析
	ErrInvalidHeaders = errors.New("message: malformed packed headers")
)

// CodecError 编解码错误
type CodecError struct {
	Op    string // 操作名称（encode / decode）
	Field string // 出错字段
	Err   error  // 原始错误
}

// Error 实现 error 接口
func (e *CodecError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("message: %s %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("message: %s: %v", e.Op, e.Err)
}

// Unwrap 支持 errors.Unwrap
func (e *CodecError) Unwrap() error {
	return e.Err
}

func decodeError(field string, err error) error {
	return &CodecError{Op: "decode", Field: field, Err: err}
}

func encodeError(field string, err error) error {
	return &CodecError{Op: "encode", Field: field, Err: err}
}
