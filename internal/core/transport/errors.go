package transport

import "errors"

var (
	// ErrUnknownKind 未知的传输实现
	ErrUnknownKind = errors.New("transport: unknown transport kind")
)
