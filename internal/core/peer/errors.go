package peer

import (
	"errors"
	"fmt"
)

// 对端错误
var (
	// ErrAlreadyConnected 重复连接
	ErrAlreadyConnected = errors.New("peer: already connected")

	// ErrNoTransport 未提供传输
	ErrNoTransport = errors.New("peer: no transport")
)

// ConnectionError 连接失败
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("peer: connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
