package config

import (
	"errors"
	"time"
)

// 传输实现
const (
	// TransportZMQ 基于 ZMTP 的 TCP 传输
	TransportZMQ = "zmq"

	// TransportMemory 进程内传输（测试和演示）
	TransportMemory = "memory"
)

// TransportConfig 传输配置
type TransportConfig struct {
	// Kind 传输实现：zmq 或 memory
	Kind string `json:"kind"`

	// DialTimeout 单次拨号超时
	DialTimeout Duration `json:"dial_timeout"`

	// DialRetry 拨号失败后的重试间隔
	DialRetry Duration `json:"dial_retry"`

	// SendQueue 每个发件箱的排队上限
	SendQueue int `json:"send_queue"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Kind:        TransportZMQ,
		DialTimeout: Duration(5 * time.Second),
		DialRetry:   Duration(250 * time.Millisecond),
		SendQueue:   1000,
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	switch c.Kind {
	case TransportZMQ, TransportMemory:
	default:
		return errors.New("transport kind must be zmq or memory")
	}
	if c.DialTimeout <= 0 || c.DialRetry <= 0 {
		return errors.New("transport dial timeout and retry must be positive")
	}
	if c.SendQueue <= 0 {
		return errors.New("transport send queue must be positive")
	}
	return nil
}
