package zmq

import (
	"errors"
	"time"
)

const (
	// DefaultDialTimeout 单次拨号超时
	DefaultDialTimeout = 5 * time.Second

	// DefaultDialRetry 拨号重试间隔
	DefaultDialRetry = 250 * time.Millisecond

	// DefaultMaxRetries 单次拨号的最大重试次数，-1 表示不限
	//
	// 对端可能比信标晚就绪，拨号持续到发件箱关闭。
	DefaultMaxRetries = -1

	// DefaultSendQueue 发件箱排队上限
	//
	// 对端未就绪期间消息在此排队，超过即丢弃。
	DefaultSendQueue = 1000
)

// Config zmq 传输配置
type Config struct {
	// DialTimeout 单次拨号超时，默认 5s
	DialTimeout time.Duration

	// DialRetry 拨号重试间隔，默认 250ms
	DialRetry time.Duration

	// MaxRetries 拨号最大重试次数，默认 -1（不限）
	MaxRetries int

	// SendQueue 发件箱排队上限，默认 1000
	SendQueue int
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		DialTimeout: DefaultDialTimeout,
		DialRetry:   DefaultDialRetry,
		MaxRetries:  DefaultMaxRetries,
		SendQueue:   DefaultSendQueue,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial timeout must be positive")
	}
	if c.DialRetry <= 0 {
		return errors.New("dial retry must be positive")
	}
	if c.MaxRetries < -1 {
		return errors.New("max retries must be -1 or non-negative")
	}
	if c.SendQueue <= 0 {
		return errors.New("send queue must be positive")
	}
	return nil
}

// ConfigOption 配置选项函数
type ConfigOption func(*Config)

// ApplyOptions 应用配置选项
func (c *Config) ApplyOptions(opts ...ConfigOption) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithDialTimeout 设置拨号超时
func WithDialTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialTimeout = d
	}
}

// WithDialRetry 设置拨号重试间隔
func WithDialRetry(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DialRetry = d
	}
}

// WithSendQueue 设置发件箱排队上限
func WithSendQueue(n int) ConfigOption {
	return func(c *Config) {
		c.SendQueue = n
	}
}

// WithMaxRetries 设置拨号最大重试次数，-1 表示不限
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}
