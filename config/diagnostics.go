package config

import (
	"errors"
	"strings"
)

// LogConfig 日志配置
type LogConfig struct {
	// Verbose 协议跟踪日志
	Verbose bool `json:"verbose"`

	// Level 日志级别：debug、info、warn、error
	Level string `json:"level"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info"}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return errors.New("log level must be debug, info, warn or error")
}

// EventsConfig 应用事件通道配置
type EventsConfig struct {
	// Buffer 事件通道容量，满时丢弃新事件
	Buffer int `json:"buffer"`
}

// DefaultEventsConfig 返回默认事件配置
func DefaultEventsConfig() EventsConfig {
	return EventsConfig{Buffer: 1024}
}

// Validate 验证事件配置
func (c EventsConfig) Validate() error {
	if c.Buffer <= 0 {
		return errors.New("events buffer must be positive")
	}
	return nil
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// Enabled 是否注册 Prometheus 指标
	Enabled bool `json:"enabled"`

	// Namespace 指标命名空间
	Namespace string `json:"namespace"`

	// ListenAddr /metrics 监听地址（仅 CLI 使用）
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{Namespace: "zre"}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.Enabled && c.Namespace == "" {
		return errors.New("metrics namespace must not be empty when enabled")
	}
	return nil
}
