package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidateAll 验证整个配置的有效性
//
// 这是 Config.Validate() 的别名，提供更明确的语义。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - evasive 不小于 expired -> 交换值
//   - 非正的时长 -> 使用默认值
//   - 空的传输类型或日志级别 -> 使用默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	defaults := NewConfig()

	if c.Beacon.Interval <= 0 {
		c.Beacon.Interval = defaults.Beacon.Interval
	}
	if c.Liveness.Tick <= 0 {
		c.Liveness.Tick = defaults.Liveness.Tick
	}
	if c.Liveness.Evasive <= 0 {
		c.Liveness.Evasive = defaults.Liveness.Evasive
	}
	if c.Liveness.Expired <= 0 {
		c.Liveness.Expired = defaults.Liveness.Expired
	}
	if c.Liveness.Evasive > c.Liveness.Expired {
		c.Liveness.Evasive, c.Liveness.Expired = c.Liveness.Expired, c.Liveness.Evasive
	}
	if c.Liveness.Evasive == c.Liveness.Expired {
		c.Liveness.Expired += Duration(time.Second)
	}
	if c.Transport.Kind == "" {
		c.Transport.Kind = defaults.Transport.Kind
	}
	if c.Transport.DialTimeout <= 0 {
		c.Transport.DialTimeout = defaults.Transport.DialTimeout
	}
	if c.Transport.DialRetry <= 0 {
		c.Transport.DialRetry = defaults.Transport.DialRetry
	}
	if c.Transport.SendQueue <= 0 {
		c.Transport.SendQueue = defaults.Transport.SendQueue
	}
	if c.Events.Buffer <= 0 {
		c.Events.Buffer = defaults.Events.Buffer
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}

	// 验证修复后的配置
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}

	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
