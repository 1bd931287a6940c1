// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Node.Name = "alice"
//	cfg.Beacon.Interval = config.Duration(500 * time.Millisecond)
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config 是 go-zre 的完整配置结构
//
// 配置按照功能模块组织：
//   - Node: 节点身份、名称和头部
//   - Beacon: UDP 信标发现
//   - Liveness: 存活检测阈值
//   - Transport: 消息传输
//   - Log: 日志
//   - Events: 应用事件通道
//   - Metrics: Prometheus 指标
type Config struct {
	// Node 节点配置
	Node NodeConfig `json:"node"`

	// Beacon 信标配置
	Beacon BeaconConfig `json:"beacon"`

	// Liveness 存活检测配置
	Liveness LivenessConfig `json:"liveness"`

	// Transport 传输配置
	Transport TransportConfig `json:"transport"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Events 事件通道配置
	Events EventsConfig `json:"events"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数局域网场景。
func NewConfig() *Config {
	return &Config{
		Node:      DefaultNodeConfig(),
		Beacon:    DefaultBeaconConfig(),
		Liveness:  DefaultLivenessConfig(),
		Transport: DefaultTransportConfig(),
		Log:       DefaultLogConfig(),
		Events:    DefaultEventsConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
func (c *Config) Validate() error {
	if err := c.Node.Validate(); err != nil {
		return err
	}
	if err := c.Beacon.Validate(); err != nil {
		return err
	}
	if err := c.Liveness.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	return c.Metrics.Validate()
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	if c.Node.Headers != nil {
		out.Node.Headers = make(map[string]string, len(c.Node.Headers))
		for k, v := range c.Node.Headers {
			out.Node.Headers[k] = v
		}
	}
	return &out
}

// FromJSON 从 JSON 加载配置
//
// 未出现的字段保留默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile 从 JSON 文件加载配置
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return FromJSON(data)
}

// ToJSON 将配置序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
