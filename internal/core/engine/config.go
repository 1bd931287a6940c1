package engine

import (
	"errors"
	"time"

	"github.com/dep2p/go-zre/config"
	"github.com/dep2p/go-zre/pkg/types"
)

// 默认值
const (
	DefaultEventBuffer   = 1024
	DefaultCommandBuffer = 64
)

// Config 引擎配置
type Config struct {
	// Name 节点名称，为空时取 UUID 的前 6 个字符
	Name string

	// Identity 节点标识，为空时随机生成
	Identity types.NodeID

	// Headers 随 HELLO 发送的头部
	Headers map[string]string

	// Groups 创建时加入的群组
	Groups []string

	// BeaconPort 信标 UDP 端口，0 表示禁用信标
	BeaconPort int

	// Interval 信标广播间隔
	Interval time.Duration

	// Interface 信标网卡
	Interface string

	// Broadcast 信标广播地址覆盖
	Broadcast string

	// Evasive 静默多久视为 evasive
	Evasive time.Duration

	// Expired 静默多久移除对端
	Expired time.Duration

	// Tick 存活扫描间隔
	Tick time.Duration

	// Verbose 协议跟踪日志
	Verbose bool

	// EventBuffer 事件通道容量
	EventBuffer int

	// CommandBuffer 命令通道容量
	CommandBuffer int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BeaconPort:    config.DefaultBeaconPort,
		Interval:      time.Second,
		Evasive:       10 * time.Second,
		Expired:       30 * time.Second,
		Tick:          time.Second,
		EventBuffer:   DefaultEventBuffer,
		CommandBuffer: DefaultCommandBuffer,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if c.BeaconPort < 0 || c.BeaconPort > 65535 {
		return errors.New("beacon port must be in [0, 65535]")
	}
	if c.Interval <= 0 {
		return errors.New("beacon interval must be positive")
	}
	if c.Evasive <= 0 || c.Expired <= 0 || c.Tick <= 0 {
		return errors.New("liveness durations must be positive")
	}
	if c.Evasive >= c.Expired {
		return errors.New("evasive must be shorter than expired")
	}
	if len(c.Name) > 255 {
		return errors.New("name must be at most 255 bytes")
	}
	if c.EventBuffer < 0 || c.CommandBuffer < 0 {
		return errors.New("buffers must not be negative")
	}
	return nil
}

// ConfigOption 配置选项
type ConfigOption func(*Config)

// WithName 设置节点名称
func WithName(name string) ConfigOption {
	return func(c *Config) { c.Name = name }
}

// WithIdentity 设置节点标识
func WithIdentity(id types.NodeID) ConfigOption {
	return func(c *Config) { c.Identity = id }
}

// WithHeader 设置头部
func WithHeader(key, value string) ConfigOption {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}

// WithBeaconPort 设置信标端口
func WithBeaconPort(port int) ConfigOption {
	return func(c *Config) { c.BeaconPort = port }
}

// WithInterval 设置信标间隔
func WithInterval(d time.Duration) ConfigOption {
	return func(c *Config) { c.Interval = d }
}

// WithInterface 设置信标网卡
func WithInterface(name string) ConfigOption {
	return func(c *Config) { c.Interface = name }
}

// WithLiveness 设置存活阈值
func WithLiveness(evasive, expired, tick time.Duration) ConfigOption {
	return func(c *Config) {
		c.Evasive = evasive
		c.Expired = expired
		c.Tick = tick
	}
}

// WithVerbose 开启协议跟踪日志
func WithVerbose(v bool) ConfigOption {
	return func(c *Config) { c.Verbose = v }
}

// WithEventBuffer 设置事件通道容量
func WithEventBuffer(n int) ConfigOption {
	return func(c *Config) { c.EventBuffer = n }
}

// ApplyOptions 应用配置选项
func (c *Config) ApplyOptions(opts ...ConfigOption) *Config {
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConfigFromUnified 从统一配置创建引擎配置
//
// UUID 非法时返回错误。
func ConfigFromUnified(cfg *config.Config) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}

	c.Name = cfg.Node.Name
	if cfg.Node.UUID != "" {
		id, err := types.ParseNodeID(cfg.Node.UUID)
		if err != nil {
			return c, err
		}
		c.Identity = id
	}
	if len(cfg.Node.Headers) > 0 {
		c.Headers = make(map[string]string, len(cfg.Node.Headers))
		for k, v := range cfg.Node.Headers {
			c.Headers[k] = v
		}
	}
	c.Groups = append([]string(nil), cfg.Node.Groups...)

	c.BeaconPort = cfg.Beacon.Port
	c.Interval = cfg.Beacon.Interval.Duration()
	c.Interface = cfg.Beacon.Interface
	c.Broadcast = cfg.Beacon.Broadcast

	c.Evasive = cfg.Liveness.Evasive.Duration()
	c.Expired = cfg.Liveness.Expired.Duration()
	c.Tick = cfg.Liveness.Tick.Duration()

	c.Verbose = cfg.Log.Verbose
	c.EventBuffer = cfg.Events.Buffer
	return c, nil
}
