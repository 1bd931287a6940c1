package beacon

import (
	"errors"
	"net"
	"time"

	"github.com/dep2p/go-zre/config"
)

const (
	// DefaultPort ZRE 信标默认端口
	DefaultPort = config.DefaultBeaconPort

	// DefaultInterval 默认广播间隔
	DefaultInterval = time.Second

	// AllInterfaces 绑定所有网卡并发送到受限广播地址
	AllInterfaces = "*"

	// maxDatagram 接收缓冲区大小（UDP 单帧上限内）
	maxDatagram = 255

	// signalBuffer 信标通道容量
	signalBuffer = 256
)

// Config 信标配置
type Config struct {
	// Port UDP 端口，0 表示随机端口（仅测试）
	Port int

	// Interface 网卡名或网卡 IP
	//
	// 为空时选择第一个可用的 IPv4 网卡；"*" 表示所有网卡，发往 255.255.255.255。
	Interface string

	// Broadcast 广播地址覆盖，为空时按网卡推导
	Broadcast string
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Port: DefaultPort,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("port must be in [0, 65535]")
	}
	if c.Broadcast != "" && net.ParseIP(c.Broadcast).To4() == nil {
		return errors.New("broadcast must be an IPv4 address")
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

// WithPort 设置端口
func WithPort(port int) ConfigOption {
	return func(c *Config) {
		c.Port = port
	}
}

// WithInterface 设置网卡
func WithInterface(name string) ConfigOption {
	return func(c *Config) {
		c.Interface = name
	}
}

// WithBroadcast 设置广播地址覆盖
func WithBroadcast(addr string) ConfigOption {
	return func(c *Config) {
		c.Broadcast = addr
	}
}

// ConfigFromUnified 从统一配置创建信标配置
func ConfigFromUnified(cfg *config.Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return &Config{
		Port:      cfg.Beacon.Port,
		Interface: cfg.Beacon.Interface,
		Broadcast: cfg.Beacon.Broadcast,
	}
}
