package config

import (
	"errors"
	"net"
	"time"
)

// DefaultBeaconPort ZRE 信标默认 UDP 端口
const DefaultBeaconPort = 5670

// BeaconConfig 信标发现配置
type BeaconConfig struct {
	// Port UDP 端口，0 表示禁用信标（需要使用 Gossip 或显式 endpoint）
	Port int `json:"port"`

	// Interval 广播间隔，默认 1s
	Interval Duration `json:"interval"`

	// Interface 网卡名，空或 "*" 表示所有网卡
	Interface string `json:"interface,omitempty"`

	// Broadcast 广播地址覆盖，为空时按网卡推导
	Broadcast string `json:"broadcast,omitempty"`
}

// DefaultBeaconConfig 返回默认信标配置
func DefaultBeaconConfig() BeaconConfig {
	return BeaconConfig{
		Port:     DefaultBeaconPort,
		Interval: Duration(time.Second),
	}
}

// Validate 验证信标配置
func (c BeaconConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("beacon port must be in [0, 65535]")
	}
	if c.Interval <= 0 {
		return errors.New("beacon interval must be positive")
	}
	if c.Broadcast != "" && net.ParseIP(c.Broadcast) == nil {
		return errors.New("beacon broadcast must be an IP address")
	}
	return nil
}

// LivenessConfig 存活检测配置
type LivenessConfig struct {
	// Evasive 静默多久视为 evasive，默认 10s
	Evasive Duration `json:"evasive"`

	// Expired 静默多久视为过期并移除，默认 30s
	Expired Duration `json:"expired"`

	// Tick 存活扫描间隔，默认 1s
	Tick Duration `json:"tick"`
}

// DefaultLivenessConfig 返回默认存活检测配置
func DefaultLivenessConfig() LivenessConfig {
	return LivenessConfig{
		Evasive: Duration(10 * time.Second),
		Expired: Duration(30 * time.Second),
		Tick:    Duration(time.Second),
	}
}

// Validate 验证存活检测配置
func (c LivenessConfig) Validate() error {
	if c.Evasive <= 0 || c.Expired <= 0 || c.Tick <= 0 {
		return errors.New("liveness durations must be positive")
	}
	if c.Evasive >= c.Expired {
		return errors.New("liveness evasive must be shorter than expired")
	}
	return nil
}
