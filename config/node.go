package config

import (
	"errors"

	"github.com/dep2p/go-zre/pkg/types"
)

// NodeConfig 节点配置
type NodeConfig struct {
	// Name 节点名称，为空时使用 UUID 的前 6 个字符
	Name string `json:"name,omitempty"`

	// UUID 固定节点标识（32 位十六进制），为空时随机生成
	UUID string `json:"uuid,omitempty"`

	// Headers 随 HELLO 发送的头部
	Headers map[string]string `json:"headers,omitempty"`

	// Groups 启动后自动加入的群组
	Groups []string `json:"groups,omitempty"`
}

// DefaultNodeConfig 返回默认节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{}
}

// Validate 验证节点配置
func (c NodeConfig) Validate() error {
	if len(c.Name) > 255 {
		return errors.New("node name must be at most 255 bytes")
	}
	if c.UUID != "" {
		if _, err := types.ParseNodeID(c.UUID); err != nil {
			return errors.New("node uuid must be a valid UUID")
		}
	}
	for k := range c.Headers {
		if k == "" || len(k) > 255 {
			return errors.New("header keys must be 1-255 bytes")
		}
	}
	for _, g := range c.Groups {
		if g == "" || len(g) > 255 {
			return errors.New("group names must be 1-255 bytes")
		}
	}
	return nil
}
