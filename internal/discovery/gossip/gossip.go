// Package gossip 是 ZRE gossip 发现的扩展点
//
// 当前只记录 bind / connect 的 endpoint，不实现 gossip 协议本身。
// 引擎在首次使用 gossip 或显式 endpoint 时创建 Service，并禁用 UDP 信标。
package gossip

import (
	"errors"

	"github.com/dep2p/go-zre/pkg/lib/log"
	"github.com/dep2p/go-zre/pkg/types"
)

var logger = log.Logger("discovery/gossip")

// ErrEmptyEndpoint endpoint 为空
var ErrEmptyEndpoint = errors.New("gossip: empty endpoint")

// Service gossip 服务
type Service struct {
	bind     string
	connects []string
	verbose  bool
}

// New 创建 gossip 服务
func New(verbose bool) *Service {
	logger.Trace(verbose, "gossip 已启用，UDP 信标将被禁用")
	return &Service{verbose: verbose}
}

// SetVerbose 开关跟踪日志
func (s *Service) SetVerbose(v bool) { s.verbose = v }

// Bind 记录监听 endpoint
func (s *Service) Bind(endpoint string) error {
	if err := check(endpoint); err != nil {
		return err
	}
	s.bind = endpoint
	logger.Trace(s.verbose, "gossip bind", "endpoint", endpoint)
	return nil
}

// Connect 记录要连接的 endpoint
func (s *Service) Connect(endpoint string) error {
	if err := check(endpoint); err != nil {
		return err
	}
	for _, c := range s.connects {
		if c == endpoint {
			return nil
		}
	}
	s.connects = append(s.connects, endpoint)
	logger.Trace(s.verbose, "gossip connect", "endpoint", endpoint)
	return nil
}

// BindEndpoint 返回监听 endpoint
func (s *Service) BindEndpoint() string { return s.bind }

// Connects 返回已记录的连接 endpoint
func (s *Service) Connects() []string {
	return append([]string(nil), s.connects...)
}

func check(endpoint string) error {
	if endpoint == "" {
		return ErrEmptyEndpoint
	}
	if _, _, err := types.ParseEndpoint(endpoint); err != nil {
		return err
	}
	return nil
}
