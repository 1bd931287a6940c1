package transport

import (
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-zre/config"
	"github.com/dep2p/go-zre/internal/core/transport/memory"
	"github.com/dep2p/go-zre/internal/core/transport/zmq"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
)

var logger = log.Logger("core/transport")

// Config 传输层配置
type Config struct {
	// Kind 传输实现（zmq / memory）
	Kind string

	// DialTimeout 拨号超时
	DialTimeout time.Duration

	// DialRetry 拨号重试间隔
	DialRetry time.Duration

	// SendQueue 排队上限
	SendQueue int

	// Network memory 传输共享的网络，为 nil 时新建
	Network *memory.Network
}

// NewConfig 创建默认配置
func NewConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建传输配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Config{
		Kind:        cfg.Transport.Kind,
		DialTimeout: cfg.Transport.DialTimeout.Duration(),
		DialRetry:   cfg.Transport.DialRetry.Duration(),
		SendQueue:   cfg.Transport.SendQueue,
	}
}

// New 按配置创建传输
func New(cfg Config) (pkgif.Transport, error) {
	logger.Debug("创建传输", "kind", cfg.Kind)
	switch cfg.Kind {
	case config.TransportZMQ, "":
		zc := zmq.DefaultConfig()
		zc.ApplyOptions(
			zmq.WithDialTimeout(cfg.DialTimeout),
			zmq.WithDialRetry(cfg.DialRetry),
			zmq.WithSendQueue(cfg.SendQueue),
		)
		tr, err := zmq.New(zc)
		if err != nil {
			return nil, err
		}
		return tr, nil
	case config.TransportMemory:
		if cfg.Network != nil {
			return cfg.Network, nil
		}
		return memory.NewNetworkWithQueue(cfg.SendQueue), nil
	default:
		return nil, ErrUnknownKind
	}
}

// Module 返回 Fx 模块
var Module = fx.Module("core/transport",
	fx.Provide(ProvideTransport),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	UnifiedCfg *config.Config  `optional:"true"`
	Override   pkgif.Transport `name:"transport_override" optional:"true"`
	Network    *memory.Network `optional:"true"`
}

// ModuleOutput Fx 输出参数
type ModuleOutput struct {
	fx.Out
	Transport pkgif.Transport
}

// ProvideTransport 提供传输
//
// 优先使用外部注入的传输（WithTransport 选项）。
func ProvideTransport(input ModuleInput) (ModuleOutput, error) {
	if input.Override != nil {
		return ModuleOutput{Transport: input.Override}, nil
	}
	cfg := ConfigFromUnified(input.UnifiedCfg)
	cfg.Network = input.Network
	tr, err := New(cfg)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Transport: tr}, nil
}
