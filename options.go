package zre

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-zre/config"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/types"
)

// Option 节点配置选项
type Option func(*options) error

// options 节点内部配置
type options struct {
	// config 统一配置
	config *config.Config

	// 外部注入的组件，为 nil 时按配置创建
	transport  pkgif.Transport
	beacons    pkgif.BeaconFactory
	registerer prometheus.Registerer
	clock      clock.Clock

	// userFxOptions 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{config: config.NewConfig()}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置选项
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 替换之前设置的所有配置项，应放在其他选项之前。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		o.config = cfg.Clone()
		return nil
	}
}

// WithName 设置节点名称
//
// 未设置时使用 UUID 的前 6 个字符。
func WithName(name string) Option {
	return func(o *options) error {
		if len(name) > 255 {
			return fmt.Errorf("节点名称过长: %d 字节", len(name))
		}
		o.config.Node.Name = name
		return nil
	}
}

// WithIdentity 使用固定的节点标识
func WithIdentity(id types.NodeID) Option {
	return func(o *options) error {
		if id.IsEmpty() {
			return ErrInvalidIdentity
		}
		o.config.Node.UUID = id.String()
		return nil
	}
}

// WithHeader 设置随 HELLO 发送的头部
func WithHeader(key, value string) Option {
	return func(o *options) error {
		if key == "" || len(key) > 255 {
			return fmt.Errorf("无效的头部名称: %q", key)
		}
		if o.config.Node.Headers == nil {
			o.config.Node.Headers = make(map[string]string)
		}
		o.config.Node.Headers[key] = value
		return nil
	}
}

// WithGroups 设置创建后自动加入的群组
func WithGroups(groups ...string) Option {
	return func(o *options) error {
		o.config.Node.Groups = append(o.config.Node.Groups, groups...)
		return nil
	}
}

// WithPort 设置 UDP 信标端口
//
// port=0 表示禁用信标，此时需要通过 SetEndpoint 显式绑定收件箱。
func WithPort(port int) Option {
	return func(o *options) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("无效的端口号: %d", port)
		}
		o.config.Beacon.Port = port
		return nil
	}
}

// WithInterval 设置信标广播间隔
func WithInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("无效的信标间隔: %s", d)
		}
		o.config.Beacon.Interval = config.Duration(d)
		return nil
	}
}

// WithInterface 设置信标使用的网卡
//
// 空字符串或 "*" 表示所有网卡。
func WithInterface(name string) Option {
	return func(o *options) error {
		o.config.Beacon.Interface = name
		return nil
	}
}

// WithBroadcast 覆盖信标广播地址
//
// 同一主机上的测试可设为 127.0.0.1。
func WithBroadcast(addr string) Option {
	return func(o *options) error {
		o.config.Beacon.Broadcast = addr
		return nil
	}
}

// WithLiveness 设置存活检测阈值
func WithLiveness(evasive, expired time.Duration) Option {
	return func(o *options) error {
		if evasive <= 0 || expired <= evasive {
			return fmt.Errorf("无效的存活阈值: evasive=%s expired=%s", evasive, expired)
		}
		o.config.Liveness.Evasive = config.Duration(evasive)
		o.config.Liveness.Expired = config.Duration(expired)
		return nil
	}
}

// WithVerbose 开启协议跟踪日志
func WithVerbose(verbose bool) Option {
	return func(o *options) error {
		o.config.Log.Verbose = verbose
		return nil
	}
}

// WithEventBuffer 设置事件通道容量
func WithEventBuffer(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("无效的事件通道容量: %d", n)
		}
		o.config.Events.Buffer = n
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              组件注入
// ════════════════════════════════════════════════════════════════════════════

// WithTransport 使用外部传输
//
// 测试中可注入进程内网络。
func WithTransport(tr pkgif.Transport) Option {
	return func(o *options) error {
		if tr == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = tr
		return nil
	}
}

// WithBeaconFactory 使用外部信标工厂
func WithBeaconFactory(f pkgif.BeaconFactory) Option {
	return func(o *options) error {
		if f == nil {
			return errors.New("beacon factory must not be nil")
		}
		o.beacons = f
		return nil
	}
}

// WithRegisterer 启用 Prometheus 指标并注册到 reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		o.config.Metrics.Enabled = true
		return nil
	}
}

// WithClock 使用外部时钟
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		o.clock = clk
		return nil
	}
}

// WithFxOption 追加自定义 Fx 选项
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
