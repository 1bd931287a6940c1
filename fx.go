package zre

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-zre/internal/core/engine"
	"github.com/dep2p/go-zre/internal/core/metrics"
	"github.com/dep2p/go-zre/internal/core/transport"
	"github.com/dep2p/go-zre/internal/discovery/beacon"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
	"github.com/dep2p/go-zre/pkg/lib/log"
)

var fxLogger = log.Logger("zre/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. Transport: zmq 或 memory
//  2. Beacon: UDP 信标工厂
//  3. Metrics: Prometheus 或 Nop
//  4. Engine: 事件循环，随 Fx 生命周期启停
func buildFxApp(o *options, node *Node) (*fx.App, error) {
	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if err := o.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 基础配置
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Supply(o.config),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 外部注入的组件
	// ════════════════════════════════════════════════════════════════════════
	if o.transport != nil {
		tr := o.transport
		modules = append(modules, fx.Provide(fx.Annotate(
			func() pkgif.Transport { return tr },
			fx.ResultTags(`name:"transport_override"`),
		)))
		fxLogger.Debug("使用外部传输")
	}
	if o.beacons != nil {
		f := o.beacons
		modules = append(modules, fx.Provide(fx.Annotate(
			func() pkgif.BeaconFactory { return f },
			fx.ResultTags(`name:"beacon_override"`),
		)))
		fxLogger.Debug("使用外部信标工厂")
	}
	if o.registerer != nil {
		reg := o.registerer
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return reg }))
	}
	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. 核心模块
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		transport.Module,
		beacon.Module,
		metrics.Module,
		engine.Module,
	)

	// ════════════════════════════════════════════════════════════════════════
	// 5. 用户自定义 Fx 选项
	// ════════════════════════════════════════════════════════════════════════
	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 6. Node 组件注入
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules, fx.Populate(&node.engine))

	// ════════════════════════════════════════════════════════════════════════
	// 7. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	return app, nil
}
