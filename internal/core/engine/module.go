package engine

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-zre/config"
	"github.com/dep2p/go-zre/internal/core/metrics"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// UnifiedCfg 统一配置（可选）
	UnifiedCfg *config.Config `optional:"true"`

	// Override 直接注入的引擎配置，优先于统一配置
	Override *Config `name:"engine_config" optional:"true"`

	Transport pkgif.Transport
	Beacons   pkgif.BeaconFactory
	Clock     clock.Clock      `optional:"true"`
	Metrics   metrics.Reporter `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Engine *Engine
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideEngine 提供引擎
func ProvideEngine(input ModuleInput) (ModuleOutput, error) {
	var cfg Config
	if input.Override != nil {
		cfg = *input.Override
	} else {
		c, err := ConfigFromUnified(input.UnifiedCfg)
		if err != nil {
			return ModuleOutput{}, NewEngineError("provide", err, "invalid unified config")
		}
		cfg = c
	}

	e, err := New(cfg, Deps{
		Transport: input.Transport,
		Beacons:   input.Beacons,
		Clock:     input.Clock,
		Metrics:   input.Metrics,
	})
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Engine: e}, nil
}

// ============================================================================
//                              模块定义
// ============================================================================

// Module 是引擎的 Fx 模块
//
// OnStart 启动事件循环，OnStop 发送 $TERM 并等待退出。
var Module = fx.Module("core/engine",
	fx.Provide(ProvideEngine),
	fx.Invoke(registerLifecycle),
)

type lifecycleInput struct {
	fx.In

	LC     fx.Lifecycle
	Engine *Engine
}

func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return input.Engine.Go(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			return input.Engine.Close(ctx)
		},
	})
}
