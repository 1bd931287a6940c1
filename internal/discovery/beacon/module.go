package beacon

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-zre/config"
	pkgif "github.com/dep2p/go-zre/pkg/interfaces"
)

// Module 返回 Fx 模块
//
// 提供 BeaconFactory；信标本身由引擎在 START 时按当前端口和网卡创建。
var Module = fx.Module("discovery/beacon",
	fx.Provide(ProvideFactory),
)

// ModuleInput Fx 输入参数
type ModuleInput struct {
	fx.In
	UnifiedCfg *config.Config      `optional:"true"`
	Override   pkgif.BeaconFactory `name:"beacon_override" optional:"true"`
}

// ProvideFactory 提供 BeaconFactory
//
// 优先使用外部注入的工厂（例如测试中的 Hub）。
func ProvideFactory(input ModuleInput) pkgif.BeaconFactory {
	if input.Override != nil {
		return input.Override
	}
	return Factory(ConfigFromUnified(input.UnifiedCfg).Broadcast)
}
