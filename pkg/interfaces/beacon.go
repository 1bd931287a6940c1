package interfaces

import "time"

// BeaconConfig 信标构造参数
type BeaconConfig struct {
	// Port UDP 端口
	Port int

	// Interface 网卡名，空或 "*" 表示所有网卡
	Interface string

	// Broadcast 广播地址覆盖（测试时可设为 127.0.0.1）
	Broadcast string
}

// BeaconSignal 收到的信标
type BeaconSignal struct {
	// Addr 发送方 IP 地址
	Addr string

	// Payload 原始信标字节
	Payload []byte
}

// Beacon 定义信标服务接口
//
// 周期性广播一段负载，并把匹配过滤前缀、且不是自己回显的负载
// 通过 Signals 交给调用方。
type Beacon interface {
	// Hostname 返回本机用于对外通告的 IP 地址
	Hostname() string

	// Publish 立即发送一次 payload，之后每隔 interval 重复发送
	Publish(payload []byte, interval time.Duration) error

	// Silence 停止广播
	Silence()

	// Subscribe 设置过滤前缀，只有以此前缀开头的负载会被交付
	Subscribe(filter []byte)

	// Unsubscribe 清除过滤前缀，停止交付
	Unsubscribe()

	// Signals 返回收到的信标通道
	Signals() <-chan BeaconSignal

	// Close 关闭信标
	Close() error
}

// BeaconFactory 信标工厂
//
// 引擎在 START 时按当前端口和网卡配置创建信标。
type BeaconFactory func(cfg BeaconConfig) (Beacon, error)
