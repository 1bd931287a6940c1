package beacon

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ipnet(cidr string) *net.IPNet {
	ip, n, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	n.IP = ip
	return n
}

var testIfaces = []ifaceInfo{
	{Name: "lo", Flags: net.FlagUp | net.FlagLoopback, Addrs: []*net.IPNet{ipnet("127.0.0.1/8")}},
	{Name: "eth0", Flags: net.FlagUp | net.FlagBroadcast, Addrs: []*net.IPNet{ipnet("192.168.1.20/24")}},
	{Name: "eth1", Flags: net.FlagUp | net.FlagBroadcast, Addrs: []*net.IPNet{ipnet("10.1.2.3/16")}},
	{Name: "down0", Flags: net.FlagBroadcast, Addrs: []*net.IPNet{ipnet("172.16.0.1/12")}},
}

// TestSelectRoute_All 测试所有网卡模式
func TestSelectRoute_All(t *testing.T) {
	r, err := selectRoute(testIfaces, AllInterfaces)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", r.hostname)
	assert.True(t, r.broadcast.Equal(net.IPv4bcast))
}

// TestSelectRoute_Default 测试默认网卡选择
func TestSelectRoute_Default(t *testing.T) {
	r, err := selectRoute(testIfaces, "")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", r.hostname)
	assert.Equal(t, "192.168.1.255", r.broadcast.String())
	assert.Empty(t, r.device, "默认选择不绑定网卡")

	// 只有回环网卡时退回回环
	r, err = selectRoute(testIfaces[:1], "")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", r.hostname)
	assert.Equal(t, "127.255.255.255", r.broadcast.String())

	_, err = selectRoute(nil, "")
	assert.ErrorIs(t, err, ErrNoInterface)
}

// TestSelectRoute_Named 测试按名称和 IP 选择网卡
func TestSelectRoute_Named(t *testing.T) {
	r, err := selectRoute(testIfaces, "eth1")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", r.hostname)
	assert.Equal(t, "10.1.255.255", r.broadcast.String())
	assert.Equal(t, "eth1", r.device)

	r, err = selectRoute(testIfaces, "192.168.1.20")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.255", r.broadcast.String())
	assert.Equal(t, "eth0", r.device, "按 IP 选择时记录所属网卡")

	_, err = selectRoute(testIfaces, "down0")
	assert.ErrorIs(t, err, ErrNoInterface)

	_, err = selectRoute(testIfaces, "wlan9")
	assert.ErrorIs(t, err, ErrNoInterface)
}
