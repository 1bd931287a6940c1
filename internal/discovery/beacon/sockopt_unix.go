//go:build unix

package beacon

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketControl 设置 SO_REUSEADDR、SO_REUSEPORT 和 SO_BROADCAST
//
// 同一主机上的多个节点需要共享信标端口。device 非空时把套接字绑定到该网卡，
// 平台不支持或权限不足时退化为只按地址选择网卡。
func socketControl(device string) func(network, address string, c syscall.RawConn) error {
	return func(_, _ string, c syscall.RawConn) error {
		var opErr error
		err := c.Control(func(fd uintptr) {
			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
				opErr = fmt.Errorf("set SO_REUSEADDR: %w", err)
				return
			}

			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
				logger.Warn("设置 SO_REUSEPORT 失败（某些系统不支持）", "err", err)
			}

			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
				opErr = fmt.Errorf("set SO_BROADCAST: %w", err)
				return
			}

			if device != "" {
				if err := bindDevice(int(fd), device); err != nil {
					logger.Warn("绑定网卡失败，接收所有网卡的信标", "device", device, "err", err)
				}
			}
		})
		if err != nil {
			return err
		}
		return opErr
	}
}
