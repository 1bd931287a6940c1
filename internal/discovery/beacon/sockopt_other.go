//go:build !unix

package beacon

import "syscall"

// socketControl 非 unix 平台依赖系统默认的广播权限，不绑定网卡
func socketControl(_ string) func(network, address string, c syscall.RawConn) error {
	return func(_, _ string, _ syscall.RawConn) error {
		return nil
	}
}
