//go:build linux

package beacon

import "golang.org/x/sys/unix"

// bindDevice 通过 SO_BINDTODEVICE 只接收指定网卡的数据报
func bindDevice(fd int, device string) error {
	return unix.BindToDevice(fd, device)
}
