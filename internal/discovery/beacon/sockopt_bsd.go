//go:build unix && !linux

package beacon

import "errors"

var errNoBindToDevice = errors.New("SO_BINDTODEVICE not supported")

// bindDevice 非 Linux 平台没有 SO_BINDTODEVICE
func bindDevice(_ int, _ string) error {
	return errNoBindToDevice
}
