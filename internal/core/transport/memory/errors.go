package memory

import "errors"

// ErrAddressInUse endpoint 已被占用
var ErrAddressInUse = errors.New("memory: address already in use")
