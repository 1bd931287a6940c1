package types

import (
	"errors"
	"net"
	"strconv"
	"strings"
)

// ============================================================================
//                              Endpoint - 连接地址
// ============================================================================

// EndpointScheme endpoint 协议前缀
const EndpointScheme = "tcp://"

// ErrInvalidEndpoint 无效的 endpoint
var ErrInvalidEndpoint = errors.New("invalid endpoint: must be tcp://host:port")

// FormatEndpoint 生成 endpoint 字符串
func FormatEndpoint(host string, port int) string {
	return EndpointScheme + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseEndpoint 解析 endpoint 字符串
//
// 接受 tcp://host:port，端口范围 [0, 65535]。
func ParseEndpoint(endpoint string) (host string, port int, err error) {
	if !strings.HasPrefix(endpoint, EndpointScheme) {
		return "", 0, ErrInvalidEndpoint
	}
	host, p, err := net.SplitHostPort(strings.TrimPrefix(endpoint, EndpointScheme))
	if err != nil || host == "" {
		return "", 0, ErrInvalidEndpoint
	}
	port, err = strconv.Atoi(p)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, ErrInvalidEndpoint
	}
	return host, port, nil
}
