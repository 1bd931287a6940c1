package types

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ============================================================================
//                              NodeID - 节点标识
// ============================================================================

// NodeIDLen NodeID 字节长度
const NodeIDLen = 16

// RoutingIDPrefix 路由标识前缀字节
//
// 传输层身份为 0x01 + 16 字节 NodeID，避免以保留字节 0x00 开头。
const RoutingIDPrefix byte = 0x01

// RoutingIDLen 路由标识长度
const RoutingIDLen = NodeIDLen + 1

// NodeID 节点唯一标识符（16 字节 UUID）
//
// 外部表示格式：32 位大写十六进制，无分隔符。
type NodeID [NodeIDLen]byte

// EmptyNodeID 空节点ID
var EmptyNodeID NodeID

// ErrInvalidNodeID 无效的节点ID错误
var ErrInvalidNodeID = errors.New("invalid node ID: must be a 16-byte UUID")

// ErrInvalidRoutingID 无效的路由标识错误
var ErrInvalidRoutingID = errors.New("invalid routing ID: must be 0x01 + 16 bytes")

// NewNodeID 生成随机 NodeID
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

// String 返回 NodeID 的十六进制字符串表示
func (id NodeID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(id[:]))
}

// ShortString 返回 NodeID 的短字符串表示（前 8 个字符）
func (id NodeID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// Bytes 返回 NodeID 的字节切片
func (id NodeID) Bytes() []byte {
	b := make([]byte, NodeIDLen)
	copy(b, id[:])
	return b
}

// IsEmpty 检查 NodeID 是否为空
func (id NodeID) IsEmpty() bool {
	return id == EmptyNodeID
}

// RoutingID 返回传输层路由标识（0x01 + 16 字节）
func (id NodeID) RoutingID() []byte {
	b := make([]byte, RoutingIDLen)
	b[0] = RoutingIDPrefix
	copy(b[1:], id[:])
	return b
}

// NodeIDFromBytes 从字节切片创建 NodeID
func NodeIDFromBytes(b []byte) (NodeID, error) {
	if len(b) != NodeIDLen {
		return EmptyNodeID, ErrInvalidNodeID
	}
	var id NodeID
	copy(id[:], b)
	return id, nil
}

// NodeIDFromRoutingID 从传输层路由标识解析 NodeID
//
// 长度必须恰好为 17 字节，首字节为 0x01。
func NodeIDFromRoutingID(b []byte) (NodeID, error) {
	if len(b) != RoutingIDLen || b[0] != RoutingIDPrefix {
		return EmptyNodeID, ErrInvalidRoutingID
	}
	var id NodeID
	copy(id[:], b[1:])
	return id, nil
}

// ParseNodeID 从字符串解析 NodeID
//
// 支持 32 位十六进制以及标准 UUID 格式（带连字符）。
func ParseNodeID(s string) (NodeID, error) {
	if s == "" {
		return EmptyNodeID, ErrInvalidNodeID
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return EmptyNodeID, ErrInvalidNodeID
	}
	return NodeID(u), nil
}
