// Package message 实现 ZRE 协议消息的编解码
//
// 每条消息由一个头部帧和可选的内容帧组成：
//
//	头部帧: signature(2) id(1) version(1) sequence(2) body...
//	内容帧: WHISPER / SHOUT 的负载，逐帧附在头部帧之后
//
// 所有多字节整数使用大端序。短字符串使用 1 字节长度前缀（最长 255 字节），
// 长字符串和计数使用 4 字节长度前缀。
package message

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================================
//                              协议常量
// ============================================================================

const (
	// Signature 帧签名（0xAAA0 | 1）
	Signature uint16 = 0xAAA0 | 1

	// Version 协议版本，仅接受 2
	Version byte = 2

	// MaxStringLen 短字符串最大长度
	MaxStringLen = 255
)

// Type 消息类型
type Type byte

const (
	// TypeHello 握手消息
	TypeHello Type = 1
	// TypeWhisper 单播消息
	TypeWhisper Type = 2
	// TypeShout 群组广播消息
	TypeShout Type = 3
	// TypeJoin 加入群组
	TypeJoin Type = 4
	// TypeLeave 离开群组
	TypeLeave Type = 5
	// TypePing 存活探测
	TypePing Type = 6
	// TypePingOK 存活探测应答
	TypePingOK Type = 7
)

// String 返回消息类型名称
func (t Type) String() string {
	switch t {
	case TypeHello:
		return "HELLO"
	case TypeWhisper:
		return "WHISPER"
	case TypeShout:
		return "SHOUT"
	case TypeJoin:
		return "JOIN"
	case TypeLeave:
		return "LEAVE"
	case TypePing:
		return "PING"
	case TypePingOK:
		return "PING-OK"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", byte(t))
	}
}

// Valid 检查消息类型是否已定义
func (t Type) Valid() bool {
	return t >= TypeHello && t <= TypePingOK
}

// hasContent 返回该类型是否携带内容帧
func (t Type) hasContent() bool {
	return t == TypeWhisper || t == TypeShout
}

// ============================================================================
//                              Message
// ============================================================================

// Message ZRE 协议消息
//
// 不同类型只使用部分字段：
//   - HELLO: Endpoint, Groups, Status, Name, Headers
//   - WHISPER: Content
//   - SHOUT: Group, Content
//   - JOIN / LEAVE: Group, Status
//   - PING / PING-OK: 无
type Message struct {
	Type     Type
	Version  byte
	Sequence uint16

	Endpoint string
	Groups   []string
	Status   byte
	Name     string
	Headers  map[string]string

	Group   string
	Content [][]byte
}

// New 创建指定类型的空消息
func New(t Type) *Message {
	return &Message{Type: t, Version: Version}
}

// NewHello 创建 HELLO 消息
func NewHello(endpoint string, groups []string, status byte, name string, headers map[string]string) *Message {
	m := New(TypeHello)
	m.Endpoint = endpoint
	m.Groups = append([]string(nil), groups...)
	m.Status = status
	m.Name = name
	m.Headers = copyHeaders(headers)
	return m
}

// NewWhisper 创建 WHISPER 消息
func NewWhisper(content ...[]byte) *Message {
	m := New(TypeWhisper)
	m.Content = copyFrames(content)
	return m
}

// NewShout 创建 SHOUT 消息
func NewShout(group string, content ...[]byte) *Message {
	m := New(TypeShout)
	m.Group = group
	m.Content = copyFrames(content)
	return m
}

// NewJoin 创建 JOIN 消息
func NewJoin(group string, status byte) *Message {
	m := New(TypeJoin)
	m.Group = group
	m.Status = status
	return m
}

// NewLeave 创建 LEAVE 消息
func NewLeave(group string, status byte) *Message {
	m := New(TypeLeave)
	m.Group = group
	m.Status = status
	return m
}

// NewPing 创建 PING 消息
func NewPing() *Message {
	return New(TypePing)
}

// NewPingOK 创建 PING-OK 消息
func NewPingOK() *Message {
	return New(TypePingOK)
}

// Duplicate 深拷贝消息
//
// 群组扇出时每个成员拿到独立副本，各自写入自己的序列号。
func (m *Message) Duplicate() *Message {
	if m == nil {
		return nil
	}
	dup := *m
	if m.Groups != nil {
		dup.Groups = append([]string(nil), m.Groups...)
	}
	dup.Headers = copyHeaders(m.Headers)
	dup.Content = copyFrames(m.Content)
	return &dup
}

// String 返回消息的可读表示（用于 DUMP 和调试日志）
func (m *Message) String() string {
	if m == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s seq=%d", m.Type, m.Sequence)
	switch m.Type {
	case TypeHello:
		fmt.Fprintf(&b, " endpoint=%s name=%s status=%d groups=%v", m.Endpoint, m.Name, m.Status, m.Groups)
		if len(m.Headers) > 0 {
			fmt.Fprintf(&b, " headers=%v", sortedKeys(m.Headers))
		}
	case TypeShout:
		fmt.Fprintf(&b, " group=%s frames=%d", m.Group, len(m.Content))
	case TypeWhisper:
		fmt.Fprintf(&b, " frames=%d", len(m.Content))
	case TypeJoin, TypeLeave:
		fmt.Fprintf(&b, " group=%s status=%d", m.Group, m.Status)
	}
	return b.String()
}

// ============================================================================
//                              辅助函数
// ============================================================================

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func copyFrames(frames [][]byte) [][]byte {
	if frames == nil {
		return nil
	}
	out := make([][]byte, len(frames))
	for i, f := range frames {
		out[i] = append([]byte{}, f...)
	}
	return out
}

func sortedKeys(h map[string]string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
