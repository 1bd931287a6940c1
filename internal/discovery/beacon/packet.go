package beacon

import (
	"encoding/binary"
	"errors"

	"github.com/dep2p/go-zre/pkg/types"
)

const (
	// Protocol 信标协议标签
	Protocol = "ZRE"

	// PacketVersion 信标版本
	PacketVersion byte = 1

	// PacketSize 信标固定长度：3 + 1 + 16 + 2
	PacketSize = len(Protocol) + 1 + types.NodeIDLen + 2
)

// ErrInvalidPacket 信标长度、标签或版本不合法
var ErrInvalidPacket = errors.New("beacon: invalid packet")

// Packet ZRE 信标
//
//	protocol[3]="ZRE" | version:u8=1 | identity[16] | port:u16 (大端)
//
// Port 为 0 表示节点正在退出。
type Packet struct {
	ID   types.NodeID
	Port uint16
}

// Marshal 编码信标
func (p Packet) Marshal() []byte {
	b := make([]byte, PacketSize)
	copy(b, Protocol)
	b[3] = PacketVersion
	copy(b[4:], p.ID[:])
	binary.BigEndian.PutUint16(b[4+types.NodeIDLen:], p.Port)
	return b
}

// ParsePacket 解码信标，长度必须恰好为 PacketSize
func ParsePacket(b []byte) (Packet, error) {
	if len(b) != PacketSize || string(b[:3]) != Protocol || b[3] != PacketVersion {
		return Packet{}, ErrInvalidPacket
	}
	var p Packet
	copy(p.ID[:], b[4:4+types.NodeIDLen])
	p.Port = binary.BigEndian.Uint16(b[4+types.NodeIDLen:])
	return p, nil
}

// Withdrawal 是否为退出信标
func (p Packet) Withdrawal() bool {
	return p.Port == 0
}
