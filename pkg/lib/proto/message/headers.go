package message

import (
	"encoding/binary"
	"math"
	"sort"
	"unicode/utf8"
)

// ============================================================================
//                              头部打包
// ============================================================================

// PackHeaders 打包头部映射
//
// 格式为连续的 (2 字节键长 + 键, 4 字节值长 + 值)，键值均为 UTF-8，
// 按键排序输出。键超过 65535 字节时返回 ErrInvalidHeaders。
func PackHeaders(headers map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(headers))
	size := 0
	for k, v := range headers {
		if len(k) > math.MaxUint16 || uint64(len(v)) > math.MaxUint32 {
			return nil, ErrInvalidHeaders
		}
		keys = append(keys, k)
		size += 2 + len(k) + 4 + len(v)
	}
	sort.Strings(keys)

	buf := make([]byte, size)
	off := 0
	for _, k := range keys {
		v := headers[k]
		binary.BigEndian.PutUint16(buf[off:], uint16(len(k)))
		off += 2
		off += copy(buf[off:], k)
		binary.BigEndian.PutUint32(buf[off:], uint32(len(v)))
		off += 4
		off += copy(buf[off:], v)
	}
	return buf, nil
}

// UnpackHeaders 解包头部映射
//
// 必须恰好消费完整个缓冲区，否则返回 ErrInvalidHeaders。
func UnpackHeaders(data []byte) (map[string]string, error) {
	headers := make(map[string]string)
	r := newReader(data)
	for r.remaining() > 0 {
		klen, err := r.uint16()
		if err != nil {
			return nil, ErrInvalidHeaders
		}
		k, err := r.take(int(klen))
		if err != nil {
			return nil, ErrInvalidHeaders
		}
		vlen, err := r.uint32()
		if err != nil || uint64(vlen) > uint64(r.remaining()) {
			return nil, ErrInvalidHeaders
		}
		v, err := r.take(int(vlen))
		if err != nil {
			return nil, ErrInvalidHeaders
		}
		if !utf8.Valid(k) || !utf8.Valid(v) {
			return nil, ErrInvalidHeaders
		}
		headers[string(k)] = string(v)
	}
	return headers, nil
}
