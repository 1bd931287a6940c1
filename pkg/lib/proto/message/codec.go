package message

import "sort"

// ============================================================================
//                              编码
// ============================================================================

// headerSize 签名 + 类型 + 版本 + 序列号
const headerSize = 2 + 1 + 1 + 2

// EncodedSize 计算头部帧的精确字节数
//
// 不校验字符串长度，校验在 Encode 中完成。
func EncodedSize(m *Message) int {
	size := headerSize
	switch m.Type {
	case TypeHello:
		size += 1 + len(m.Endpoint)
		size += 4
		for _, g := range m.Groups {
			size += 4 + len(g)
		}
		size += 1
		size += 1 + len(m.Name)
		size += 4
		for k, v := range m.Headers {
			size += 1 + len(k) + 4 + len(v)
		}
	case TypeShout:
		size += 1 + len(m.Group)
	case TypeJoin, TypeLeave:
		size += 1 + len(m.Group) + 1
	}
	return size
}

// Encode 编码消息为帧序列
//
// 第一帧为头部帧，WHISPER / SHOUT 的内容帧依次附在其后；
// 没有内容时补一个空帧，保证接收方至少收到一帧负载。
func Encode(m *Message) ([][]byte, error) {
	if m == nil {
		return nil, encodeError("", ErrEmptyMessage)
	}
	if !m.Type.Valid() {
		return nil, encodeError("type", ErrUnknownType)
	}
	if err := checkStrings(m); err != nil {
		return nil, err
	}

	w := newWriter(EncodedSize(m))
	w.putUint16(Signature)
	w.putUint8(byte(m.Type))
	w.putUint8(Version)
	w.putUint16(m.Sequence)

	switch m.Type {
	case TypeHello:
		w.putString(m.Endpoint)
		w.putUint32(uint32(len(m.Groups)))
		for _, g := range m.Groups {
			w.putLongString(g)
		}
		w.putUint8(m.Status)
		w.putString(m.Name)
		w.putUint32(uint32(len(m.Headers)))
		keys := make([]string, 0, len(m.Headers))
		for k := range m.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.putString(k)
			w.putLongString(m.Headers[k])
		}
	case TypeShout:
		w.putString(m.Group)
	case TypeJoin, TypeLeave:
		w.putString(m.Group)
		w.putUint8(m.Status)
	}

	frames := [][]byte{w.bytes()}
	if m.Type.hasContent() {
		if len(m.Content) == 0 {
			frames = append(frames, []byte{})
		} else {
			frames = append(frames, m.Content...)
		}
	}
	return frames, nil
}

func checkStrings(m *Message) error {
	switch m.Type {
	case TypeHello:
		if len(m.Endpoint) > MaxStringLen {
			return encodeError("endpoint", ErrStringTooLong)
		}
		if len(m.Name) > MaxStringLen {
			return encodeError("name", ErrStringTooLong)
		}
		for k := range m.Headers {
			if len(k) > MaxStringLen {
				return encodeError("header key", ErrStringTooLong)
			}
		}
	case TypeShout, TypeJoin, TypeLeave:
		if len(m.Group) > MaxStringLen {
			return encodeError("group", ErrStringTooLong)
		}
	}
	return nil
}

// ============================================================================
//                              解码
// ============================================================================

// Decode 解码帧序列为消息
//
// frames 不包含传输层的路由标识帧。签名、版本或布局不合法时返回 nil 和错误，
// 调用方应视为静默丢弃。
func Decode(frames [][]byte) (*Message, error) {
	if len(frames) == 0 {
		return nil, decodeError("", ErrEmptyMessage)
	}

	r := newReader(frames[0])
	sig, err := r.uint16()
	if err != nil {
		return nil, decodeError("signature", err)
	}
	if sig != Signature {
		return nil, decodeError("signature", ErrInvalidSignature)
	}
	id, err := r.uint8()
	if err != nil {
		return nil, decodeError("id", err)
	}
	t := Type(id)
	if !t.Valid() {
		return nil, decodeError("id", ErrUnknownType)
	}
	version, err := r.uint8()
	if err != nil {
		return nil, decodeError("version", err)
	}
	if version != Version {
		return nil, decodeError("version", ErrUnsupportedVersion)
	}
	seq, err := r.uint16()
	if err != nil {
		return nil, decodeError("sequence", err)
	}

	m := &Message{Type: t, Version: version, Sequence: seq}
	switch t {
	case TypeHello:
		if err := decodeHello(r, m); err != nil {
			return nil, err
		}
	case TypeShout:
		if m.Group, err = r.string(); err != nil {
			return nil, decodeError("group", err)
		}
	case TypeJoin, TypeLeave:
		if m.Group, err = r.string(); err != nil {
			return nil, decodeError("group", err)
		}
		if m.Status, err = r.uint8(); err != nil {
			return nil, decodeError("status", err)
		}
	}

	if t.hasContent() {
		m.Content = copyFrames(frames[1:])
	}
	return m, nil
}

func decodeHello(r *reader, m *Message) error {
	var err error
	if m.Endpoint, err = r.string(); err != nil {
		return decodeError("endpoint", err)
	}

	count, err := r.uint32()
	if err != nil {
		return decodeError("groups", err)
	}
	// 每个群组至少占 4 字节长度前缀
	if uint64(count)*4 > uint64(r.remaining()) {
		return decodeError("groups", ErrTruncated)
	}
	m.Groups = make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		g, err := r.longString()
		if err != nil {
			return decodeError("groups", err)
		}
		m.Groups = append(m.Groups, g)
	}

	if m.Status, err = r.uint8(); err != nil {
		return decodeError("status", err)
	}
	if m.Name, err = r.string(); err != nil {
		return decodeError("name", err)
	}

	count, err = r.uint32()
	if err != nil {
		return decodeError("headers", err)
	}
	// 每个头部至少占 1 + 4 字节长度前缀
	if uint64(count)*5 > uint64(r.remaining()) {
		return decodeError("headers", ErrTruncated)
	}
	m.Headers = make(map[string]string, count)
	for i := uint32(0); i < count; i++ {
		k, err := r.string()
		if err != nil {
			return decodeError("headers", err)
		}
		v, err := r.longString()
		if err != nil {
			return decodeError("headers", err)
		}
		m.Headers[k] = v
	}
	return nil
}
