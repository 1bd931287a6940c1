package message

import "encoding/binary"

// writer 定长写缓冲
//
// 容量由 EncodedSize 预先算出，写入过程不会扩容。
type writer struct {
	buf []byte
	off int
}

func newWriter(size int) *writer {
	return &writer{buf: make([]byte, size)}
}

func (w *writer) putUint8(v byte) {
	w.buf[w.off] = v
	w.off++
}

func (w *writer) putUint16(v uint16) {
	binary.BigEndian.PutUint16(w.buf[w.off:], v)
	w.off += 2
}

func (w *writer) putUint32(v uint32) {
	binary.BigEndian.PutUint32(w.buf[w.off:], v)
	w.off += 4
}

// putString 写入 1 字节长度前缀的字符串，调用方保证长度不超过 255
func (w *writer) putString(s string) {
	w.putUint8(byte(len(s)))
	w.off += copy(w.buf[w.off:], s)
}

// putLongString 写入 4 字节长度前缀的字符串
func (w *writer) putLongString(s string) {
	w.putUint32(uint32(len(s)))
	w.off += copy(w.buf[w.off:], s)
}

func (w *writer) bytes() []byte {
	return w.buf[:w.off]
}

// reader 顺序读缓冲，越界返回 ErrTruncated
type reader struct {
	buf []byte
	off int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

func (r *reader) uint8() (byte, error) {
	if r.remaining() < 1 {
		return 0, ErrTruncated
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

func (r *reader) uint16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) uint32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, ErrTruncated
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) string() (string, error) {
	n, err := r.uint8()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *reader) longString() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(r.remaining()) {
		return "", ErrTruncated
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
