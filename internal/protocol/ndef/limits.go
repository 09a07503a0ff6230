package ndef

import "encoding/binary"

// Limits bounds message memory use. A zero field leaves that dimension
// unbounded, so the zero Limits is the grow-on-demand mode.
type Limits struct {
	MaxRecords      int
	MaxMessageBytes int
	MaxPayloadBytes int
}

// FixedLimits returns the pre-provisioned bounds used on constrained
// targets: 8 records, a 256-byte message and a 256-byte payload buffer.
func FixedLimits() Limits {
	return Limits{
		MaxRecords:      8,
		MaxMessageBytes: 256,
		MaxPayloadBytes: 256,
	}
}

// Bounded reports whether any dimension is capped.
func (l Limits) Bounded() bool {
	return l.MaxRecords > 0 || l.MaxMessageBytes > 0 || l.MaxPayloadBytes > 0
}

func (l Limits) recordsFull(n int) bool {
	return l.MaxRecords > 0 && n >= l.MaxRecords
}

// buffer is an append-only byte container that fails with
// ErrBufferTooSmall instead of growing past max. max <= 0 disables the cap.
type buffer struct {
	buf []byte
	max int
}

func newBuffer(max int) *buffer {
	b := &buffer{max: max}
	if max > 0 {
		b.buf = make([]byte, 0, max)
	}
	return b
}

func (b *buffer) reserve(n int) error {
	if b.max > 0 && len(b.buf)+n > b.max {
		return ErrBufferTooSmall
	}
	return nil
}

func (b *buffer) writeByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.buf = append(b.buf, c)
	return nil
}

func (b *buffer) write(p []byte) error {
	if err := b.reserve(len(p)); err != nil {
		return err
	}
	b.buf = append(b.buf, p...)
	return nil
}

func (b *buffer) writeString(s string) error {
	if err := b.reserve(len(s)); err != nil {
		return err
	}
	b.buf = append(b.buf, s...)
	return nil
}

func (b *buffer) writeUint32(v uint32) error {
	if err := b.reserve(4); err != nil {
		return err
	}
	b.buf = binary.BigEndian.AppendUint32(b.buf, v)
	return nil
}

func (b *buffer) bytes() []byte {
	if b.buf == nil {
		return []byte{}
	}
	return b.buf
}
