package ndef

import (
	"encoding/binary"
	"unicode/utf8"
)

// Decode parses a complete message from data. Any truncation, including
// an empty slice, is ErrSliceTooShort. No partial message is returned.
func Decode(data []byte) (*Message, error) {
	return DecodeWithLimits(data, Limits{})
}

// DecodeWithLimits is Decode for a bounded message. Input longer than
// MaxMessageBytes, a payload longer than MaxPayloadBytes, or more than
// MaxRecords records fail with ErrBufferTooSmall.
func DecodeWithLimits(data []byte, limits Limits) (*Message, error) {
	if len(data) == 0 {
		return nil, ErrSliceTooShort
	}
	if limits.MaxMessageBytes > 0 && len(data) > limits.MaxMessageBytes {
		return nil, ErrBufferTooSmall
	}
	msg := NewBoundedMessage(limits)
	r := reader{data: data}
	for r.remaining() > 0 {
		if limits.recordsFull(len(msg.records)) {
			return nil, ErrBufferTooSmall
		}
		rec, err := readRecord(&r, limits)
		if err != nil {
			return nil, err
		}
		msg.records = append(msg.records, rec)
	}
	return msg, nil
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int { return len(r.data) - r.off }

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, ErrSliceTooShort
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func readRecord(r *reader, limits Limits) (Record, error) {
	hb, err := r.readByte()
	if err != nil {
		return Record{}, err
	}
	h := Header(hb)

	typeLen, err := r.readByte()
	if err != nil {
		return Record{}, err
	}

	var payloadLen int
	if h.ShortRecord() {
		b, err := r.readByte()
		if err != nil {
			return Record{}, err
		}
		payloadLen = int(b)
	} else {
		b, err := r.next(4)
		if err != nil {
			return Record{}, err
		}
		n := binary.BigEndian.Uint32(b)
		if uint64(n) > uint64(r.remaining()) {
			return Record{}, ErrSliceTooShort
		}
		payloadLen = int(n)
	}

	var idLen int
	if h.IDPresent() {
		b, err := r.readByte()
		if err != nil {
			return Record{}, err
		}
		idLen = int(b)
	}

	typeBytes, err := r.next(int(typeLen))
	if err != nil {
		return Record{}, err
	}
	if !utf8.Valid(typeBytes) {
		return Record{}, InvalidUTF8Error{Field: "type"}
	}
	typ := string(typeBytes)

	var id []byte
	if h.IDPresent() {
		b, err := r.next(idLen)
		if err != nil {
			return Record{}, err
		}
		id = cloneBytes(b)
	}

	data, err := r.next(payloadLen)
	if err != nil {
		return Record{}, err
	}
	if limits.MaxPayloadBytes > 0 && len(data) > limits.MaxPayloadBytes {
		return Record{}, ErrBufferTooSmall
	}

	var p Payload
	switch tnf := h.TNF(); tnf {
	case TNFWellKnown:
		if typ != TextType {
			return Record{}, UnsupportedRecordTypeError{Type: typ}
		}
		p, err = decodeText(data)
	case TNFExternal:
		p, err = decodeExternal(typ, data)
	default:
		return Record{}, UnsupportedTypeNameFormatError{TNF: tnf}
	}
	if err != nil {
		return Record{}, err
	}
	// UTF-16 text can grow when held as UTF-8
	if limits.MaxPayloadBytes > 0 && p.Len() > limits.MaxPayloadBytes {
		return Record{}, ErrBufferTooSmall
	}
	if h.ShortRecord() && p.Len() >= shortRecordLimit {
		h &^= Header(flagShortRecord)
	}
	return Record{header: h, id: id, payload: p}, nil
}
