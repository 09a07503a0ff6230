// Package tlv reads and writes the TLV blocks that hold an NDEF message
// in NFC Forum tag memory.
package tlv

import (
	"encoding/binary"
	"errors"
)

// A length byte of 0xFF announces a two-byte big-endian length.
const (
	longLengthMarker = 0xFF
	MaxValueLen      = 0xFFFE
)

var (
	ErrShortBlockHeader = errors.New("tlv: short block header")
	ErrShortBlockValue  = errors.New("tlv: short block value")
	ErrValueTooLarge    = errors.New("tlv: value too large")
	ErrNoNDEF           = errors.New("tlv: no ndef message block")
)

// Block types from the tag TLV contract.
const (
	TypeNull          uint8 = 0x00
	TypeLockControl   uint8 = 0x01
	TypeMemoryControl uint8 = 0x02
	TypeNDEF          uint8 = 0x03
	TypeProprietary   uint8 = 0xFD
	TypeTerminator    uint8 = 0xFE
)

// Block is one decoded TLV block. Null and Terminator blocks carry no
// length or value.
type Block struct {
	Type  uint8
	Value []byte
}

func EncodeBlock(b Block) ([]byte, error) {
	if b.Type == TypeNull || b.Type == TypeTerminator {
		return []byte{b.Type}, nil
	}
	n := len(b.Value)
	if n > MaxValueLen {
		return nil, ErrValueTooLarge
	}
	var buf []byte
	if n < longLengthMarker {
		buf = make([]byte, 0, 2+n)
		buf = append(buf, b.Type, byte(n))
	} else {
		buf = make([]byte, 0, 4+n)
		buf = append(buf, b.Type, longLengthMarker)
		buf = binary.BigEndian.AppendUint16(buf, uint16(n))
	}
	return append(buf, b.Value...), nil
}

// EncodeBlocks concatenates blocks and appends a Terminator.
func EncodeBlocks(blocks []Block) ([]byte, error) {
	out := make([]byte, 0)
	for _, b := range blocks {
		if b.Type == TypeTerminator {
			break
		}
		enc, err := EncodeBlock(b)
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return append(out, TypeTerminator), nil
}

// DecodeBlocks reads blocks up to a Terminator or the end of data. Null
// blocks are padding and are skipped. Bytes after the Terminator are
// ignored.
func DecodeBlocks(data []byte) ([]Block, error) {
	blocks := make([]Block, 0)
	i := 0
	for i < len(data) {
		typ := data[i]
		i++
		if typ == TypeNull {
			continue
		}
		if typ == TypeTerminator {
			break
		}
		if i >= len(data) {
			return nil, ErrShortBlockHeader
		}
		l := int(data[i])
		i++
		if l == longLengthMarker {
			if len(data)-i < 2 {
				return nil, ErrShortBlockHeader
			}
			l = int(binary.BigEndian.Uint16(data[i : i+2]))
			i += 2
		}
		if len(data)-i < l {
			return nil, ErrShortBlockValue
		}
		val := make([]byte, l)
		copy(val, data[i:i+l])
		i += l
		blocks = append(blocks, Block{Type: typ, Value: val})
	}
	return blocks, nil
}

func GetBlock(blocks []Block, typ uint8) (Block, bool) {
	for _, b := range blocks {
		if b.Type == typ {
			return b, true
		}
	}
	return Block{}, false
}

// WrapNDEF places an encoded NDEF message in an NDEF Message block
// followed by a Terminator.
func WrapNDEF(message []byte) ([]byte, error) {
	return EncodeBlocks([]Block{{Type: TypeNDEF, Value: message}})
}

// UnwrapNDEF returns the value of the first NDEF Message block.
func UnwrapNDEF(data []byte) ([]byte, error) {
	blocks, err := DecodeBlocks(data)
	if err != nil {
		return nil, err
	}
	b, ok := GetBlock(blocks, TypeNDEF)
	if !ok {
		return nil, ErrNoNDEF
	}
	return b.Value, nil
}
