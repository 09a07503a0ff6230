package ndef

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/ndefkit/internal/codec"
)

const (
	// TextType is the well-known type of a Text record.
	TextType = "T"
	// CBORType is the external type reserved for CBOR object payloads.
	CBORType = "cbor"

	maxLanguageLen = 0x1f
	textUTF16Flag  = 0x80
	maxFieldLen    = 0xff
)

// Payload is the content of a record. The set of variants is closed:
// Text, External and CBOR.
type Payload interface {
	// TNF is the type name format the variant implies.
	TNF() TypeNameFormat
	// Type is the wire type identifier written into the record type field.
	Type() string
	// Len is the serialized payload length in bytes.
	Len() int

	writeTo(b *buffer) error
	payload()
}

// Text is an RTD Text record. Text is always held as UTF-8 and always
// encoded as UTF-8; UTF-16 is accepted on decode only.
type Text struct {
	Language string
	Text     string
}

func (Text) TNF() TypeNameFormat { return TNFWellKnown }
func (Text) Type() string        { return TextType }
func (t Text) Len() int          { return 1 + len(t.Language) + len(t.Text) }

func (t Text) writeTo(b *buffer) error {
	if len(t.Language) > maxLanguageLen {
		return ErrLanguageTooLong
	}
	if !isASCII(t.Language) {
		return InvalidLanguageError{Language: t.Language}
	}
	if err := b.writeByte(byte(len(t.Language))); err != nil {
		return err
	}
	if err := b.writeString(t.Language); err != nil {
		return err
	}
	return b.writeString(t.Text)
}

func (Text) payload() {}

// External is an opaque blob namespaced as "domain:name".
type External struct {
	Domain string
	Name   string
	Data   []byte
}

func (External) TNF() TypeNameFormat { return TNFExternal }
func (e External) Type() string      { return e.Domain + ":" + e.Name }
func (e External) Len() int          { return len(e.Data) }

func (e External) writeTo(b *buffer) error { return b.write(e.Data) }

func (External) payload() {}

// CBOR carries a self-describing CBOR item. The record codec treats Data
// as opaque; NewCBOR and Unmarshal convert to and from Go values.
type CBOR struct {
	Data []byte
}

// NewCBOR encodes v with deterministic CBOR.
func NewCBOR(v any) (CBOR, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{Data: data}, nil
}

// Unmarshal decodes the CBOR item into v.
func (c CBOR) Unmarshal(v any) error {
	return codec.Unmarshal(c.Data, v)
}

func (CBOR) TNF() TypeNameFormat { return TNFExternal }
func (CBOR) Type() string        { return CBORType }
func (c CBOR) Len() int          { return len(c.Data) }

func (c CBOR) writeTo(b *buffer) error { return b.write(c.Data) }

func (CBOR) payload() {}

// decodeExternal splits an external-format record. The reserved CBOR
// identifier is matched before the domain:name form.
func decodeExternal(typ string, data []byte) (Payload, error) {
	if typ == CBORType {
		return CBOR{Data: cloneBytes(data)}, nil
	}
	domain, name, ok := strings.Cut(typ, ":")
	if !ok {
		return nil, InvalidExternalTypeError{Type: typ}
	}
	return External{Domain: domain, Name: name, Data: cloneBytes(data)}, nil
}

// valuePayload replaces pointer variants with the values they point to so
// records only ever hold Text, External or CBOR values.
func valuePayload(p Payload) Payload {
	switch v := p.(type) {
	case *Text:
		return *v
	case *External:
		return *v
	case *CBOR:
		return *v
	default:
		return p
	}
}

func equalPayload(a, b Payload) bool {
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case External:
		bv, ok := b.(External)
		return ok && av.Domain == bv.Domain && av.Name == bv.Name && bytes.Equal(av.Data, bv.Data)
	case CBOR:
		bv, ok := b.(CBOR)
		return ok && bytes.Equal(av.Data, bv.Data)
	default:
		return a == nil && b == nil
	}
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
