// Package records converts NDEF messages to and from the JSON record
// shape used by ndefd and ndefctl.
package records

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/danmuck/ndefkit/internal/codec"
	"github.com/danmuck/ndefkit/internal/protocol/ndef"
)

const (
	KindText     = "text"
	KindExternal = "external"
	KindCBOR     = "cbor"

	DefaultLanguage = "en"
)

var ErrInvalidRecord = errors.New("invalid record")

// Record is one NDEF record in JSON form. Payload and ID are base64 in
// JSON. For text records Payload is ignored on input, and a missing
// language key means DefaultLanguage while "" is kept as an empty tag.
type Record struct {
	RecordType string `json:"recordType"`
	TNF        uint8  `json:"tnf"`
	Language   string `json:"language"`
	Content    string `json:"content,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Type       string `json:"type,omitempty"`
	ID         []byte `json:"id,omitempty"`
	Payload    []byte `json:"payload,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	p := plain{Language: DefaultLanguage}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	return nil
}

type Message struct {
	Records []Record `json:"records"`
}

// ToNDEF builds a message bounded by limits. The JSON tnf field is
// ignored on input; it is implied by recordType.
func ToNDEF(in Message, limits ndef.Limits) (*ndef.Message, error) {
	msg := ndef.NewBoundedMessage(limits)
	for i, r := range in.Records {
		p, err := r.payload()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := msg.Append(ndef.NewRecord(r.ID, p)); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return msg, nil
}

func (r Record) payload() (ndef.Payload, error) {
	switch strings.ToLower(r.RecordType) {
	case KindText, "":
		return ndef.Text{Language: r.Language, Text: r.Content}, nil
	case KindExternal:
		if r.Domain == "" || strings.Contains(r.Domain, ":") {
			return nil, fmt.Errorf("%w: external domain %q", ErrInvalidRecord, r.Domain)
		}
		return ndef.External{Domain: r.Domain, Name: r.Type, Data: r.Payload}, nil
	case KindCBOR:
		if err := codec.Valid(r.Payload); err != nil {
			return nil, fmt.Errorf("%w: cbor payload: %v", ErrInvalidRecord, err)
		}
		return ndef.CBOR{Data: r.Payload}, nil
	default:
		return nil, fmt.Errorf("%w: unknown recordType %q", ErrInvalidRecord, r.RecordType)
	}
}

// FromNDEF renders every record of msg.
func FromNDEF(msg *ndef.Message) Message {
	out := Message{Records: make([]Record, 0, msg.Len())}
	for _, rec := range msg.Records() {
		out.Records = append(out.Records, FromRecord(rec))
	}
	return out
}

func FromRecord(rec ndef.Record) Record {
	r := Record{TNF: uint8(rec.Header().TNF())}
	if id, ok := rec.ID(); ok {
		r.ID = id
	}
	switch p := rec.Content().(type) {
	case ndef.Text:
		r.RecordType = KindText
		r.Language = p.Language
		r.Content = p.Text
	case ndef.External:
		r.RecordType = KindExternal
		r.Domain = p.Domain
		r.Type = p.Name
		r.Payload = p.Data
	case ndef.CBOR:
		r.RecordType = KindCBOR
		r.Payload = p.Data
		if diag, err := codec.Diagnose(p.Data); err == nil {
			r.Diagnostic = diag
		}
	}
	return r
}

// DecodeHex decodes hex text. Whitespace between digits is ignored.
func DecodeHex(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}
	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	n, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:n], nil
}
