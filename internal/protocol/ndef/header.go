package ndef

import "fmt"

const (
	flagMessageBegin uint8 = 0x80
	flagMessageEnd   uint8 = 0x40
	flagChunked      uint8 = 0x20
	flagShortRecord  uint8 = 0x10
	flagIDPresent    uint8 = 0x08
	maskTNF          uint8 = 0x07
)

// TypeNameFormat selects how a record's type field is interpreted.
type TypeNameFormat uint8

const (
	TNFEmpty TypeNameFormat = iota
	TNFWellKnown
	TNFMedia
	TNFAbsoluteURI
	TNFExternal
	TNFUnknown
	TNFUnchanged
	TNFReserved
)

var tnfNames = [...]string{
	TNFEmpty:       "empty",
	TNFWellKnown:   "well-known",
	TNFMedia:       "media",
	TNFAbsoluteURI: "absolute-uri",
	TNFExternal:    "external",
	TNFUnknown:     "unknown",
	TNFUnchanged:   "unchanged",
	TNFReserved:    "reserved",
}

func (t TypeNameFormat) String() string {
	if int(t) < len(tnfNames) {
		return tnfNames[t]
	}
	return fmt.Sprintf("tnf(%d)", uint8(t))
}

// Header is the one-byte record flag field.
//
//	bit 7  message begin
//	bit 6  message end
//	bit 5  chunked (carried, never interpreted)
//	bit 4  short record
//	bit 3  id length present
//	bits 2-0 type name format
type Header uint8

func (h Header) MessageBegin() bool { return uint8(h)&flagMessageBegin != 0 }
func (h Header) MessageEnd() bool   { return uint8(h)&flagMessageEnd != 0 }
func (h Header) Chunked() bool      { return uint8(h)&flagChunked != 0 }
func (h Header) ShortRecord() bool  { return uint8(h)&flagShortRecord != 0 }
func (h Header) IDPresent() bool    { return uint8(h)&flagIDPresent != 0 }

// TNF returns bits 2-0. All eight values map onto a named format.
func (h Header) TNF() TypeNameFormat {
	return TypeNameFormat(uint8(h) & maskTNF)
}

func (h Header) String() string {
	return fmt.Sprintf("0x%02X(mb=%t me=%t cf=%t sr=%t il=%t tnf=%s)",
		uint8(h), h.MessageBegin(), h.MessageEnd(), h.Chunked(), h.ShortRecord(), h.IDPresent(), h.TNF())
}

// Header mutation stays inside the package so TNF, SR and IL can only be
// derived from record shape.

func (h *Header) setMessageBegin() { *h |= Header(flagMessageBegin) }
func (h *Header) setMessageEnd()   { *h |= Header(flagMessageEnd) }
func (h *Header) clearMessageEnd() { *h &^= Header(flagMessageEnd) }
func (h *Header) setShortRecord()  { *h |= Header(flagShortRecord) }
func (h *Header) setIDPresent()    { *h |= Header(flagIDPresent) }

func (h *Header) setTNF(tnf TypeNameFormat) {
	*h = Header(uint8(*h)&^maskTNF | uint8(tnf)&maskTNF)
}
