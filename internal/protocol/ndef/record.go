package ndef

import "bytes"

const shortRecordLimit = 256

// Record couples a header, an optional id and a payload.
type Record struct {
	header  Header
	id      []byte
	payload Payload
}

// NewRecord builds a record whose TNF, short-record and id-present bits
// are derived from p and id. A nil id is absent; an empty non-nil id is
// present with length zero. p must not be nil; pointer variants are
// stored by value.
//
// Message begin and end bits are left clear; Message.Append owns them.
func NewRecord(id []byte, p Payload) Record {
	p = valuePayload(p)
	var h Header
	h.setTNF(p.TNF())
	if id != nil {
		h.setIDPresent()
	}
	if p.Len() < shortRecordLimit {
		h.setShortRecord()
	}
	r := Record{header: h, payload: p}
	if id != nil {
		r.id = cloneBytes(id)
	}
	return r
}

func (r Record) Header() Header { return r.header }

// ID returns a copy of the record id and whether one is present.
func (r Record) ID() ([]byte, bool) {
	if !r.header.IDPresent() {
		return nil, false
	}
	return cloneBytes(r.id), true
}

// Content returns the payload variant.
func (r Record) Content() Payload { return r.payload }

// Type returns the wire type identifier.
func (r Record) Type() string { return r.payload.Type() }

// Payload serializes the record payload.
func (r Record) Payload() ([]byte, error) {
	return r.payloadBytes(0)
}

func (r Record) payloadBytes(max int) ([]byte, error) {
	b := newBuffer(max)
	if err := r.payload.writeTo(b); err != nil {
		return nil, err
	}
	return b.bytes(), nil
}

// Equal reports whether two records have identical headers, ids and
// payloads.
func (r Record) Equal(o Record) bool {
	if r.header != o.header {
		return false
	}
	if r.header.IDPresent() && !bytes.Equal(r.id, o.id) {
		return false
	}
	return equalPayload(r.payload, o.payload)
}
