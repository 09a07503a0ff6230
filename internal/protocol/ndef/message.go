package ndef

// Message is an ordered sequence of records. The zero value is an empty,
// unbounded message.
type Message struct {
	records []Record
	limits  Limits
}

// NewMessage returns an empty message that grows on demand.
func NewMessage() *Message {
	return &Message{}
}

// NewBoundedMessage returns an empty message whose record list, encode
// buffer and payload buffers are capped by limits.
func NewBoundedMessage(limits Limits) *Message {
	m := &Message{limits: limits}
	if limits.MaxRecords > 0 {
		m.records = make([]Record, 0, limits.MaxRecords)
	}
	return m
}

// Append adds r as the last record. The first record gets message begin;
// the new record gets message end and the previous last record loses it.
// On a bounded message a full record list fails with ErrBufferTooSmall
// and leaves the message unchanged.
func (m *Message) Append(r Record) error {
	if m.limits.recordsFull(len(m.records)) {
		return ErrBufferTooSmall
	}
	if len(m.records) == 0 {
		r.header.setMessageBegin()
	} else {
		m.records[len(m.records)-1].header.clearMessageEnd()
	}
	r.header.setMessageEnd()
	m.records = append(m.records, r)
	return nil
}

// Len returns the number of records.
func (m *Message) Len() int { return len(m.records) }

// Record returns the i'th record.
func (m *Message) Record(i int) Record { return m.records[i] }

// Records returns a copy of the record list.
func (m *Message) Records() []Record {
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

func (m *Message) Limits() Limits { return m.limits }

// Equal reports whether both messages hold equal records in the same order.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if len(m.records) != len(o.records) {
		return false
	}
	for i := range m.records {
		if !m.records[i].Equal(o.records[i]) {
			return false
		}
	}
	return true
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (m *Message) MarshalBinary() ([]byte, error) {
	return m.Encode()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The message keeps
// its limits; its records are replaced only when decoding succeeds.
func (m *Message) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeWithLimits(data, m.limits)
	if err != nil {
		return err
	}
	m.records = decoded.records
	return nil
}
