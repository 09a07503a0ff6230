package ndef

// Encode serializes every record in order:
//
//	header | type length | payload length (1 or 4) | [id length] | type | [id] | payload
//
// An unbounded message only fails on malformed content (language tag over
// 31 bytes, type or id over 255 bytes). A bounded message also fails with
// ErrBufferTooSmall when the output or a payload buffer would overflow.
func (m *Message) Encode() ([]byte, error) {
	out := newBuffer(m.limits.MaxMessageBytes)
	for _, r := range m.records {
		if err := writeRecord(out, r, m.limits); err != nil {
			return nil, err
		}
	}
	return out.bytes(), nil
}

func writeRecord(out *buffer, r Record, limits Limits) error {
	typ := r.payload.Type()
	if len(typ) > maxFieldLen {
		return ErrFieldTooLong
	}
	id, hasID := r.id, r.header.IDPresent()
	if hasID && len(id) > maxFieldLen {
		return ErrFieldTooLong
	}
	data, err := r.payloadBytes(limits.MaxPayloadBytes)
	if err != nil {
		return err
	}

	if err := out.writeByte(byte(r.header)); err != nil {
		return err
	}
	if err := out.writeByte(byte(len(typ))); err != nil {
		return err
	}
	if r.header.ShortRecord() {
		if len(data) >= shortRecordLimit {
			return ErrFieldTooLong
		}
		err = out.writeByte(byte(len(data)))
	} else {
		err = out.writeUint32(uint32(len(data)))
	}
	if err != nil {
		return err
	}
	if hasID {
		if err := out.writeByte(byte(len(id))); err != nil {
			return err
		}
	}
	if err := out.writeString(typ); err != nil {
		return err
	}
	if hasID {
		if err := out.write(id); err != nil {
			return err
		}
	}
	return out.write(data)
}
