package config

import "github.com/danmuck/ndefkit/internal/protocol/ndef"

// NDEF converts the limits section into codec bounds.
func (l LimitsConfig) NDEF() ndef.Limits {
	var out ndef.Limits
	if l.Fixed {
		out = ndef.FixedLimits()
	}
	if l.MaxRecords > 0 {
		out.MaxRecords = l.MaxRecords
	}
	if l.MaxMessageBytes > 0 {
		out.MaxMessageBytes = l.MaxMessageBytes
	}
	if l.MaxPayloadBytes > 0 {
		out.MaxPayloadBytes = l.MaxPayloadBytes
	}
	return out
}
