//go:build bench
// +build bench

package ndef

import (
	"bytes"
	"strings"
	"testing"
)

func benchMessage(b *testing.B, textLen, records int) *Message {
	b.Helper()
	msg := NewMessage()
	for i := 0; i < records; i++ {
		var p Payload = Text{Language: "en", Text: strings.Repeat("t", textLen)}
		if i%2 == 1 {
			p = External{Domain: "ex.com", Name: "blob", Data: bytes.Repeat([]byte{0x5A}, textLen)}
		}
		if err := msg.Append(NewRecord(nil, p)); err != nil {
			b.Fatalf("append: %v", err)
		}
	}
	return msg
}

func BenchmarkMessage_Encode(b *testing.B) {
	benchmarks := []struct {
		name    string
		textLen int
		records int
	}{
		{"small", 16, 1},
		{"medium", 200, 4},
		{"large", 4096, 8},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			msg := benchMessage(b, bm.textLen, bm.records)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := msg.Encode(); err != nil {
					b.Fatalf("encode: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	benchmarks := []struct {
		name    string
		textLen int
		records int
	}{
		{"small", 16, 1},
		{"medium", 200, 4},
		{"large", 4096, 8},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			data, err := benchMessage(b, bm.textLen, bm.records).Encode()
			if err != nil {
				b.Fatalf("encode: %v", err)
			}
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decode(data); err != nil {
					b.Fatalf("decode: %v", err)
				}
			}
		})
	}
}
