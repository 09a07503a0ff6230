package ndef

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// decodeText parses an RTD Text payload: a status byte (bit 7 UTF-16,
// bits 4-0 language length), the language tag, then the text.
func decodeText(data []byte) (Text, error) {
	if len(data) == 0 {
		return Text{}, ErrSliceTooShort
	}
	status := data[0]
	langLen := int(status & maxLanguageLen)
	if len(data) < 1+langLen {
		return Text{}, ErrSliceTooShort
	}
	lang := string(data[1 : 1+langLen])
	if !isASCII(lang) {
		return Text{}, InvalidLanguageError{Language: lang}
	}
	body := data[1+langLen:]

	var txt string
	if status&textUTF16Flag != 0 {
		s, err := decodeUTF16BE(body)
		if err != nil {
			return Text{}, err
		}
		txt = s
	} else {
		if !utf8.Valid(body) {
			return Text{}, InvalidUTF8Error{Field: "text"}
		}
		txt = string(body)
	}
	return Text{Language: lang, Text: txt}, nil
}

// decodeUTF16BE converts big-endian UTF-16 code units to a UTF-8 string.
// Unpaired surrogates are rejected rather than replaced.
func decodeUTF16BE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", UTF16OddLengthError{Length: len(b)}
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for i := 0; i < len(b); i += 2 {
		r := rune(binary.BigEndian.Uint16(b[i:]))
		if utf16.IsSurrogate(r) {
			// high surrogate must be followed by a low one
			if r >= 0xDC00 || i+4 > len(b) {
				return "", ErrInvalidUTF16
			}
			lo := rune(binary.BigEndian.Uint16(b[i+2:]))
			r = utf16.DecodeRune(r, lo)
			if r == utf8.RuneError {
				return "", ErrInvalidUTF16
			}
			i += 2
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
