package ndef

import (
	"errors"
	"fmt"
)

var (
	ErrSliceTooShort             = errors.New("ndef: slice too short")
	ErrBufferTooSmall            = errors.New("ndef: buffer too small")
	ErrUnsupportedTypeNameFormat = errors.New("ndef: unsupported type name format")
	ErrUnsupportedRecordType     = errors.New("ndef: unsupported record type")
	ErrInvalidExternalType       = errors.New("ndef: invalid external type")
	ErrInvalidUTF8               = errors.New("ndef: invalid utf-8")
	ErrInvalidUTF16              = errors.New("ndef: invalid utf-16")
	ErrUTF16OddLength            = errors.New("ndef: odd length utf-16")
	ErrLanguageTooLong           = errors.New("ndef: language tag longer than 31 bytes")
	ErrInvalidLanguage           = errors.New("ndef: language tag is not ascii")
	ErrFieldTooLong              = errors.New("ndef: field longer than 255 bytes")
)

// UnsupportedTypeNameFormatError reports a header TNF the decoder does not
// interpret.
type UnsupportedTypeNameFormatError struct {
	TNF TypeNameFormat
}

func (e UnsupportedTypeNameFormatError) Error() string {
	return fmt.Sprintf("ndef: unsupported type name format %s (%d)", e.TNF, uint8(e.TNF))
}

func (e UnsupportedTypeNameFormatError) Unwrap() error { return ErrUnsupportedTypeNameFormat }

// UnsupportedRecordTypeError reports a well-known type other than "T".
type UnsupportedRecordTypeError struct {
	Type string
}

func (e UnsupportedRecordTypeError) Error() string {
	return fmt.Sprintf("ndef: unsupported record type %q", e.Type)
}

func (e UnsupportedRecordTypeError) Unwrap() error { return ErrUnsupportedRecordType }

// InvalidExternalTypeError reports an external type without a ':' separator.
type InvalidExternalTypeError struct {
	Type string
}

func (e InvalidExternalTypeError) Error() string {
	return fmt.Sprintf("ndef: external type %q has no ':' separator", e.Type)
}

func (e InvalidExternalTypeError) Unwrap() error { return ErrInvalidExternalType }

// InvalidUTF8Error names the field whose bytes were not valid UTF-8.
type InvalidUTF8Error struct {
	Field string
}

func (e InvalidUTF8Error) Error() string {
	return fmt.Sprintf("ndef: %s is not valid utf-8", e.Field)
}

func (e InvalidUTF8Error) Unwrap() error { return ErrInvalidUTF8 }

// UTF16OddLengthError reports a UTF-16 text region with an odd byte count.
type UTF16OddLengthError struct {
	Length int
}

func (e UTF16OddLengthError) Error() string {
	return fmt.Sprintf("ndef: utf-16 text has odd length %d", e.Length)
}

func (e UTF16OddLengthError) Unwrap() error { return ErrUTF16OddLength }

// InvalidLanguageError reports a language tag with non-ASCII bytes.
type InvalidLanguageError struct {
	Language string
}

func (e InvalidLanguageError) Error() string {
	return fmt.Sprintf("ndef: language tag %q is not ascii", e.Language)
}

func (e InvalidLanguageError) Unwrap() error { return ErrInvalidLanguage }
