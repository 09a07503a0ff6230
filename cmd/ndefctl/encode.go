package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/ndefkit/internal/protocol/ndef"
	"github.com/danmuck/ndefkit/internal/protocol/tlv"
	"github.com/danmuck/ndefkit/internal/records"
)

// runEncode appends text records, then external records, then CBOR
// records, each group in flag order.
func runEncode(args []string, stdout io.Writer) error {
	flags := newFlagSet("encode", stdout)
	texts := flags.StringArray("text", nil, "text record content (repeatable)")
	lang := flags.String("lang", records.DefaultLanguage, "language tag for text records")
	externals := flags.StringArray("external", nil, "external record as domain:type=hexdata (repeatable)")
	cborJSON := flags.StringArray("cbor", nil, "CBOR record given as a JSON value (repeatable)")
	idHex := flags.String("id", "", "hex id for the first record")
	wrap := flags.Bool("tlv", false, "wrap the message in an NDEF TLV block")
	fixed := flags.Bool("fixed", false, "enforce fixed-capacity limits")
	raw := flags.Bool("raw", false, "write binary instead of hex")
	if err := flags.Parse(args); err != nil {
		return helpOK(err)
	}

	limits := ndef.Limits{}
	if *fixed {
		limits = ndef.FixedLimits()
	}
	payloads, err := buildPayloads(*texts, *lang, *externals, *cborJSON)
	if err != nil {
		return err
	}
	if len(payloads) == 0 {
		return fmt.Errorf("encode: no records given")
	}

	msg := ndef.NewBoundedMessage(limits)
	for i, p := range payloads {
		var id []byte
		if i == 0 && *idHex != "" {
			if id, err = records.DecodeHex([]byte(*idHex)); err != nil {
				return fmt.Errorf("encode: id: %w", err)
			}
		}
		if err := msg.Append(ndef.NewRecord(id, p)); err != nil {
			return fmt.Errorf("encode: record %d: %w", i, err)
		}
	}

	data, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if *wrap {
		if data, err = tlv.WrapNDEF(data); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	if *raw {
		_, err = stdout.Write(data)
		return err
	}
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(data))
	return err
}

func buildPayloads(texts []string, lang string, externals, cborJSON []string) ([]ndef.Payload, error) {
	out := make([]ndef.Payload, 0, len(texts)+len(externals)+len(cborJSON))
	for _, t := range texts {
		out = append(out, ndef.Text{Language: lang, Text: t})
	}
	for _, arg := range externals {
		p, err := parseExternal(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	for _, raw := range cborJSON {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("cbor %q: %w", raw, err)
		}
		p, err := ndef.NewCBOR(v)
		if err != nil {
			return nil, fmt.Errorf("cbor %q: %w", raw, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// parseExternal reads domain:type=hexdata. The data part may be empty.
func parseExternal(arg string) (ndef.External, error) {
	typ, data, _ := strings.Cut(arg, "=")
	domain, name, ok := strings.Cut(typ, ":")
	if !ok || domain == "" {
		return ndef.External{}, fmt.Errorf("external %q: want domain:type=hexdata", arg)
	}
	payload := []byte{}
	if strings.TrimSpace(data) != "" {
		b, err := records.DecodeHex([]byte(data))
		if err != nil {
			return ndef.External{}, fmt.Errorf("external %q: %w", arg, err)
		}
		payload = b
	}
	return ndef.External{Domain: domain, Name: name, Data: payload}, nil
}
