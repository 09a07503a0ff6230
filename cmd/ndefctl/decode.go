package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/ndefkit/internal/protocol/ndef"
	"github.com/danmuck/ndefkit/internal/protocol/tlv"
	"github.com/danmuck/ndefkit/internal/records"
)

func runDecode(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := newFlagSet("decode", stdout)
	hexMode := flags.Bool("hex", false, "input is hex text; whitespace is ignored")
	unwrap := flags.Bool("tlv", false, "input is a tag memory image; extract the NDEF TLV")
	fixed := flags.Bool("fixed", false, "enforce fixed-capacity limits")
	if err := flags.Parse(args); err != nil {
		return helpOK(err)
	}

	data, rest, err := readInput(flags.Args(), stdin, *hexMode)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("decode: unexpected arguments %v", rest)
	}
	if *unwrap {
		if data, err = tlv.UnwrapNDEF(data); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}

	limits := ndef.Limits{}
	if *fixed {
		limits = ndef.FixedLimits()
	}
	msg, err := ndef.DecodeWithLimits(data, limits)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records.FromNDEF(msg))
}

// readInput reads the file named by the last argument, or stdin when
// there is none. The consumed path is removed from the returned args.
func readInput(args []string, stdin io.Reader, hexMode bool) ([]byte, []string, error) {
	var data []byte
	rest := args
	if n := len(args); n > 0 {
		candidate := args[n-1]
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			b, err := os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			data = b
			rest = args[:n-1]
		}
	}
	if data == nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
		data = b
	}
	if hexMode {
		decoded, err := records.DecodeHex(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}
	return data, rest, nil
}
