// ndefctl encodes and decodes NDEF messages from the command line.
//
//	ndefctl encode --text "hello" --lang en --external ex.com:t=6869 --tlv
//	ndefctl decode --hex dump.txt
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const usage = `usage: ndefctl <command> [flags]

commands:
  encode   build a message from flags and print it as hex
  decode   read an encoded message and print its records as JSON
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ndefctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("missing command")
	}
	switch args[0] {
	case "encode":
		return runEncode(args[1:], stdout)
	case "decode":
		return runDecode(args[1:], stdin, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newFlagSet(name string, stdout io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("ndefctl "+name, pflag.ContinueOnError)
	flags.SetOutput(stdout)
	return flags
}

func helpOK(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}
