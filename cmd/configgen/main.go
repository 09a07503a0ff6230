package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/danmuck/ndefkit/internal/config"
)

const defaultPath = "cmd/ndefd/config.toml"

func main() {
	flags := pflag.NewFlagSet("configgen", pflag.ContinueOnError)
	kind := flags.String("kind", "service", "config kind: service|embedded")
	output := flags.StringP("output", "o", defaultPath, "output path for config template")
	validate := flags.Bool("validate", false, "validate an existing config file")
	input := flags.String("input", defaultPath, "config path for validation")
	force := flags.Bool("force", false, "overwrite existing config file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "configgen: %v\n", err)
		os.Exit(2)
	}

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (server=%s bounded=%t)", *input, cfg.Server.Name, cfg.Limits.NDEF().Bounded())
		return
	}

	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, *output)
}
