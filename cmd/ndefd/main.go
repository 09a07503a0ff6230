package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/danmuck/ndefkit/internal/config"
	"github.com/danmuck/ndefkit/internal/logging"
	"github.com/danmuck/ndefkit/internal/observability"
	"github.com/danmuck/ndefkit/internal/server"
	"github.com/danmuck/ndefkit/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ndefd: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("ndefd", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to config.toml (defaults when empty)")
	addr := flags.String("addr", "", "listen address override")
	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := observability.InitLogger(cfg.Server.Name)
	if _, set := os.LookupEnv("NDEF_LOG_LEVEL"); !set {
		if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
			zerolog.SetGlobalLevel(level)
		}
	}

	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.Open(cfg.Store.Path, cfg.Limits.NDEF())
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error().Err(err).Msg("store close failed")
			}
		}()
		logger.Info().Str("path", cfg.Store.Path).Msg("message store opened")
	}

	limits := cfg.Limits.NDEF()
	logger.Info().
		Str("addr", cfg.Server.Addr).
		Bool("bounded", limits.Bounded()).
		Int("max_records", limits.MaxRecords).
		Int("max_message_bytes", limits.MaxMessageBytes).
		Int("max_payload_bytes", limits.MaxPayloadBytes).
		Msg("ndefd starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, st).Run(ctx)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
