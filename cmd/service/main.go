package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gymvariations/internal"
	"github.com/2beens/gymvariations/internal/config"
	"github.com/2beens/gymvariations/internal/logging"

	log "github.com/sirupsen/logrus"
)

type secrets struct {
	sentryDSN        string
	redisPassword    string
	honeycombEnabled bool
}

func readSecrets() secrets {
	s := secrets{
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		redisPassword:    os.Getenv("GYMVARIATIONS_REDIS_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}
	if s.redisPassword == "" {
		log.Warnln("redis password not set. use GYMVARIATIONS_REDIS_PASS")
	}
	if s.honeycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	}
	return s
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	checkConfig := flag.Bool("check-config", false, "load and validate the config, then exit")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}
	if *checkConfig {
		fmt.Printf("config [%s] ok: storage=%s port=%d\n", *env, cfg.Storage, cfg.Port)
		return
	}

	sec := readSecrets()
	closeLogs := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sec.sentryDSN,
		SentryServerName: "gymvariations",
	})
	defer closeLogs()

	log.Warnf("---->> running in [%s] environment, storage [%s]", cfg.Environment, cfg.Storage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := internal.NewServer(ctx, internal.NewServerParams{
		Config:                  cfg,
		RedisPassword:           sec.redisPassword,
		HoneycombTracingEnabled: sec.honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	<-ctx.Done()
	log.Warnln("shutdown signal received, stopping ...")
	server.GracefulShutdown()
}
