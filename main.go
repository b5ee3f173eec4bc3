package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/kenya-legal-ai/lexclient/internal/cli"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

func main() {
	// Load .env file
	envErr := godotenv.Load(".env")

	// Load structured config from env
	cfg := cli.Defaults()
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Environment(), Level: cfg.Log.Level})
	if envErr != nil && !os.IsNotExist(envErr) {
		logx.Warn().Err(envErr).Msg("could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(&cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
