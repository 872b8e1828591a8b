package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kiwari-pos/dashboard/internal/app"
	"github.com/kiwari-pos/dashboard/internal/config"
	"github.com/kiwari-pos/dashboard/internal/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't initialize logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := app.New(cfg, log).Run(context.Background()); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
