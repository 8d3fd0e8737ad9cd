package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kees-jan/swoq-bot/internal/config"
	"github.com/kees-jan/swoq-bot/internal/session"
	"github.com/kees-jan/swoq-bot/internal/version"
	"github.com/kees-jan/swoq-bot/internal/wstransport"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	os.Exit(run())
}

func run() int {
	logger.Log.Info("Starting swoq-bot...")
	logger.Log.Info(version.String())

	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("configuration error")
	}

	ctx, cancel := signalContext()
	defer cancel()

	var opts []wstransport.Option
	if cfg.Level != nil {
		opts = append(opts, wstransport.WithLevel(*cfg.Level))
	}
	if cfg.Seed != nil {
		opts = append(opts, wstransport.WithSeed(*cfg.Seed))
	}

	transport, err := wstransport.Dial(ctx, cfg.Host, cfg.UserID, cfg.UserName, opts...)
	if err != nil {
		logger.Log.WithError(err).Error("failed to connect to game server")
		return 1
	}
	defer func() {
		if err := transport.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close transport")
		}
	}()

	sess := session.New(transport, cfg.ReplaysFolder, 2)
	if err := sess.Run(ctx); err != nil {
		logger.Log.WithError(err).Error("session ended with error")
		return 1
	}

	logger.Log.Info("session finished successfully")
	return 0
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Log.Info("shutdown requested")
		cancel()
	}()
	return ctx, cancel
}
