package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/config"
	"github.com/thereayou/noticeboard/internal/telemetry"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithError(err).Warn("invalid LOG_LEVEL, using info")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		log.WithError(err).Fatal("tracing init failed")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.WithError(err).Warn("tracer shutdown")
		}
	}()

	srv, err := NewServer(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("server init failed")
	}

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("server stopped with error")
	}
}
