package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/LiveCam/internal/adapters/http"
	"github.com/dkeye/LiveCam/internal/adapters/rtc"
	signaling "github.com/dkeye/LiveCam/internal/adapters/signal"
	"github.com/dkeye/LiveCam/internal/app/session"
	"github.com/dkeye/LiveCam/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	opts := rtc.OptionsFromConfig(cfg.WebRTC)
	opts.OnKeyframeRequest = func() {
		log.Debug().Str("module", "streamer").Msg("viewer requested a keyframe")
	}

	orch := session.New(cfg, rtc.Factory(opts), signaling.Factory(cfg.Signaling))
	loopDone := make(chan struct{})
	go func() {
		orch.Run(ctx)
		close(loopDone)
	}()

	r := router.SetupControlRouter(cfg, orch)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("LiveCam streamer started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-loopDone
	log.Info().Msg("Streamer exited gracefully")
}
