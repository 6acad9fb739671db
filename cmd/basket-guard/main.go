package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/basket-guard/internal/config"
	"github.com/deppfellow/basket-guard/internal/handler"
	"github.com/deppfellow/basket-guard/internal/logger"
	"github.com/deppfellow/basket-guard/internal/router"
	"github.com/deppfellow/basket-guard/internal/server"
	"github.com/deppfellow/basket-guard/internal/service"
	"github.com/rs/zerolog"
)

// DefaultContextTimeout bounds graceful shutdown, in seconds.
const DefaultContextTimeout = 10

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootstrap.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)

	log := logger.NewLoggerWithService(cfg.Observability, loggerService, os.Stdout)

	if err := run(cfg, &log, loggerService); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		loggerService.Shutdown()
		os.Exit(1)
	}
}

// run wires the application and blocks until SIGINT/SIGTERM or a serve error.
func run(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return err
	}

	services, err := service.NewServices(srv)
	if err != nil {
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	if err := srv.Listen(); err != nil {
		return err
	}

	base := "http://" + srv.Addr()
	log.Info().Msg("Starting server...")
	log.Info().Msgf("Vulnerable endpoint: POST %s%s", base, router.VulnerableBasketPath)
	log.Info().Msgf("Fixed endpoint:      POST %s%s", base, router.FixedBasketPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
