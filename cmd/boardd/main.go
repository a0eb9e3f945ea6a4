// boardd serves a single in-memory conversation board over HTTP. All
// state lives in the process; restarting starts from a fresh (or
// seeded) board.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"nodular/infrastructure/config"
	"nodular/infrastructure/di"
	"nodular/interfaces/http/rest"
)

func main() {
	// Optional local overrides; absence is fine
	_ = godotenv.Load()

	flags := pflag.NewFlagSet("boardd", pflag.ExitOnError)
	flags.String("environment", "development", "runtime environment (development, production)")
	flags.String("server.host", "127.0.0.1", "listen host")
	flags.Int("server.port", 8080, "listen port")
	flags.String("logging.level", "info", "log level (debug, info, warn, error)")
	flags.Bool("board.seed", true, "seed the demo board on startup")
	flags.String("render.options_file", "", "TOML file watched for render option changes")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	container, err := di.InitializeContainer(cfg)
	if err != nil {
		os.Stderr.WriteString("init: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := container.Logger
	defer logger.Sync()
	defer container.Options.Stop()

	router := rest.NewRouter(container.CommandBus, container.QueryBus, logger)
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("boardd listening",
			zap.String("address", cfg.Server.Address()),
			zap.String("environment", cfg.Environment))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("boardd stopped")
}
