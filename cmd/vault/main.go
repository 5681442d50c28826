package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/shell"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/internal/utils"
	"github.com/MKhiriev/go-pass-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("go-pass-vault").Fatal().Err(err).Msg("error getting configs")
	}

	logger.SetLevel(cfg.Log.Level)
	log, logCloser := logger.NewFileLogger("go-pass-vault", cfg.Log.File)
	defer logCloser.Close()

	log.Info().Object("build", buildInfo).Str("driver", cfg.Storage.DB.Driver).Msg("starting vault")

	if err = run(cfg, log); err != nil {
		log.Error().Err(err).Msg("vault stopped with error")
		fmt.Fprintln(os.Stderr, "error:", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.StructuredConfig, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	services, err := service.NewServices(storages, cfg.App, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	session := service.NewSession(services, utils.NewUUIDGenerator(), log)
	sh := shell.NewShell(session, os.Stdin, os.Stdout, log)
	defer sh.Close()

	// Reads from stdin cannot be interrupted, so the shell runs aside and a
	// signal ends the process without waiting for the next line.
	done := make(chan error, 1)
	go func() {
		done <- sh.Run(ctx)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		fmt.Fprintln(os.Stdout)
		err = nil
	}

	session.Logout(context.Background())
	log.Info().Msg("vault stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
