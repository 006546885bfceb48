package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/boardgame-backend/internal/config"
	"github.com/rocketscienceinc/boardgame-backend/internal/game"
	"github.com/rocketscienceinc/boardgame-backend/internal/game/tictactoe"
	"github.com/rocketscienceinc/boardgame-backend/internal/pkg"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository"
	"github.com/rocketscienceinc/boardgame-backend/internal/repository/storage"
	"github.com/rocketscienceinc/boardgame-backend/internal/service"
	"github.com/rocketscienceinc/boardgame-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	db, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	registry := game.NewRegistry(logger)
	registry.Register(tictactoe.New())

	playerRepo := repository.NewPlayerRepository(db)
	tableRepo := repository.NewTableRepository(db)
	gameStateRepo := repository.NewGameStateRepository(redisClient)

	locks := pkg.NewKeyedMutex()

	gameStateService := service.NewGameStateService(logger, registry, gameStateRepo, locks)
	playerService := service.NewPlayerService(playerRepo)
	tableService := service.NewTableService(logger, tableRepo, playerRepo, registry, gameStateService, locks)
	gamePlayService := service.NewGamePlayService(logger, tableRepo, gameStateService, locks)

	handlers := rest.NewHandlers(logger, playerService, tableService, gamePlayService, registry)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
