package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Start - runs the HTTP server until ctx is canceled.
func Start(ctx context.Context, port string, handlers *Handlers) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      newRouter(handlers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func newRouter(handlers *Handlers) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/ping", handlers.Ping)
	router.Get("/heartbeat", handlers.Heartbeat)
	router.Get("/games", handlers.ListGameTypes)

	router.Route("/player", func(r chi.Router) {
		r.Post("/create", handlers.CreatePlayer)
		r.Get("/{player_id}", handlers.GetPlayer)
		r.Put("/{player_id}/name", handlers.UpdatePlayerName)
	})

	router.Route("/table", func(r chi.Router) {
		r.Post("/create", handlers.CreateTable)
		r.Get("/join/{join_code}", handlers.GetTableByJoinCode)
		r.Post("/join/{join_code}", handlers.JoinTable)
		r.Get("/{table_id}", handlers.GetTable)
		r.Post("/{table_id}/start", handlers.StartGame)
		r.Post("/{table_id}/addPlayers", handlers.AddPlayers)
		r.Get("/{table_id}/game-state", handlers.GetTableGameState)
		r.Post("/{table_id}/game-state/update", handlers.UpdateTableGameState)
	})

	return router
}
