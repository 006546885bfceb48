package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

type playerService interface {
	CreatePlayer(ctx context.Context, name string) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
	UpdatePlayerName(ctx context.Context, id, name string) (*entity.Player, error)
}

type tableService interface {
	CreateTable(ctx context.Context, gameType, hostPlayerID string) (*entity.Table, error)
	GetTable(ctx context.Context, tableID string) (*entity.Table, error)
	GetTableByJoinCode(ctx context.Context, joinCode string) (*entity.Table, error)
	JoinTable(ctx context.Context, joinCode, playerID string) (*entity.Table, error)
	AddPlayers(ctx context.Context, tableID string, playerIDs []string) (*entity.Table, error)
	StartGame(ctx context.Context, tableID, playerID string) (*entity.Table, error)
}

type gamePlayService interface {
	GetGameStateFromTable(ctx context.Context, tableID string) (*entity.GameState, error)
	SubmitMove(ctx context.Context, tableID, playerID string, move json.RawMessage) (*entity.GameState, error)
}

type gameCatalog interface {
	GameTypes() []string
}

type Handlers struct {
	logger   *slog.Logger
	players  playerService
	tables   tableService
	gamePlay gamePlayService
	catalog  gameCatalog
}

func NewHandlers(logger *slog.Logger, players playerService, tables tableService, gamePlay gamePlayService, catalog gameCatalog) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		players:  players,
		tables:   tables,
		gamePlay: gamePlay,
		catalog:  catalog,
	}
}

func (that *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *Handlers) Heartbeat(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (that *Handlers) ListGameTypes(w http.ResponseWriter, _ *http.Request) {
	that.respondJSON(w, http.StatusOK, map[string][]string{
		"game_types": that.catalog.GameTypes(),
	})
}

func (that *Handlers) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	player, err := that.players.CreatePlayer(r.Context(), body.Name)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusCreated, player)
}

func (that *Handlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := that.players.GetPlayerByID(r.Context(), chi.URLParam(r, "player_id"))
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, player)
}

func (that *Handlers) UpdatePlayerName(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	player, err := that.players.UpdatePlayerName(r.Context(), chi.URLParam(r, "player_id"), body.Name)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, player)
}

func (that *Handlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GameType     string `json:"game_type"`
		HostPlayerID string `json:"host_player_id"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	table, err := that.tables.CreateTable(r.Context(), body.GameType, body.HostPlayerID)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusCreated, table)
}

func (that *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	table, err := that.tables.GetTable(r.Context(), chi.URLParam(r, "table_id"))
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, table)
}

func (that *Handlers) GetTableByJoinCode(w http.ResponseWriter, r *http.Request) {
	table, err := that.tables.GetTableByJoinCode(r.Context(), chi.URLParam(r, "join_code"))
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, table)
}

func (that *Handlers) JoinTable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"player_id"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	table, err := that.tables.JoinTable(r.Context(), chi.URLParam(r, "join_code"), body.PlayerID)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, table)
}

func (that *Handlers) AddPlayers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerIDs []string `json:"player_ids"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	table, err := that.tables.AddPlayers(r.Context(), chi.URLParam(r, "table_id"), body.PlayerIDs)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, table)
}

func (that *Handlers) StartGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"player_id"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	table, err := that.tables.StartGame(r.Context(), chi.URLParam(r, "table_id"), body.PlayerID)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, table)
}

// GetTableGameState - the polling read. Responds 404 until the host starts
// the game; the front end renders that as a waiting screen.
func (that *Handlers) GetTableGameState(w http.ResponseWriter, r *http.Request) {
	state, err := that.gamePlay.GetGameStateFromTable(r.Context(), chi.URLParam(r, "table_id"))
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, state)
}

// UpdateTableGameState - the move-submission path. The updates field carries
// the engine-specific move; turn ownership is re-checked server-side.
func (that *Handlers) UpdateTableGameState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string          `json:"player_id"`
		Updates  json.RawMessage `json:"updates"`
	}

	if !that.decodeBody(w, r, &body) {
		return
	}

	state, err := that.gamePlay.SubmitMove(r.Context(), chi.URLParam(r, "table_id"), body.PlayerID, body.Updates)
	if err != nil {
		that.respondError(w, err)
		return
	}

	that.respondJSON(w, http.StatusOK, state)
}
