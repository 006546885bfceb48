package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/boardgame-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgame-backend/internal/entity"
)

// stubServices - canned responses per operation so each test controls exactly
// what the handler sees.
type stubServices struct {
	player     *entity.Player
	playerErr  error
	table      *entity.Table
	tableErr   error
	state      *entity.GameState
	stateErr   error
	gameTypes  []string
	lastName   string
	lastMove   json.RawMessage
	lastPlayer string
}

func (that *stubServices) CreatePlayer(_ context.Context, name string) (*entity.Player, error) {
	that.lastName = name
	return that.player, that.playerErr
}

func (that *stubServices) GetPlayerByID(_ context.Context, _ string) (*entity.Player, error) {
	return that.player, that.playerErr
}

func (that *stubServices) UpdatePlayerName(_ context.Context, _, name string) (*entity.Player, error) {
	that.lastName = name
	return that.player, that.playerErr
}

func (that *stubServices) CreateTable(_ context.Context, _, _ string) (*entity.Table, error) {
	return that.table, that.tableErr
}

func (that *stubServices) GetTable(_ context.Context, _ string) (*entity.Table, error) {
	return that.table, that.tableErr
}

func (that *stubServices) GetTableByJoinCode(_ context.Context, _ string) (*entity.Table, error) {
	return that.table, that.tableErr
}

func (that *stubServices) JoinTable(_ context.Context, _, playerID string) (*entity.Table, error) {
	that.lastPlayer = playerID
	return that.table, that.tableErr
}

func (that *stubServices) AddPlayers(_ context.Context, _ string, _ []string) (*entity.Table, error) {
	return that.table, that.tableErr
}

func (that *stubServices) StartGame(_ context.Context, _, playerID string) (*entity.Table, error) {
	that.lastPlayer = playerID
	return that.table, that.tableErr
}

func (that *stubServices) GetGameStateFromTable(_ context.Context, _ string) (*entity.GameState, error) {
	return that.state, that.stateErr
}

func (that *stubServices) SubmitMove(_ context.Context, _, playerID string, move json.RawMessage) (*entity.GameState, error) {
	that.lastPlayer = playerID
	that.lastMove = move
	return that.state, that.stateErr
}

func (that *stubServices) GameTypes() []string {
	return that.gameTypes
}

func newTestRouter(stubs *stubServices) http.Handler {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return newRouter(NewHandlers(logger, stubs, stubs, stubs, stubs))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandlers_Ping(t *testing.T) {
	router := newTestRouter(&stubServices{})

	rec := doRequest(t, router, http.MethodGet, "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHandlers_ListGameTypes(t *testing.T) {
	router := newTestRouter(&stubServices{gameTypes: []string{"tic-tac-toe"}})

	rec := doRequest(t, router, http.MethodGet, "/games", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"game_types":["tic-tac-toe"]}`, rec.Body.String())
}

func TestHandlers_CreatePlayer(t *testing.T) {
	t.Run("Responds 201 with the created player", func(t *testing.T) {
		stubs := &stubServices{player: &entity.Player{PlayerID: "p1", Name: "Alice"}}
		router := newTestRouter(stubs)

		rec := doRequest(t, router, http.MethodPost, "/player/create", `{"name":"Alice"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Alice", stubs.lastName)

		var player entity.Player
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &player))
		assert.Equal(t, "p1", player.PlayerID)
	})

	t.Run("Responds 400 on a malformed body", func(t *testing.T) {
		router := newTestRouter(&stubServices{})

		rec := doRequest(t, router, http.MethodPost, "/player/create", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_GetPlayer(t *testing.T) {
	t.Run("Responds 404 for an unknown player", func(t *testing.T) {
		router := newTestRouter(&stubServices{playerErr: fmt.Errorf("lookup: %w", apperror.ErrPlayerNotFound)})

		rec := doRequest(t, router, http.MethodGet, "/player/missing", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlers_UpdatePlayerName(t *testing.T) {
	t.Run("Responds 400 on a blank name", func(t *testing.T) {
		router := newTestRouter(&stubServices{playerErr: apperror.ErrEmptyPlayerName})

		rec := doRequest(t, router, http.MethodPut, "/player/p1/name", `{"name":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_CreateTable(t *testing.T) {
	t.Run("Responds 201 with the created table", func(t *testing.T) {
		table := entity.NewTable("t1", "ABCD", "tic-tac-toe", "p1")
		router := newTestRouter(&stubServices{table: table})

		rec := doRequest(t, router, http.MethodPost, "/table/create", `{"game_type":"tic-tac-toe","host_player_id":"p1"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got entity.Table
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "ABCD", got.JoinCode)
		assert.Equal(t, entity.StatusWaiting, got.Status)
	})

	t.Run("Responds 404 for an unsupported game type", func(t *testing.T) {
		router := newTestRouter(&stubServices{tableErr: fmt.Errorf("create: %w", apperror.ErrGameTypeNotSupported)})

		rec := doRequest(t, router, http.MethodPost, "/table/create", `{"game_type":"backgammon","host_player_id":"p1"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlers_JoinTable(t *testing.T) {
	t.Run("Responds 200 and passes the player through", func(t *testing.T) {
		table := entity.NewTable("t1", "ABCD", "tic-tac-toe", "p1")
		stubs := &stubServices{table: table}
		router := newTestRouter(stubs)

		rec := doRequest(t, router, http.MethodPost, "/table/join/ABCD", `{"player_id":"p2"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "p2", stubs.lastPlayer)
	})

	t.Run("Responds 400 once the table stopped waiting", func(t *testing.T) {
		router := newTestRouter(&stubServices{tableErr: fmt.Errorf("join: %w", apperror.ErrTableNotJoinable)})

		rec := doRequest(t, router, http.MethodPost, "/table/join/ABCD", `{"player_id":"p2"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_StartGame(t *testing.T) {
	t.Run("Responds 400 when a non-host starts", func(t *testing.T) {
		router := newTestRouter(&stubServices{tableErr: apperror.ErrNotHost})

		rec := doRequest(t, router, http.MethodPost, "/table/t1/start", `{"player_id":"p2"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlers_GetTableGameState(t *testing.T) {
	t.Run("Responds 404 while the table is waiting", func(t *testing.T) {
		router := newTestRouter(&stubServices{stateErr: fmt.Errorf("poll: %w", apperror.ErrGameStateNotFound)})

		rec := doRequest(t, router, http.MethodGet, "/table/t1/game-state", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Responds 200 with the tagged state", func(t *testing.T) {
		state := &entity.GameState{
			ID:             "s1",
			CurrentPlayer:  "p1",
			WinningPlayers: []string{},
			LosingPlayers:  []string{},
			GameSpecificState: entity.GameSpecificState{
				GameType: "tic-tac-toe",
				Data:     json.RawMessage(`{"board":[["","",""],["","",""],["","",""]]}`),
			},
			Version: 1,
		}
		router := newTestRouter(&stubServices{state: state})

		rec := doRequest(t, router, http.MethodGet, "/table/t1/game-state", "")

		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		var payload map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body["game_specific_state"], &payload))
		assert.JSONEq(t, `"tic-tac-toe"`, string(payload["gameType"]))
	})
}

func TestHandlers_UpdateTableGameState(t *testing.T) {
	t.Run("Passes the move payload through untouched", func(t *testing.T) {
		stubs := &stubServices{state: &entity.GameState{ID: "s1"}}
		router := newTestRouter(stubs)

		rec := doRequest(t, router, http.MethodPost, "/table/t1/game-state/update",
			`{"player_id":"p1","updates":{"board":[["X","",""],["","",""],["","",""]]}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "p1", stubs.lastPlayer)
		assert.JSONEq(t, `{"board":[["X","",""],["","",""],["","",""]]}`, string(stubs.lastMove))
	})

	t.Run("Responds 400 on an illegal move", func(t *testing.T) {
		router := newTestRouter(&stubServices{stateErr: fmt.Errorf("move: %w", apperror.ErrCellOccupied)})

		rec := doRequest(t, router, http.MethodPost, "/table/t1/game-state/update",
			`{"player_id":"p1","updates":{"board":[["X","",""],["","",""],["","",""]]}}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Responds 409 on a version conflict", func(t *testing.T) {
		router := newTestRouter(&stubServices{stateErr: fmt.Errorf("move: %w", apperror.ErrVersionConflict)})

		rec := doRequest(t, router, http.MethodPost, "/table/t1/game-state/update",
			`{"player_id":"p1","updates":{"board":[["X","",""],["","",""],["","",""]]}}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
