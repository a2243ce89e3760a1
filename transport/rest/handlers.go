package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/pkg"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

const maxBodyBytes = 1 << 10

type gameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SubmitMove(ctx context.Context, id string, row, col int) (*entity.Game, reversi.MoveResult, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type handlers struct {
	logger *slog.Logger
	games  gameService
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newGameView(game))
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	id, ok := that.gameID(w, r)
	if !ok {
		return
	}

	game, err := that.games.GetGame(r.Context(), id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameView(game))
}

func (that *handlers) submitMove(w http.ResponseWriter, r *http.Request) {
	id, ok := that.gameID(w, r)
	if !ok {
		return
	}

	req, err := decodeMove(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"row\": int, \"col\": int}"})
		return
	}

	game, result, err := that.games.SubmitMove(r.Context(), id, *req.Row, *req.Col)
	if errors.Is(err, apperror.ErrIllegalMove) {
		resp := moveResponse{Move: result}
		if game != nil {
			view := newGameView(game)
			resp.Game = &view
		}
		that.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	if err != nil {
		that.writeError(w, r, err)
		return
	}

	view := newGameView(game)
	that.writeJSON(w, http.StatusOK, moveResponse{Move: result, Game: &view})
}

var errMalformedMove = errors.New("malformed move")

// decodeMove reads exactly one move object; unknown fields, missing coordinates and
// anything after the object are refused.
func decodeMove(body io.Reader) (moveRequest, error) {
	var req moveRequest

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %w", errMalformedMove, err)
	}

	if req.Row == nil || req.Col == nil {
		return req, fmt.Errorf("%w: row and col are required", errMalformedMove)
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: trailing data after move", errMalformedMove)
	}

	return req, nil
}

func (that *handlers) resetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := that.gameID(w, r)
	if !ok {
		return
	}

	game, err := that.games.ResetGame(r.Context(), id)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameView(game))
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := that.gameID(w, r)
	if !ok {
		return
	}

	if err := that.games.DeleteGame(r.Context(), id); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// gameID reads the {id} path parameter; malformed ids are answered with 404 directly.
func (that *handlers) gameID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !pkg.IsGameID(id) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
		return "", false
	}

	return id, true
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrGameOver), errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
