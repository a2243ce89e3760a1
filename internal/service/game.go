package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/pkg"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

type GameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	SubmitMove(ctx context.Context, id string, row, col int) (*entity.Game, reversi.MoveResult, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, apply func(game *entity.Game) error) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo gameRepo
	now      func() time.Time
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo) GameService {
	return &gameService{
		logger:   logger.With("component", "gameService"),
		gameRepo: gameRepo,
		now:      time.Now,
	}
}

func (that *gameService) CreateGame(ctx context.Context) (*entity.Game, error) {
	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game := entity.NewGame(gameID, that.now())
	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

// SubmitMove plays (row, col) for whoever is to move in the session. An illegal move
// returns the unchanged game, the rejected result and apperror.ErrIllegalMove.
func (that *gameService) SubmitMove(ctx context.Context, id string, row, col int) (*entity.Game, reversi.MoveResult, error) {
	log := that.logger.With("method", "SubmitMove", "gameID", id)

	var result reversi.MoveResult

	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		var err error

		result, err = game.Engine.SubmitMove(row, col)
		if err != nil {
			return err
		}

		if !result.Accepted {
			return fmt.Errorf("%w: (%d, %d) for %s", apperror.ErrIllegalMove, row, col, game.Engine.CurrentPlayer())
		}

		game.Touch(that.now())

		return nil
	})

	switch {
	case errors.Is(err, apperror.ErrIllegalMove):
		log.Debug("illegal move rejected", "row", row, "col", col)
		return game, result, err
	case err != nil:
		return nil, result, fmt.Errorf("failed to make move: %w", err)
	}

	log.Debug("move accepted", "row", row, "col", col, "flipped", len(result.Flipped))

	if result.ForcedPass {
		log.Info("player passes", "player", result.PassedPlayer)
	}

	if result.NextState == reversi.StateGameOver {
		black, white := game.Engine.Counts()
		log.Info("game over", "result", result.Result, "black", black, "white", white)
	}

	return game, result, nil
}

func (that *gameService) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) error {
		game.Engine.Reset()
		game.Touch(that.now())

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	that.logger.Info("game reset", "gameID", id)

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}
