package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errRedisDown = errors.New("redis down")

// memoryRepo keeps sessions as JSON so every read works on a fresh copy.
type memoryRepo struct {
	games map[string][]byte
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{games: make(map[string][]byte)}
}

func (that *memoryRepo) Create(_ context.Context, game *entity.Game) error {
	if _, ok := that.games[game.ID]; ok {
		return apperror.ErrGameAlreadyExists
	}

	return that.put(game)
}

func (that *memoryRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	data, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	var game entity.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}

	return &game, nil
}

func (that *memoryRepo) Update(ctx context.Context, id string, apply func(game *entity.Game) error) (*entity.Game, error) {
	game, err := that.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = apply(game); err != nil {
		return game, err
	}

	return game, that.put(game)
}

func (that *memoryRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := that.games[id]; !ok {
		return apperror.ErrGameNotFound
	}
	delete(that.games, id)

	return nil
}

func (that *memoryRepo) put(game *entity.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	that.games[game.ID] = data

	return nil
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) Update(ctx context.Context, id string, apply func(game *entity.Game) error) (*entity.Game, error) {
	args := that.Called(ctx, id, apply)
	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

func newTestService(repo gameRepo) *gameService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewGameService(logger, repo).(*gameService)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return svc
}

func TestGameService_CreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a fresh session", func(t *testing.T) {
		// Given: an empty store
		repo := newMemoryRepo()
		svc := newTestService(repo)

		// When: a game is created
		game, err := svc.CreateGame(ctx)
		require.NoError(t, err)

		// Then: it is persisted with black to move
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, reversi.Black, game.Engine.CurrentPlayer())

		stored, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Engine.Board(), stored.Engine.Board())
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		// Given: a store that is down
		repo := &mockGameRepo{}
		repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		svc := newTestService(repo)

		// When: a game is created
		game, err := svc.CreateGame(ctx)

		// Then: the failure is reported
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameService_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown id", func(t *testing.T) {
		svc := newTestService(newMemoryRepo())

		_, err := svc.GetGame(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameService_SubmitMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Accepted move is persisted", func(t *testing.T) {
		// Given: a new session
		repo := newMemoryRepo()
		svc := newTestService(repo)
		game, err := svc.CreateGame(ctx)
		require.NoError(t, err)

		// When: black opens at (2,3)
		updated, result, err := svc.SubmitMove(ctx, game.ID, 2, 3)
		require.NoError(t, err)

		// Then: the result and the stored session agree
		assert.True(t, result.Accepted)
		assert.Equal(t, []reversi.Position{{Row: 3, Col: 3}}, result.Flipped)
		assert.Equal(t, reversi.White, updated.Engine.CurrentPlayer())

		stored, err := svc.GetGame(ctx, game.ID)
		require.NoError(t, err)
		black, white := stored.Engine.Counts()
		assert.Equal(t, 4, black)
		assert.Equal(t, 1, white)
	})

	t.Run("Illegal move is reported and not stored", func(t *testing.T) {
		// Given: a new session
		repo := newMemoryRepo()
		svc := newTestService(repo)
		game, err := svc.CreateGame(ctx)
		require.NoError(t, err)

		// When: black plays a square that captures nothing
		current, result, err := svc.SubmitMove(ctx, game.ID, 0, 0)

		// Then: the rejection is distinguishable and the game is unchanged
		require.ErrorIs(t, err, apperror.ErrIllegalMove)
		assert.False(t, result.Accepted)
		require.NotNil(t, current)
		assert.Equal(t, reversi.Black, current.Engine.CurrentPlayer())

		stored, err := svc.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, reversi.NewBoard(), stored.Engine.Board())
	})

	t.Run("Out of range is an error", func(t *testing.T) {
		svc := newTestService(newMemoryRepo())
		game, err := svc.CreateGame(ctx)
		require.NoError(t, err)

		_, _, err = svc.SubmitMove(ctx, game.ID, 9, 9)

		require.ErrorIs(t, err, apperror.ErrOutOfRange)
	})

	t.Run("Unknown game", func(t *testing.T) {
		svc := newTestService(newMemoryRepo())

		_, _, err := svc.SubmitMove(ctx, "missing", 2, 3)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Storage failure", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("Update", mock.Anything, "g1", mock.Anything).Return(nil, errRedisDown).Once()
		svc := newTestService(repo)

		game, _, err := svc.SubmitMove(ctx, "g1", 2, 3)

		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
		repo.AssertExpectations(t)
	})
}

func TestGameService_ResetGame(t *testing.T) {
	ctx := context.Background()

	// Given: a session with a move played
	svc := newTestService(newMemoryRepo())
	game, err := svc.CreateGame(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitMove(ctx, game.ID, 2, 3)
	require.NoError(t, err)

	// When: the session is reset
	reset, err := svc.ResetGame(ctx, game.ID)
	require.NoError(t, err)

	// Then: it is back to the opening position
	assert.Equal(t, reversi.NewBoard(), reset.Engine.Board())
	assert.Equal(t, reversi.Black, reset.Engine.CurrentPlayer())
	assert.Equal(t, reversi.StateAwaitingMove, reset.Engine.State())
}

func TestGameService_DeleteGame(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(newMemoryRepo())
	game, err := svc.CreateGame(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteGame(ctx, game.ID))

	_, err = svc.GetGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = svc.DeleteGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}
