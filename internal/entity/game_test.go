package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// When: a session is created
	game := NewGame("123", now)

	// Then: it wraps a fresh engine
	require.NotNil(t, game.Engine)
	assert.Equal(t, "123", game.ID)
	assert.Equal(t, reversi.Black, game.Engine.CurrentPlayer())
	assert.Equal(t, now, game.CreatedAt)
	assert.Equal(t, now, game.UpdatedAt)
	assert.True(t, game.IsOngoing())
	assert.False(t, game.IsFinished())
}

func TestGame_Touch(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	game := NewGame("123", created)

	// When: the session changes later
	game.Touch(created.Add(time.Minute))

	// Then: only the update time moves
	assert.Equal(t, created, game.CreatedAt)
	assert.Equal(t, created.Add(time.Minute), game.UpdatedAt)
}
