package entity

import (
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

// Game is a stored reversi session.
type Game struct {
	ID        string        `json:"id"`
	Engine    *reversi.Game `json:"engine"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Engine:    reversi.NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Engine.IsOver()
}

func (that *Game) IsOngoing() bool {
	return !that.Engine.IsOver()
}

// Touch records a change to the session.
func (that *Game) Touch(now time.Time) {
	that.UpdatedAt = now
}
