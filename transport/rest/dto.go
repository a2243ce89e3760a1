package rest

import (
	"time"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

type countsView struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type gameView struct {
	ID            string             `json:"id"`
	Board         [][]string         `json:"board"`
	Counts        countsView         `json:"counts"`
	CurrentPlayer reversi.Cell       `json:"current_player"`
	State         reversi.State      `json:"state"`
	Result        reversi.Result     `json:"result,omitempty"`
	LegalMoves    []reversi.Position `json:"legal_moves"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func newGameView(game *entity.Game) gameView {
	board := game.Engine.Board()
	black, white := game.Engine.Counts()
	result, _ := game.Engine.Result()

	return gameView{
		ID:            game.ID,
		Board:         board.Rows(),
		Counts:        countsView{Black: black, White: white},
		CurrentPlayer: game.Engine.CurrentPlayer(),
		State:         game.Engine.State(),
		Result:        result,
		LegalMoves:    game.Engine.LegalMoves(),
		CreatedAt:     game.CreatedAt,
		UpdatedAt:     game.UpdatedAt,
	}
}

// moveRequest uses pointers so a missing coordinate is not read as zero.
type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type moveResponse struct {
	Move reversi.MoveResult `json:"move"`
	Game *gameView          `json:"game,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
