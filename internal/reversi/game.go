package reversi

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

// State tags the turn controller's position in the move cycle.
type State string

const (
	StateAwaitingMove     State = "awaiting_move"
	StateEvaluating       State = "evaluating"
	StateForcedPassNotice State = "forced_pass_notice"
	StateGameOver         State = "game_over"
)

// Result is the outcome of a finished game.
type Result string

const (
	ResultNone  Result = ""
	ResultBlack Result = "black"
	ResultWhite Result = "white"
	ResultDraw  Result = "draw"
)

// MoveResult describes what a SubmitMove call did.
type MoveResult struct {
	Accepted      bool       `json:"accepted"`
	Flipped       []Position `json:"flipped"`
	NextState     State      `json:"next_state"`
	CurrentPlayer Cell       `json:"current_player"`
	ForcedPass    bool       `json:"forced_pass"`
	PassedPlayer  Cell       `json:"passed_player,omitempty"`
	Result        Result     `json:"result,omitempty"`
}

// Game owns a board and the turn state machine. The zero value is not ready for use;
// call NewGame. A Game is not safe for concurrent use.
type Game struct {
	board         Board
	currentPlayer Cell
	state         State
}

func NewGame() *Game {
	game := &Game{}
	game.Reset()

	return game
}

// Reset starts a new game with Black to move.
func (that *Game) Reset() {
	that.board = NewBoard()
	that.currentPlayer = Black
	that.state = StateAwaitingMove
}

// Board returns a copy of the grid.
func (that *Game) Board() Board {
	return that.board
}

func (that *Game) Counts() (int, int) {
	return that.board.CountDiscs()
}

func (that *Game) CurrentPlayer() Cell {
	return that.currentPlayer
}

func (that *Game) State() State {
	return that.state
}

// Result returns the outcome and whether the game is over. The outcome is derived
// from the disc counts and is ResultNone while the game is running.
func (that *Game) Result() (Result, bool) {
	if that.state != StateGameOver {
		return ResultNone, false
	}

	return that.score(), true
}

func (that *Game) IsOver() bool {
	return that.state == StateGameOver
}

// LegalMoves lists the squares the player to move may take.
func (that *Game) LegalMoves() []Position {
	if that.IsOver() {
		return []Position{}
	}

	return LegalMoves(that.board, that.currentPlayer)
}

// SubmitMove plays (row, col) for the player to move. An illegal move is not an error:
// it comes back with Accepted=false and the game is left untouched. Errors are
// reserved for out-of-range coordinates and moves submitted after the game ended.
func (that *Game) SubmitMove(row, col int) (MoveResult, error) {
	if err := checkRange(row, col); err != nil {
		return that.rejected(), err
	}

	if err := that.confirmAwaitingMove(); err != nil {
		return that.rejected(), err
	}

	mover := that.currentPlayer
	if !IsLegalMove(that.board, row, col, mover) {
		return that.rejected(), nil
	}

	that.state = StateEvaluating

	// (row, col) passed checkRange and every flip lies on the board.
	flips := ComputeFlips(that.board, row, col, mover)
	that.board[row][col] = mover
	for _, pos := range flips {
		that.board[pos.Row][pos.Col] = mover
	}

	outcome := MoveResult{
		Accepted: true,
		Flipped:  flips,
	}

	that.advanceTurn(mover, &outcome)

	outcome.NextState = that.state
	outcome.CurrentPlayer = that.currentPlayer
	outcome.Result, _ = that.Result()

	return outcome, nil
}

// advanceTurn hands the move to the opponent, skipping them when they are stuck and
// ending the game when neither side can play.
func (that *Game) advanceTurn(mover Cell, outcome *MoveResult) {
	opponent := mover.Opponent()
	that.currentPlayer = opponent

	switch {
	case HasAnyLegalMove(that.board, opponent):
		that.state = StateAwaitingMove
	case HasAnyLegalMove(that.board, mover):
		that.state = StateForcedPassNotice
		outcome.ForcedPass = true
		outcome.PassedPlayer = opponent

		that.currentPlayer = mover
		that.state = StateAwaitingMove
	default:
		that.state = StateGameOver
	}
}

func (that *Game) score() Result {
	black, white := that.board.CountDiscs()

	switch {
	case black > white:
		return ResultBlack
	case white > black:
		return ResultWhite
	default:
		return ResultDraw
	}
}

func (that *Game) confirmAwaitingMove() error {
	switch that.state {
	case StateAwaitingMove:
		return nil
	case StateGameOver:
		return fmt.Errorf("%w: result %s", apperror.ErrGameOver, that.score())
	default:
		return fmt.Errorf("%w: unexpected state %q", apperror.ErrInvalidSnapshot, that.state)
	}
}

func (that *Game) rejected() MoveResult {
	result, _ := that.Result()

	return MoveResult{
		Flipped:       []Position{},
		NextState:     that.state,
		CurrentPlayer: that.currentPlayer,
		Result:        result,
	}
}

type snapshot struct {
	Board         Board `json:"board"`
	CurrentPlayer Cell  `json:"current_player"`
	State         State `json:"state"`
}

func (that *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		Board:         that.board,
		CurrentPlayer: that.currentPlayer,
		State:         that.state,
	})
}

// UnmarshalJSON restores a game written by MarshalJSON. Only settled states are
// accepted, and the state must agree with the board: a game awaiting a move needs a
// legal move for the player to move, a finished game must have none for either side.
func (that *Game) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	if !snap.CurrentPlayer.isPlayer() {
		return fmt.Errorf("%w: current player %s", apperror.ErrInvalidSnapshot, snap.CurrentPlayer)
	}

	switch snap.State {
	case StateAwaitingMove:
		if !HasAnyLegalMove(snap.Board, snap.CurrentPlayer) {
			return fmt.Errorf("%w: %s is to move but has no legal move", apperror.ErrInvalidSnapshot, snap.CurrentPlayer)
		}
	case StateGameOver:
		if HasAnyLegalMove(snap.Board, Black) || HasAnyLegalMove(snap.Board, White) {
			return fmt.Errorf("%w: finished game still has legal moves", apperror.ErrInvalidSnapshot)
		}
	default:
		return fmt.Errorf("%w: state %q", apperror.ErrInvalidSnapshot, snap.State)
	}

	that.board = snap.Board
	that.currentPlayer = snap.CurrentPlayer
	that.state = snap.State

	return nil
}
