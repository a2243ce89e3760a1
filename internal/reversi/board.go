package reversi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

const BoardSize = 8

// Cell is the content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

func (that Cell) String() string {
	switch that {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "empty"
	}
}

// Opponent returns the other colour. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

func (that Cell) isPlayer() bool {
	return that == Black || that == White
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*that = Black
	case "white":
		*that = White
	case "empty", "":
		*that = Empty
	default:
		return fmt.Errorf("%w: unknown cell %q", apperror.ErrInvalidSnapshot, text)
	}

	return nil
}

// Position addresses a square by zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is an 8x8 grid of cells. It is a value type; copying a Board copies the grid.
type Board [BoardSize][BoardSize]Cell

// NewBoard returns a board in the starting configuration.
func NewBoard() Board {
	var b Board
	b.Reset()

	return b
}

// Reset clears the grid and places the four centre discs.
func (that *Board) Reset() {
	*that = Board{}

	mid := BoardSize / 2
	that[mid-1][mid-1], that[mid][mid] = White, White
	that[mid-1][mid], that[mid][mid-1] = Black, Black
}

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < BoardSize && col < BoardSize
}

func checkRange(row, col int) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrOutOfRange, row, col)
	}

	return nil
}

func (that *Board) Get(row, col int) (Cell, error) {
	if err := checkRange(row, col); err != nil {
		return Empty, err
	}

	return that[row][col], nil
}

// set is reserved for the turn controller.
func (that *Board) set(row, col int, cell Cell) error {
	if err := checkRange(row, col); err != nil {
		return err
	}

	that[row][col] = cell

	return nil
}

// CountDiscs scans all 64 squares.
func (that *Board) CountDiscs() (int, int) {
	black, white := 0, 0

	for row := range BoardSize {
		for col := range BoardSize {
			switch that[row][col] {
			case Black:
				black++
			case White:
				white++
			}
		}
	}

	return black, white
}

// Rows renders the grid as cell names, row by row.
func (that *Board) Rows() [][]string {
	rows := make([][]string, BoardSize)
	for row := range BoardSize {
		rows[row] = make([]string, BoardSize)
		for col := range BoardSize {
			rows[row][col] = that[row][col].String()
		}
	}

	return rows
}

// String draws the board with '.', 'B' and 'W', one line per row.
func (that *Board) String() string {
	var sb strings.Builder

	for row := range BoardSize {
		for col := range BoardSize {
			switch that[row][col] {
			case Black:
				sb.WriteByte('B')
			case White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// ParseBoard is the inverse of String. Blank lines and surrounding spaces are ignored.
func ParseBoard(text string) (Board, error) {
	var b Board

	row := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if row >= BoardSize || len(line) != BoardSize {
			return Board{}, fmt.Errorf("%w: board must be %dx%d", apperror.ErrInvalidSnapshot, BoardSize, BoardSize)
		}

		for col, ch := range line {
			switch ch {
			case 'B':
				b[row][col] = Black
			case 'W':
				b[row][col] = White
			case '.':
				b[row][col] = Empty
			default:
				return Board{}, fmt.Errorf("%w: unexpected %q at (%d, %d)", apperror.ErrInvalidSnapshot, ch, row, col)
			}
		}
		row++
	}

	if row != BoardSize {
		return Board{}, fmt.Errorf("%w: board must be %dx%d", apperror.ErrInvalidSnapshot, BoardSize, BoardSize)
	}

	return b, nil
}

func (that Board) MarshalJSON() ([]byte, error) {
	lines := strings.Split(strings.TrimSuffix(that.String(), "\n"), "\n")

	return json.Marshal(lines)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	b, err := ParseBoard(strings.Join(lines, "\n"))
	if err != nil {
		return err
	}

	*that = b

	return nil
}
