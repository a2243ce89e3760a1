package reversi

// directions are the eight unit steps around a square.
var directions = [8]Position{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// run walks from (row, col) in dir and returns the opponent discs passed before an own
// disc closes the line. A line that ends on an empty square or the board edge, or that
// closes with no opponent disc in between, yields nil.
func run(board *Board, row, col int, dir Position, player Cell) []Position {
	opponent := player.Opponent()

	var passed []Position

	r, c := row+dir.Row, col+dir.Col
	for InBounds(r, c) {
		switch board[r][c] {
		case opponent:
			passed = append(passed, Position{Row: r, Col: c})
		case player:
			return passed
		default:
			return nil
		}
		r += dir.Row
		c += dir.Col
	}

	return nil
}

// IsLegalMove reports whether player may place a disc at (row, col). It fails closed:
// occupied or out-of-range targets and non-player colours are simply not legal.
func IsLegalMove(board Board, row, col int, player Cell) bool {
	if !player.isPlayer() || !InBounds(row, col) || board[row][col] != Empty {
		return false
	}

	for _, dir := range directions {
		if len(run(&board, row, col, dir, player)) > 0 {
			return true
		}
	}

	return false
}

// ComputeFlips returns every opponent disc captured by placing player's disc at
// (row, col). All eight directions are evaluated independently; an illegal move
// captures nothing.
func ComputeFlips(board Board, row, col int, player Cell) []Position {
	if !player.isPlayer() || !InBounds(row, col) || board[row][col] != Empty {
		return nil
	}

	var flips []Position
	for _, dir := range directions {
		flips = append(flips, run(&board, row, col, dir, player)...)
	}

	return flips
}

func HasAnyLegalMove(board Board, player Cell) bool {
	for row := range BoardSize {
		for col := range BoardSize {
			if IsLegalMove(board, row, col, player) {
				return true
			}
		}
	}

	return false
}

// LegalMoves lists the legal targets for player in row-major order.
func LegalMoves(board Board, player Cell) []Position {
	moves := make([]Position, 0)

	for row := range BoardSize {
		for col := range BoardSize {
			if IsLegalMove(board, row, col, player) {
				moves = append(moves, Position{Row: row, Col: col})
			}
		}
	}

	return moves
}
