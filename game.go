package main

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	SymbolX    = "X"
	SymbolO    = "O"
	ResultDraw = "draw"
)

const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

var (
	ErrGameNotFound    = errors.New("Game not found")
	ErrGameFinished    = errors.New("Game is already over")
	ErrNotYourTurn     = errors.New("Not your turn")
	ErrInvalidPosition = errors.New("Invalid position")
	ErrCellOccupied    = errors.New("Cell already occupied")
)

// Board holds the nine cells in row-major order. An empty string is an
// empty cell; on the wire empty cells are null.
type Board [9]string

func (b Board) MarshalJSON() ([]byte, error) {
	cells := make([]*string, len(b))
	for i := range b {
		if b[i] != "" {
			symbol := b[i]
			cells[i] = &symbol
		}
	}
	return json.Marshal(cells)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var cells []*string
	if err := json.Unmarshal(data, &cells); err != nil {
		return err
	}
	if len(cells) != len(b) {
		return fmt.Errorf("board must have %d cells, got %d", len(b), len(cells))
	}
	for i, cell := range cells {
		b[i] = ""
		if cell != nil {
			b[i] = *cell
		}
	}
	return nil
}

func (b Board) full() bool {
	for _, cell := range b {
		if cell == "" {
			return false
		}
	}
	return true
}

type Game struct {
	ID      string `json:"id"`
	PlayerX string `json:"playerX"`
	PlayerO string `json:"playerO"`
	Board   Board  `json:"board"`
	Turn    string `json:"turn"`
	Status  string `json:"status"`
}

func newGame(id, playerX, playerO string) *Game {
	return &Game{
		ID:      id,
		PlayerX: playerX,
		PlayerO: playerO,
		Turn:    playerX,
		Status:  StatusActive,
	}
}

func (g *Game) symbolOf(handle string) string {
	if handle == g.PlayerX {
		return SymbolX
	}
	return SymbolO
}

func (g *Game) opponentOf(handle string) string {
	if handle == g.PlayerX {
		return g.PlayerO
	}
	return g.PlayerX
}

var winningCombinations = [][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// checkWinner returns the winning symbol, ResultDraw for a full board with
// no completed line, or "" while the game can continue. A line completed on
// the last free cell is a win, not a draw.
func checkWinner(board Board) string {
	for _, combo := range winningCombinations {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != "" && a == b && b == c {
			return a
		}
	}
	if board.full() {
		return ResultDraw
	}
	return ""
}

// applyMove validates and applies a move for handle. Checks run in order
// (existence, status, turn, bounds, occupancy) and the game is left
// untouched when any of them fails. The returned result is "" while the
// game goes on, otherwise the winning symbol or ResultDraw.
func applyMove(g *Game, handle string, position int) (string, error) {
	if g == nil {
		return "", ErrGameNotFound
	}
	if g.Status != StatusActive {
		return "", ErrGameFinished
	}
	if g.Turn != handle {
		return "", ErrNotYourTurn
	}
	if position < 0 || position >= len(g.Board) {
		return "", ErrInvalidPosition
	}
	if g.Board[position] != "" {
		return "", ErrCellOccupied
	}

	g.Board[position] = g.symbolOf(handle)

	result := checkWinner(g.Board)
	if result != "" {
		g.Status = StatusFinished
		return result, nil
	}
	g.Turn = g.opponentOf(handle)
	return "", nil
}
