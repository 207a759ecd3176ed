package game

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrNoPawn      = errors.New("no pawn on source tile")
	ErrNotYourPawn = errors.New("pawn belongs to the other side")
	ErrIllegalMove = errors.New("destination is not reachable")
)

// Mode tells who plays Top.
type Mode int

const (
	OnePlayer Mode = iota // human Bottom vs computer Top
	TwoPlayer
)

func (m Mode) String() string {
	if m == TwoPlayer {
		return "2p"
	}
	return "1p"
}

// ParseMode accepts "1p"/"2p" as well as "1"/"2".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "1p", "1", "one":
		return OnePlayer, nil
	case "2p", "2", "two":
		return TwoPlayer, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// GameState is one game session: the current board, the undo history and
// the result once the game has ended.
type GameState struct {
	Board    *BoardState
	Mode     Mode
	AISide   PlayerSide // NoSide in TwoPlayer mode
	GameOver bool
	Winner   PlayerSide

	grid     Grid
	maxPawns int
	history  []*BoardState
}

// NewGameState starts a game on grid with ReferenceSetup. The grid must be
// large enough to hold the setup.
func NewGameState(grid Grid, mode Mode, maxPawns int) (*GameState, error) {
	gs := &GameState{Mode: mode, grid: grid, maxPawns: maxPawns}
	if err := gs.reset(); err != nil {
		return nil, err
	}
	return gs, nil
}

func (gs *GameState) reset() error {
	b := NewBoardState(gs.grid, Bottom, gs.maxPawns)
	if err := b.Place(ReferenceSetup); err != nil {
		return fmt.Errorf("setup on grid side %d: %w", gs.grid.Side(), err)
	}
	gs.Board = b
	gs.GameOver = false
	gs.Winner = NoSide
	gs.history = gs.history[:0]
	gs.AISide = NoSide
	if gs.Mode == OnePlayer {
		gs.AISide = Top
	}
	return nil
}

// Reset starts over with the same grid and mode.
func (gs *GameState) Reset() {
	if err := gs.reset(); err != nil {
		// the same setup succeeded in NewGameState
		panic(err)
	}
}

// IsAITurn reports whether the computer should move now.
func (gs *GameState) IsAITurn() bool {
	return !gs.GameOver && gs.AISide != NoSide && gs.Board.CurrentPlayer() == gs.AISide
}

// Selectable reports whether the side to move owns the pawn on i.
func (gs *GameState) Selectable(i TileIndex) bool {
	p, ok := gs.Board.PawnAt(i)
	return ok && p.Player == gs.Board.CurrentPlayer()
}

// MakeMove validates and plays m for the side to move, then checks whether
// the game has ended.
func (gs *GameState) MakeMove(m Move) (captured bool, err error) {
	if gs.GameOver {
		return false, ErrGameOver
	}
	b := gs.Board
	p, ok := b.PawnAt(m.From)
	if !ok {
		return false, fmt.Errorf("move %v: %w", m, ErrNoPawn)
	}
	if p.Player != b.CurrentPlayer() {
		return false, fmt.Errorf("move %v: %w", m, ErrNotYourPawn)
	}
	legal := false
	for _, to := range b.LegalMoves(m.From, p.Player) {
		if to == m.To {
			legal = true
			break
		}
	}
	if !legal {
		return false, fmt.Errorf("move %v: %w", m, ErrIllegalMove)
	}

	captured = m.IsCapture(b)
	next := b.ApplyMove(m.From, m.To)
	if err := next.Validate(); err != nil {
		// ApplyMove broke its own bookkeeping; keep the old board
		return false, fmt.Errorf("move %v: %w", m, err)
	}
	gs.history = append(gs.history, b)
	gs.Board = next

	log.Info().
		Stringer("side", p.Player).
		Stringer("from", b.grid.CoordOf(m.From)).
		Stringer("to", b.grid.CoordOf(m.To)).
		Bool("capture", captured).
		Msg("move played")

	gs.checkGameOver()
	return captured, nil
}

// checkGameOver ends the game when a side has no pawn left, or when the side
// to move cannot move.
func (gs *GameState) checkGameOver() {
	if gs.GameOver {
		return
	}
	if w, ok := gs.Board.Winner(); ok {
		gs.GameOver, gs.Winner = true, w
	} else if cur := gs.Board.CurrentPlayer(); !HasMoves(gs.Board, cur) {
		gs.GameOver, gs.Winner = true, cur.Reverse()
	}
	if gs.GameOver {
		log.Info().Stringer("winner", gs.Winner).Int("plies", len(gs.history)).Msg("game over")
	}
}

// Undo restores the board before the last move. In OnePlayer mode the
// computer reply is undone together with the human move, so the human is
// to move again.
func (gs *GameState) Undo() bool {
	if len(gs.history) == 0 {
		return false
	}
	gs.pop()
	if gs.AISide != NoSide && gs.Board.CurrentPlayer() == gs.AISide && len(gs.history) > 0 {
		gs.pop()
	}
	gs.GameOver, gs.Winner = false, NoSide
	gs.checkGameOver()
	return true
}

func (gs *GameState) pop() {
	last := len(gs.history) - 1
	gs.Board = gs.history[last]
	gs.history = gs.history[:last]
}

// Plies returns how many moves have been played.
func (gs *GameState) Plies() int { return len(gs.history) }
