package game

import "fmt"

// Move takes the pawn on From to To.
type Move struct {
	From TileIndex
	To   TileIndex
}

func (m Move) String() string {
	return fmt.Sprintf("%d->%d", m.From, m.To)
}

// IsCapture reports whether m lands on an enemy pawn of b.
func (m Move) IsCapture(b *BoardState) bool {
	src, ok := b.PawnAt(m.From)
	if !ok {
		return false
	}
	dst, ok := b.PawnAt(m.To)
	return ok && dst.Player != src.Player
}

// GenerateMoves lists every legal move of side on b. Only side's PawnArray is
// walked, so the cost does not depend on the board size.
func GenerateMoves(b *BoardState, side PlayerSide) []Move {
	arr := b.pawnsOf(side)
	if arr == nil {
		return nil
	}
	moves := make([]Move, 0, arr.Count()*len(octoDirs))
	for slot := 0; slot < arr.Count(); slot++ {
		from := arr.At(slot)
		for _, to := range b.LegalMoves(from, side) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

// HasMoves reports whether side has at least one legal move.
func HasMoves(b *BoardState, side PlayerSide) bool {
	arr := b.pawnsOf(side)
	if arr == nil {
		return false
	}
	for slot := 0; slot < arr.Count(); slot++ {
		if len(b.LegalMoves(arr.At(slot), side)) > 0 {
			return true
		}
	}
	return false
}
