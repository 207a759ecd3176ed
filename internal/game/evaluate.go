// file: internal/game/evaluate.go
package game

import "golang.org/x/exp/slices"

// Weights tunes the static evaluation.
type Weights struct {
	Self        int `yaml:"self"`         // per own pawn
	Enemy       int `yaml:"enemy"`        // per enemy pawn, subtracted
	SupportNear int `yaml:"support_near"` // own pawn one move away
	SupportFar  int `yaml:"support_far"`  // own pawn two moves away
	AttackNear  int `yaml:"attack_near"`  // enemy pawn one move away
	AttackFar   int `yaml:"attack_far"`   // enemy pawn two moves away
	Win         int `yaml:"win"`
	Loss        int `yaml:"loss"`
}

// DefaultWeights weigh enemy material slightly above own material, which
// makes the engine prefer trades and captures. Win/Loss dwarf every
// positional term.
var DefaultWeights = Weights{
	Self:        190,
	Enemy:       200,
	SupportNear: 6,
	SupportFar:  2,
	AttackNear:  12,
	AttackFar:   4,
	Win:         100000,
	Loss:        100000,
}

// Evaluate scores b from side's point of view with DefaultWeights.
func Evaluate(b *BoardState, side PlayerSide) int {
	return DefaultWeights.Evaluate(b, side)
}

// Evaluate scores b from side's point of view.
func (w Weights) Evaluate(b *BoardState, side PlayerSide) int {
	op := side.Reverse()
	myCnt, opCnt := b.PawnCount(side), b.PawnCount(op)

	// 1) material
	score := w.Self*myCnt - w.Enemy*opCnt

	// 2) support / attack range of each own pawn
	arr := b.pawnsOf(side)
	for slot := 0; slot < myCnt; slot++ {
		first, second := TwoLayerMoves(b, arr.At(slot))
		for _, t := range first {
			switch b.tiles[t].Player {
			case side:
				score += w.SupportNear
			case op:
				score += w.AttackNear
			}
		}
		for _, t := range second {
			switch b.tiles[t].Player {
			case side:
				score += w.SupportFar
			case op:
				score += w.AttackFar
			}
		}
	}

	// 3) terminal
	if opCnt == 0 {
		score += w.Win
	}
	if myCnt == 0 {
		score -= w.Loss
	}
	return score
}

// TwoLayerMoves returns the tiles one move away from i and the tiles two
// moves away, ignoring occupancy and whose turn it is. second holds neither
// i nor any tile of first, and is sorted ascending without duplicates.
func TwoLayerMoves(b *BoardState, i TileIndex) (first, second []TileIndex) {
	g := b.grid
	first = g.Destinations(i)
	for _, f := range first {
		for _, t := range g.Destinations(f) {
			if t == i || slices.Contains(first, t) {
				continue
			}
			second = append(second, t)
		}
	}
	slices.Sort(second)
	second = slices.Compact(second)
	return first, second
}
