package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTwoLayerMoves(t *testing.T) {
	b := NewBoardState(DefaultGrid(), Bottom, DefaultMaxPawns)

	first, second := TwoLayerMoves(b, 0)
	require.Equal(t, []TileIndex{1}, first)
	require.Equal(t, []TileIndex{2, 3, 9, 10, 11}, second)

	first, second = TwoLayerMoves(b, 2)
	require.Equal(t, []TileIndex{3, 1}, first)
	require.Equal(t, []TileIndex{0, 4, 5, 9, 10, 11, 12, 13}, second)
	for _, s := range second {
		require.NotContains(t, first, s)
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("material and far attack", func(t *testing.T) {
		b := boardWith(t,
			Placement{TileCoord{0, 0}, Bottom},
			Placement{TileCoord{2, 0}, Top},
		)
		// 190 - 200 + AttackFar
		require.Equal(t, -6, Evaluate(b, Bottom))
		require.Equal(t, -6, Evaluate(b, Top))
	})

	t.Run("near support", func(t *testing.T) {
		b := boardWith(t,
			Placement{TileCoord{0, 0}, Bottom},
			Placement{TileCoord{1, 0}, Bottom},
		)
		w := Weights{Self: 1, SupportNear: 10, SupportFar: 100}
		// both pawns see each other one move away
		require.Equal(t, 2+10+10, w.Evaluate(b, Bottom))
	})

	t.Run("terminal", func(t *testing.T) {
		b := boardWith(t, Placement{TileCoord{4, 4}, Bottom})
		require.Equal(t, 190+DefaultWeights.Win, Evaluate(b, Bottom))
		require.Equal(t, -200-DefaultWeights.Loss, Evaluate(b, Top))
	})

	t.Run("an extra pawn outweighs position", func(t *testing.T) {
		b, err := NewReferenceBoard()
		require.NoError(t, err)
		require.Greater(t, Evaluate(b, Top), Evaluate(b, Bottom), "Top has one pawn more")
	})
}
