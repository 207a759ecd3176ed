package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func idx(t *testing.T, g Grid, x, y int) TileIndex {
	t.Helper()
	i, ok := g.IndexOf(TileCoord{x, y})
	require.True(t, ok, "no tile at [%d,%d]", x, y)
	return i
}

// boardWith builds a Bottom-to-move board on the default grid.
func boardWith(t *testing.T, placements ...Placement) *BoardState {
	t.Helper()
	b := NewBoardState(DefaultGrid(), Bottom, DefaultMaxPawns)
	require.NoError(t, b.Place(placements))
	return b
}

func TestReferenceBoard(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	require.Equal(t, Bottom, b.CurrentPlayer())
	require.Equal(t, 4, b.PawnCount(Top))
	require.Equal(t, 3, b.PawnCount(Bottom))
	require.Equal(t, []TileIndex{3, 4, 5, 13}, b.PawnTiles(Top))
	require.Equal(t, []TileIndex{30, 38, 32}, b.PawnTiles(Bottom))

	p, ok := b.PawnAt(38)
	require.True(t, ok)
	require.Equal(t, Pawn{Player: Bottom, TableIndex: 1}, p)

	_, ok = b.PawnAt(20)
	require.False(t, ok)
	_, ok = b.PawnAt(99)
	require.False(t, ok)
}

func TestAddPawnErrors(t *testing.T) {
	b := NewBoardState(DefaultGrid(), Bottom, 1)

	require.ErrorIs(t, b.AddPawn(TileCoord{1, 4}, Top), ErrInvalidCoordinate)
	require.ErrorIs(t, b.AddPawn(TileCoord{0, 0}, NoSide), ErrInvalidSide)

	require.NoError(t, b.AddPawn(TileCoord{0, 0}, Top))
	require.ErrorIs(t, b.AddPawn(TileCoord{0, 0}, Bottom), ErrOccupiedTile)
	require.ErrorIs(t, b.AddPawn(TileCoord{2, 0}, Top), ErrPawnLimit)
	require.NoError(t, b.Validate())
}

func TestLegalMoves(t *testing.T) {
	g := DefaultGrid()
	b := boardWith(t,
		Placement{TileCoord{3, 3}, Bottom},
		Placement{TileCoord{5, 3}, Bottom},
		Placement{TileCoord{3, 2}, Top},
	)
	from := idx(t, g, 3, 3)

	legal := b.LegalMoves(from, Bottom)
	require.Contains(t, legal, idx(t, g, 3, 2), "enemy tile is a legal target")
	require.NotContains(t, legal, idx(t, g, 5, 3), "own tile is not")
	require.Len(t, legal, len(b.PossibleDestinations(from))-1)

	moves := GenerateMoves(b, Bottom)
	require.True(t, HasMoves(b, Bottom))
	for _, m := range moves {
		p, ok := b.PawnAt(m.From)
		require.True(t, ok)
		require.Equal(t, Bottom, p.Player)
	}
}

func TestApplyMove(t *testing.T) {
	g := DefaultGrid()

	t.Run("quiet move", func(t *testing.T) {
		b, err := NewReferenceBoard()
		require.NoError(t, err)

		nb := b.ApplyMove(30, 28)
		require.NoError(t, nb.Validate())
		require.Equal(t, Top, nb.CurrentPlayer())

		_, ok := nb.PawnAt(30)
		require.False(t, ok)
		p, ok := nb.PawnAt(28)
		require.True(t, ok)
		require.Equal(t, Pawn{Player: Bottom, TableIndex: 0}, p)
		require.Equal(t, []TileIndex{28, 38, 32}, nb.PawnTiles(Bottom))

		// the receiver is untouched
		require.Equal(t, Bottom, b.CurrentPlayer())
		require.Equal(t, []TileIndex{30, 38, 32}, b.PawnTiles(Bottom))
	})

	t.Run("capture moves the last slot", func(t *testing.T) {
		b := boardWith(t,
			Placement{TileCoord{3, 0}, Top},
			Placement{TileCoord{3, 2}, Top},
			Placement{TileCoord{5, 0}, Top},
			Placement{TileCoord{3, 3}, Bottom},
			Placement{TileCoord{5, 3}, Bottom},
		)
		src, dst := idx(t, g, 3, 3), idx(t, g, 3, 2)
		require.Equal(t, TileIndex(30), src)
		require.Equal(t, TileIndex(21), dst)
		require.True(t, Move{src, dst}.IsCapture(b))

		nb := b.ApplyMove(src, dst)
		require.NoError(t, nb.Validate())
		require.Equal(t, 2, nb.PawnCount(Top))
		require.Equal(t, []TileIndex{3, 5}, nb.PawnTiles(Top))

		moved, ok := nb.PawnAt(5)
		require.True(t, ok)
		require.Equal(t, 1, moved.TableIndex)

		p, ok := nb.PawnAt(dst)
		require.True(t, ok)
		require.Equal(t, Bottom, p.Player)
	})

	t.Run("capture of the last pawn wins", func(t *testing.T) {
		b := boardWith(t,
			Placement{TileCoord{3, 2}, Top},
			Placement{TileCoord{3, 3}, Bottom},
		)
		_, ok := b.Winner()
		require.False(t, ok)

		nb := b.ApplyMove(30, 21)
		require.NoError(t, nb.Validate())
		w, ok := nb.Winner()
		require.True(t, ok)
		require.Equal(t, Bottom, w)
	})

	t.Run("bad moves panic", func(t *testing.T) {
		b, err := NewReferenceBoard()
		require.NoError(t, err)
		require.Panics(t, func() { b.ApplyMove(20, 21) })
		require.Panics(t, func() { b.ApplyMove(30, 30) })
	})
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for game := 0; game < 20; game++ {
		b, err := NewReferenceBoard()
		require.NoError(t, err)
		total := b.PawnCount(Top) + b.PawnCount(Bottom)

		for ply := 0; ply < 200; ply++ {
			moves := GenerateMoves(b, b.CurrentPlayer())
			if len(moves) == 0 {
				break
			}
			m := moves[frand.Intn(len(moves))]
			before := b.CurrentPlayer()
			captured := m.IsCapture(b)

			b = b.ApplyMove(m.From, m.To)
			require.NoError(t, b.Validate(), "game %d ply %d move %v", game, ply, m)
			require.Equal(t, before.Reverse(), b.CurrentPlayer())

			now := b.PawnCount(Top) + b.PawnCount(Bottom)
			if captured {
				total--
			}
			require.Equal(t, total, now)
			if _, over := b.Winner(); over {
				break
			}
		}
	}
}

func TestClone(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)
	c := b.Clone()
	require.NoError(t, c.AddPawn(TileCoord{0, 0}, Bottom))
	require.Equal(t, 3, b.PawnCount(Bottom))
	require.Equal(t, 4, c.PawnCount(Bottom))
}
