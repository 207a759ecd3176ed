package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, mode Mode) *GameState {
	t.Helper()
	gs, err := NewGameState(DefaultGrid(), mode, DefaultMaxPawns)
	require.NoError(t, err)
	return gs
}

func TestNewGameState(t *testing.T) {
	gs := newGame(t, OnePlayer)
	require.Equal(t, Top, gs.AISide)
	require.False(t, gs.IsAITurn(), "Bottom moves first")
	require.True(t, gs.Selectable(30))
	require.False(t, gs.Selectable(3))
	require.False(t, gs.Selectable(20))

	two := newGame(t, TwoPlayer)
	require.Equal(t, NoSide, two.AISide)

	small, err := NewGrid(1)
	require.NoError(t, err)
	_, err = NewGameState(small, TwoPlayer, DefaultMaxPawns)
	require.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("2p")
	require.NoError(t, err)
	require.Equal(t, TwoPlayer, m)
	m, err = ParseMode(OnePlayer.String())
	require.NoError(t, err)
	require.Equal(t, OnePlayer, m)
	_, err = ParseMode("3p")
	require.Error(t, err)
}

func TestMakeMoveRejects(t *testing.T) {
	gs := newGame(t, TwoPlayer)

	_, err := gs.MakeMove(Move{From: 20, To: 21})
	require.ErrorIs(t, err, ErrNoPawn)

	_, err = gs.MakeMove(Move{From: 3, To: 12})
	require.ErrorIs(t, err, ErrNotYourPawn)

	_, err = gs.MakeMove(Move{From: 30, To: 0})
	require.ErrorIs(t, err, ErrIllegalMove)

	_, err = gs.MakeMove(Move{From: 30, To: 32})
	require.ErrorIs(t, err, ErrIllegalMove, "own pawn on destination")

	require.Zero(t, gs.Plies())
	require.Equal(t, Bottom, gs.Board.CurrentPlayer())
}

func TestMakeMoveAndUndo(t *testing.T) {
	t.Run("two players undo one ply", func(t *testing.T) {
		gs := newGame(t, TwoPlayer)
		start := gs.Board

		captured, err := gs.MakeMove(Move{From: 30, To: 28})
		require.NoError(t, err)
		require.False(t, captured)
		require.Equal(t, Top, gs.Board.CurrentPlayer())
		require.Equal(t, 1, gs.Plies())

		require.True(t, gs.Undo())
		require.Same(t, start, gs.Board)
		require.False(t, gs.Undo(), "nothing left to undo")
	})

	t.Run("one player undoes the computer reply too", func(t *testing.T) {
		gs := newGame(t, OnePlayer)
		start := gs.Board

		_, err := gs.MakeMove(Move{From: 30, To: 28})
		require.NoError(t, err)
		require.True(t, gs.IsAITurn())

		m, ok := SearchBestMove(gs.Board, 1)
		require.True(t, ok)
		_, err = gs.MakeMove(m)
		require.NoError(t, err)
		require.False(t, gs.IsAITurn())
		require.Equal(t, 2, gs.Plies())

		require.True(t, gs.Undo())
		require.Same(t, start, gs.Board)
		require.Zero(t, gs.Plies())
	})

	t.Run("one player undo of a lone human move", func(t *testing.T) {
		gs := newGame(t, OnePlayer)
		_, err := gs.MakeMove(Move{From: 30, To: 28})
		require.NoError(t, err)
		require.True(t, gs.Undo())
		require.Equal(t, Bottom, gs.Board.CurrentPlayer())
	})
}

func TestGameOver(t *testing.T) {
	t.Run("last pawn captured", func(t *testing.T) {
		gs := newGame(t, TwoPlayer)
		gs.Board = boardWith(t,
			Placement{TileCoord{3, 2}, Top},
			Placement{TileCoord{3, 3}, Bottom},
		)

		captured, err := gs.MakeMove(Move{From: 30, To: 21})
		require.NoError(t, err)
		require.True(t, captured)
		require.True(t, gs.GameOver)
		require.Equal(t, Bottom, gs.Winner)

		_, err = gs.MakeMove(Move{From: 21, To: 30})
		require.ErrorIs(t, err, ErrGameOver)

		require.True(t, gs.Undo())
		require.False(t, gs.GameOver)
		require.Equal(t, NoSide, gs.Winner)
	})

	t.Run("reset", func(t *testing.T) {
		gs := newGame(t, OnePlayer)
		_, err := gs.MakeMove(Move{From: 30, To: 28})
		require.NoError(t, err)
		gs.Reset()
		require.Zero(t, gs.Plies())
		require.False(t, gs.GameOver)
		require.Equal(t, Top, gs.AISide)
		require.Equal(t, []TileIndex{30, 38, 32}, gs.Board.PawnTiles(Bottom))
	})
}
