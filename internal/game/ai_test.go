package game

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{StrategyGreedy, StrategyAlphaBeta} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	got, err := ParseStrategy("alpha-beta")
	require.NoError(t, err)
	require.Equal(t, StrategyAlphaBeta, got)

	_, err = ParseStrategy("mcts")
	require.Error(t, err)
}

func TestSearchNoMoves(t *testing.T) {
	b := boardWith(t, Placement{TileCoord{3, 0}, Top})
	for _, s := range []Strategy{StrategyGreedy, StrategyAlphaBeta} {
		br := NewBrain(WithStrategy(s))
		_, ok := br.BestMove(context.Background(), b)
		require.False(t, ok, s.String())
		require.Empty(t, br.Rank(context.Background(), b))
	}
}

func TestSearchFindsWinningCapture(t *testing.T) {
	b := boardWith(t,
		Placement{TileCoord{3, 2}, Top},
		Placement{TileCoord{3, 3}, Bottom},
		Placement{TileCoord{4, 4}, Bottom},
	)
	want := Move{From: 30, To: 21}

	for _, s := range []Strategy{StrategyGreedy, StrategyAlphaBeta} {
		t.Run(s.String(), func(t *testing.T) {
			br := NewBrain(WithStrategy(s), WithIteration(1), WithDepth(3))
			m, ok := br.BestMove(context.Background(), b)
			require.True(t, ok)
			require.Equal(t, want, m)

			st := br.Stats()
			require.Equal(t, s, st.Strategy)
			require.Equal(t, len(GenerateMoves(b, Bottom)), st.Moves)
			require.Positive(t, st.Nodes)
			require.False(t, st.Budget)
		})
	}
}

func TestSearchBestMoveReferenceBoard(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)

	m, ok := SearchBestMove(b, DefaultIteration)
	require.True(t, ok)
	require.Contains(t, GenerateMoves(b, Bottom), m)

	// b is shared with the search and must come back unchanged
	require.NoError(t, b.Validate())
	require.Equal(t, Bottom, b.CurrentPlayer())
}

func TestGreedyIsDeterministic(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)

	serial := NewBrain(WithIteration(4), WithWorkers(1)).Rank(context.Background(), b)
	parallel := NewBrain(WithIteration(4), WithWorkers(8)).Rank(context.Background(), b)
	require.Equal(t, serial, parallel)

	for i := 1; i < len(serial); i++ {
		require.GreaterOrEqual(t, serial[i-1].Score, serial[i].Score)
	}
}

func TestSearchBudget(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)

	t.Run("node budget", func(t *testing.T) {
		br := NewBrain(WithStrategy(StrategyAlphaBeta), WithDepth(8), WithMaxNodes(200), WithWorkers(1))
		m, ok := br.BestMove(context.Background(), b)
		require.True(t, ok)
		require.Contains(t, GenerateMoves(b, Bottom), m)
		require.True(t, br.Stats().Budget)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		br := NewBrain(WithIteration(50))
		_, ok := br.BestMove(ctx, b)
		require.True(t, ok, "a move is still returned")
		require.True(t, br.Stats().Budget)
	})

	t.Run("timeout", func(t *testing.T) {
		br := NewBrain(WithStrategy(StrategyAlphaBeta), WithDepth(30), WithTimeout(50*time.Millisecond))
		start := time.Now()
		_, ok := br.BestMove(context.Background(), b)
		require.True(t, ok)
		require.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestAlphaBetaTableIsReused(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)

	br := NewBrain(WithStrategy(StrategyAlphaBeta), WithDepth(4), WithWorkers(1))
	_, ok := br.BestMove(context.Background(), b)
	require.True(t, ok)
	first := br.Stats().TTHits

	_, ok = br.BestMove(context.Background(), b)
	require.True(t, ok)
	require.Greater(t, br.Stats().TTHits, first)
}

func TestZobristIncremental(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)
	z := newZobrist(b.Grid().TileCount())

	h := z.hash(b)
	for ply := 0; ply < 30; ply++ {
		moves := GenerateMoves(b, b.CurrentPlayer())
		if len(moves) == 0 {
			break
		}
		m := moves[ply%len(moves)]
		h = z.child(h, b, m)
		b = b.ApplyMove(m.From, m.To)
		require.Equal(t, z.hash(b), h, "ply %d", ply)
	}
}

// greedyLine plays plies greedy plies from b, each one maximising Evaluate
// for the side making it, and scores the result for root.
func greedyLine(b *BoardState, root PlayerSide, plies int) int {
	for ply := 0; ply < plies; ply++ {
		side := b.CurrentPlayer()
		var next *BoardState
		best := 0
		for _, m := range GenerateMoves(b, side) {
			nb := b.ApplyMove(m.From, m.To)
			if sc := Evaluate(nb, side); next == nil || sc > best {
				next, best = nb, sc
			}
		}
		if next == nil {
			break
		}
		b = next
	}
	score := Evaluate(b, b.CurrentPlayer())
	if b.CurrentPlayer() != root {
		score = -score
	}
	return score
}

// greedyRanking ranks the root moves of b the way the greedy Brain should.
func greedyRanking(b *BoardState, iteration int) []ScoredMove {
	var ranked []ScoredMove
	for _, m := range GenerateMoves(b, b.CurrentPlayer()) {
		child := b.ApplyMove(m.From, m.To)
		ranked = append(ranked, ScoredMove{Move: m, Score: greedyLine(child, b.CurrentPlayer(), max(2*iteration-1, 0))})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// minimaxChoice is the root move a two-ply minimax would pick: the opponent
// answers with the reply that is worst for the side to move on b.
func minimaxChoice(b *BoardState) Move {
	root := b.CurrentPlayer()
	var best Move
	bestScore := 0
	for i, m := range GenerateMoves(b, root) {
		child := b.ApplyMove(m.From, m.To)
		worst := Evaluate(child, root)
		for k, r := range GenerateMoves(child, child.CurrentPlayer()) {
			sc := Evaluate(child.ApplyMove(r.From, r.To), root)
			if k == 0 || sc < worst {
				worst = sc
			}
		}
		if i == 0 || worst > bestScore {
			best, bestScore = m, worst
		}
	}
	return best
}

// playedPositions returns the positions met along a few fixed lines of play
// from the reference board.
func playedPositions(t *testing.T) []*BoardState {
	t.Helper()
	var out []*BoardState
	for _, stride := range []int{1, 3, 5, 7} {
		b, err := NewReferenceBoard()
		require.NoError(t, err)
		for ply := 0; ply < 40; ply++ {
			if _, over := b.Winner(); over {
				break
			}
			out = append(out, b)
			moves := GenerateMoves(b, b.CurrentPlayer())
			m := moves[(ply*stride+stride)%len(moves)]
			b = b.ApplyMove(m.From, m.To)
		}
	}
	return out
}

func TestGreedyScoring(t *testing.T) {
	ref, err := NewReferenceBoard()
	require.NoError(t, err)
	played := playedPositions(t)
	positions := []*BoardState{ref, played[len(played)/3], played[len(played)/2], played[len(played)-1]}

	for _, iteration := range []int{0, 1, 2, 3} {
		for n, b := range positions {
			want := greedyRanking(b, iteration)
			got := NewBrain(WithIteration(iteration), WithWorkers(4)).Rank(context.Background(), b)
			require.Equal(t, want, got, "iteration %d, position %d", iteration, n)
		}
	}
}

func TestGreedyIsNotMinimax(t *testing.T) {
	var diverging []*BoardState
	for _, b := range playedPositions(t) {
		if greedyRanking(b, 1)[0].Move != minimaxChoice(b) {
			diverging = append(diverging, b)
		}
	}
	require.NotEmpty(t, diverging, "greedy and minimax always agree on these lines")

	for _, b := range diverging {
		m, ok := NewBrain(WithIteration(1)).BestMove(context.Background(), b)
		require.True(t, ok)
		require.Equal(t, greedyRanking(b, 1)[0].Move, m)
		require.NotEqual(t, minimaxChoice(b), m)
	}
}

func TestZeroIteration(t *testing.T) {
	b, err := NewReferenceBoard()
	require.NoError(t, err)
	moves := GenerateMoves(b, Bottom)

	for _, n := range []int{0, -3} {
		br := NewBrain(WithIteration(n), WithWorkers(1))
		ranked := br.Rank(context.Background(), b)
		require.Len(t, ranked, len(moves))
		require.Equal(t, uint64(len(moves)), br.Stats().Nodes, "one evaluation per root move")

		for _, sm := range ranked {
			child := b.ApplyMove(sm.Move.From, sm.Move.To)
			require.Equal(t, -Evaluate(child, Top), sm.Score)
		}
	}

	_, ok := SearchBestMove(b, 0)
	require.True(t, ok)
}
