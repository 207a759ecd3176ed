// internal/game/ai.go
package game

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how the Brain looks ahead.
type Strategy int

const (
	// StrategyGreedy plays out a continuation where every ply is chosen
	// greedily for the side making it. It is not minimax: the opponent is
	// never assumed to answer optimally against the root side.
	StrategyGreedy Strategy = iota
	// StrategyAlphaBeta is a negamax search with alpha-beta pruning and a
	// transposition table.
	StrategyAlphaBeta
)

func (s Strategy) String() string {
	switch s {
	case StrategyGreedy:
		return "greedy"
	case StrategyAlphaBeta:
		return "alphabeta"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy is the inverse of Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "greedy":
		return StrategyGreedy, nil
	case "alphabeta", "alpha-beta":
		return StrategyAlphaBeta, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

const (
	DefaultIteration = 10
	DefaultDepth     = 4
)

const inf = 1 << 30

// Searcher picks a move for the side to move on b. ok is false when that side
// has no legal move.
type Searcher interface {
	BestMove(ctx context.Context, b *BoardState) (m Move, ok bool)
}

// ScoredMove is a root move with the score the search attributed to it.
type ScoredMove struct {
	Move  Move
	Score int
}

// SearchStats describes the last search of a Brain.
type SearchStats struct {
	Strategy Strategy
	Moves    int
	Nodes    uint64
	TTProbes uint64
	TTHits   uint64
	Best     ScoredMove
	Elapsed  time.Duration
	Budget   bool // stopped by the node budget or the context
}

type Option func(*Brain)

func WithStrategy(s Strategy) Option {
	return func(br *Brain) { br.strategy = s }
}

// WithIteration sets the greedy look-ahead: each root move is followed by
// 2·n−1 plies. With n = 0 the root moves are scored as they stand; negative
// values count as 0.
func WithIteration(n int) Option {
	return func(br *Brain) { br.iteration = max(n, 0) }
}

// WithDepth sets the alpha-beta depth in plies, root move included.
func WithDepth(plies int) Option {
	return func(br *Brain) {
		if plies > 0 {
			br.depth = plies
		}
	}
}

// WithMaxNodes caps the number of evaluations per search. Zero means no cap.
func WithMaxNodes(n uint64) Option {
	return func(br *Brain) { br.maxNodes = n }
}

func WithTimeout(d time.Duration) Option {
	return func(br *Brain) {
		if d > 0 {
			br.timeout = d
		}
	}
}

// WithWorkers bounds how many root moves are searched concurrently.
func WithWorkers(n int) Option {
	return func(br *Brain) {
		if n > 0 {
			br.workers = n
		}
	}
}

func WithWeights(w Weights) Option {
	return func(br *Brain) { br.weights = w }
}

// Brain chooses moves for the computer side. A Brain may be reused; searches
// on the same Brain must not overlap.
type Brain struct {
	strategy  Strategy
	iteration int
	depth     int
	maxNodes  uint64
	timeout   time.Duration
	workers   int
	weights   Weights

	mu    sync.Mutex
	zob   *zobrist
	tt    *transTable
	stats SearchStats
}

var _ Searcher = (*Brain)(nil)

func NewBrain(opts ...Option) *Brain {
	br := &Brain{ // defaults
		strategy:  StrategyGreedy,
		iteration: DefaultIteration,
		depth:     DefaultDepth,
		workers:   runtime.NumCPU(),
		weights:   DefaultWeights,
	}
	for _, opt := range opts {
		opt(br)
	}
	return br
}

// SearchBestMove runs the greedy look-ahead with the given iteration on a
// single goroutine and returns the top ranked move.
func SearchBestMove(b *BoardState, iteration int) (Move, bool) {
	br := NewBrain(WithIteration(iteration), WithWorkers(1))
	return br.BestMove(context.Background(), b)
}

// Stats returns the statistics of the last finished search.
func (br *Brain) Stats() SearchStats {
	br.mu.Lock()
	defer br.mu.Unlock()
	return br.stats
}

// BestMove implements Searcher.
func (br *Brain) BestMove(ctx context.Context, b *BoardState) (Move, bool) {
	ranked := br.Rank(ctx, b)
	if len(ranked) == 0 {
		return Move{}, false
	}
	return ranked[0].Move, true
}

// Rank scores every legal root move of the side to move and returns them best
// first. Moves with equal scores keep generation order.
func (br *Brain) Rank(ctx context.Context, b *BoardState) []ScoredMove {
	start := time.Now()
	if br.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, br.timeout)
		defer cancel()
	}

	moves := GenerateMoves(b, b.current)
	if len(moves) == 0 {
		log.Debug().Stringer("side", b.current).Msg("no legal move")
		return nil
	}

	s := &search{
		ctx:      ctx,
		weights:  br.weights,
		root:     b.current,
		maxNodes: br.maxNodes,
	}
	if br.strategy == StrategyAlphaBeta {
		s.zob, s.tt = br.tables(b.grid.TileCount())
	}

	// ---------- parallel root ----------
	scores := make([]int, len(moves))
	var g errgroup.Group
	g.SetLimit(br.workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			child := b.ApplyMove(m.From, m.To)
			switch br.strategy {
			case StrategyAlphaBeta:
				h := s.zob.hash(child)
				scores[i] = -s.negamax(child, h, br.depth-1, -inf, inf)
			default:
				scores[i] = s.continuation(child, br.continuationPlies())
			}
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]ScoredMove, len(moves))
	for i, m := range moves {
		ranked[i] = ScoredMove{Move: m, Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	st := SearchStats{
		Strategy: br.strategy,
		Moves:    len(moves),
		Nodes:    s.nodes.Load(),
		Best:     ranked[0],
		Elapsed:  time.Since(start),
		Budget:   s.exhausted(),
	}
	if s.tt != nil {
		st.TTProbes, st.TTHits, _ = s.tt.stats()
	}
	br.mu.Lock()
	br.stats = st
	br.mu.Unlock()

	log.Debug().
		Stringer("strategy", st.Strategy).
		Stringer("side", b.current).
		Int("moves", st.Moves).
		Uint64("nodes", st.Nodes).
		Uint64("tt_hits", st.TTHits).
		Bool("budget", st.Budget).
		Stringer("best", st.Best.Move).
		Int("score", st.Best.Score).
		Dur("elapsed", st.Elapsed).
		Msg("search finished")
	return ranked
}

// continuationPlies is the length of the greedy line played after each root
// move.
func (br *Brain) continuationPlies() int {
	return max(2*br.iteration-1, 0)
}

// tables returns the Zobrist keys and transposition table for a board of
// tileCount tiles, rebuilding them when the board size changes.
func (br *Brain) tables(tileCount int) (*zobrist, *transTable) {
	br.mu.Lock()
	defer br.mu.Unlock()
	if br.zob == nil || len(br.zob.cell) != tileCount {
		br.zob = newZobrist(tileCount)
		br.tt = newTransTable()
	}
	return br.zob, br.tt
}

// ------------------------------------------------------------
// one search
// ------------------------------------------------------------

type search struct {
	ctx      context.Context
	weights  Weights
	root     PlayerSide
	maxNodes uint64
	nodes    atomic.Uint64

	zob *zobrist
	tt  *transTable
}

func (s *search) exhausted() bool {
	if s.maxNodes > 0 && s.nodes.Load() >= s.maxNodes {
		return true
	}
	return s.ctx.Err() != nil
}

func (s *search) eval(b *BoardState, side PlayerSide) int {
	s.nodes.Add(1)
	return s.weights.Evaluate(b, side)
}

// continuation plays up to plies greedy plies from b and scores the final
// board for the side to move there, negated when that is not the root side.
func (s *search) continuation(b *BoardState, plies int) int {
	for ply := 0; ply < plies && !s.exhausted(); ply++ {
		side := b.current
		moves := GenerateMoves(b, side)
		if len(moves) == 0 {
			break
		}
		var next *BoardState
		bestScore := 0
		for _, m := range moves {
			nb := b.ApplyMove(m.From, m.To)
			if sc := s.eval(nb, side); next == nil || sc > bestScore {
				next, bestScore = nb, sc
			}
		}
		b = next
	}
	side := b.current
	score := s.eval(b, side)
	if side != s.root {
		score = -score
	}
	return score
}

// leaf is antisymmetric so negamax can flip it between plies.
func (s *search) leaf(b *BoardState) int {
	me := b.current
	return s.eval(b, me) - s.weights.Evaluate(b, me.Reverse())
}

func (s *search) negamax(b *BoardState, hash uint64, depth, alpha, beta int) int {
	// 1) leaf, budget or no move
	if depth <= 0 || s.exhausted() {
		return s.leaf(b)
	}
	moves := GenerateMoves(b, b.current)
	if len(moves) == 0 {
		return s.leaf(b)
	}

	// 2) transposition table
	if hit, val, flag := s.tt.probe(hash, depth); hit {
		switch flag {
		case ttExact:
			return val
		case ttLower:
			alpha = max(alpha, val)
		case ttUpper:
			beta = min(beta, val)
		}
		if alpha >= beta {
			return val
		}
	}
	alphaOrig := alpha

	// 3) try the stored best move first
	pv := 0
	if idx, ok := s.tt.bestIdx(hash); ok && idx < len(moves) {
		pv = idx
		moves[0], moves[pv] = moves[pv], moves[0]
	}

	best, bestI := -inf, 0
	for i, m := range moves {
		child := b.ApplyMove(m.From, m.To)
		score := -s.negamax(child, s.zob.child(hash, b, m), depth-1, -beta, -alpha)
		if score > best {
			best, bestI = score, i
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	// an interrupted subtree is not worth remembering
	if s.exhausted() {
		return best
	}

	// map bestI back to generation order before storing it
	switch bestI {
	case 0:
		bestI = pv
	case pv:
		bestI = 0
	}
	if bestI > math.MaxUint8 {
		bestI = 0
	}

	var flag ttFlag
	switch {
	case best <= alphaOrig:
		flag = ttUpper
	case best >= beta:
		flag = ttLower
	default:
		flag = ttExact
	}
	s.tt.store(hash, depth, best, flag, bestI)
	return best
}
