// internal/game/tt.go
package game

import (
	"sync"
	"sync/atomic"

	"lukechampine.com/frand"
)

// ------------------------------------------------------------
//  Zobrist keys
// ------------------------------------------------------------

const bignum = 1<<63 - 2

// zobrist holds one random key per (tile, side) plus one per side to move.
type zobrist struct {
	cell [][2]uint64 // tile -> [Bottom, Top]
	side [2]uint64
}

func newZobrist(tileCount int) *zobrist {
	z := &zobrist{cell: make([][2]uint64, tileCount)}
	for i := range z.cell {
		z.cell[i] = [2]uint64{frand.Uint64n(bignum) + 1, frand.Uint64n(bignum) + 1}
	}
	z.side = [2]uint64{frand.Uint64n(bignum) + 1, frand.Uint64n(bignum) + 1}
	return z
}

func sideIdx(p PlayerSide) int {
	if p == Top {
		return 1
	}
	return 0
}

func (z *zobrist) key(i TileIndex, p PlayerSide) uint64 {
	return z.cell[i][sideIdx(p)]
}

// hash computes the full-board hash.
func (z *zobrist) hash(b *BoardState) uint64 {
	h := z.side[sideIdx(b.current)]
	for i, p := range b.tiles {
		if p.Present() {
			h ^= z.key(TileIndex(i), p.Player)
		}
	}
	return h
}

// child updates h for m played on b, without building the child board.
func (z *zobrist) child(h uint64, b *BoardState, m Move) uint64 {
	mover := b.tiles[m.From].Player
	h ^= z.key(m.From, mover)
	if victim := b.tiles[m.To]; victim.Present() {
		h ^= z.key(m.To, victim.Player)
	}
	h ^= z.key(m.To, mover)
	h ^= z.side[sideIdx(b.current)] ^ z.side[sideIdx(b.current.Reverse())]
	return h
}

// ------------------------------------------------------------
//  Transposition table
// ------------------------------------------------------------

const (
	ttSize   = 1 << 18
	ttMask   = ttSize - 1
	ttShards = 256
)

type ttFlag uint8

const (
	ttExact ttFlag = iota
	ttLower
	ttUpper
)

type ttEntry struct {
	key     uint64
	score   int32
	depth   int16
	flag    ttFlag
	bestIdx uint8
	used    bool
}

// transTable is shared by the root workers; each slot is guarded by one of
// ttShards mutexes.
type transTable struct {
	entries []ttEntry
	mu      [ttShards]sync.Mutex

	probes atomic.Uint64
	hits   atomic.Uint64
}

func newTransTable() *transTable {
	return &transTable{entries: make([]ttEntry, ttSize)}
}

func (t *transTable) lockFor(hash uint64) *sync.Mutex { return &t.mu[hash&(ttShards-1)] }

func (t *transTable) probe(hash uint64, depth int) (hit bool, score int, flag ttFlag) {
	t.probes.Add(1)
	l := t.lockFor(hash)
	l.Lock()
	e := t.entries[hash&ttMask]
	l.Unlock()
	if e.used && e.key == hash && int(e.depth) >= depth {
		t.hits.Add(1)
		return true, int(e.score), e.flag
	}
	return false, 0, 0
}

// store keeps the deeper of the old and the new entry.
func (t *transTable) store(hash uint64, depth, score int, flag ttFlag, bestIdx int) {
	l := t.lockFor(hash)
	l.Lock()
	defer l.Unlock()
	e := &t.entries[hash&ttMask]
	if e.used && int(e.depth) > depth {
		return
	}
	*e = ttEntry{
		key:     hash,
		score:   int32(score),
		depth:   int16(depth),
		flag:    flag,
		bestIdx: uint8(bestIdx),
		used:    true,
	}
}

func (t *transTable) bestIdx(hash uint64) (int, bool) {
	l := t.lockFor(hash)
	l.Lock()
	e := t.entries[hash&ttMask]
	l.Unlock()
	if e.used && e.key == hash {
		return int(e.bestIdx), true
	}
	return 0, false
}

// stats returns probes, hits and the hit rate in percent.
func (t *transTable) stats() (probes, hits uint64, hitRate float64) {
	probes = t.probes.Load()
	hits = t.hits.Load()
	if probes > 0 {
		hitRate = float64(hits) / float64(probes) * 100
	}
	return
}
