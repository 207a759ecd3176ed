// Command selfplay runs computer-vs-computer games and appends one CSV row
// per finished game. An interrupted run can be restarted with the same -out
// file: the last incomplete row is dropped and numbering resumes.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"octochess_go/internal/config"
	"octochess_go/internal/game"
)

var header = []string{"game", "winner", "plies", "top_pawns", "bottom_pawns", "top_strategy", "bottom_strategy"}

type options struct {
	games    int
	jobs     int
	top      string
	bottom   string
	maxPlies int
	opening  int
	out      string
}

func main() {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	var o options
	fs.IntVar(&o.games, "n", 100, "total number of games")
	fs.IntVar(&o.jobs, "jobs", max(runtime.NumCPU()/4, 1), "games played in parallel")
	fs.StringVar(&o.top, "top", "alphabeta", "strategy of Top")
	fs.StringVar(&o.bottom, "bottom", "greedy", "strategy of Bottom")
	fs.IntVar(&o.maxPlies, "max-plies", 200, "plies before a game is called a draw")
	fs.IntVar(&o.opening, "opening", 2, "random plies per side before the engines take over")
	fs.StringVar(&o.out, "out", "selfplay.csv", "CSV file")
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.SetupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, o); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("selfplay")
	}
}

var errInvalidOptions = errors.New("invalid selfplay options")

func (o options) validate() error {
	switch {
	case o.games < 0:
		return fmt.Errorf("%w: -n %d", errInvalidOptions, o.games)
	case o.jobs < 1:
		return fmt.Errorf("%w: -jobs %d, need at least one worker", errInvalidOptions, o.jobs)
	case o.maxPlies < 1:
		return fmt.Errorf("%w: -max-plies %d", errInvalidOptions, o.maxPlies)
	case o.opening < 0:
		return fmt.Errorf("%w: -opening %d", errInvalidOptions, o.opening)
	case o.out == "":
		return fmt.Errorf("%w: -out is empty", errInvalidOptions)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config, o options) error {
	if err := o.validate(); err != nil {
		return err
	}
	done, err := repairCSV(o.out, len(header))
	if err != nil {
		return err
	}
	f, err := os.OpenFile(o.out, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	var wMu sync.Mutex
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return err
		}
		w.Flush()
	}
	log.Info().Int("done", done).Int("target", o.games).Int("jobs", o.jobs).Msg("selfplay started")

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for id := done; id < o.games; id++ {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for worker := 0; worker < o.jobs; worker++ {
		g.Go(func() error {
			top, bottom, err := newBrains(cfg, o)
			if err != nil {
				return err
			}
			for id := range jobs {
				res, err := playOneGame(ctx, cfg, o, top, bottom)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				wMu.Lock()
				err = w.Write(res.row(id, o))
				w.Flush()
				if err == nil {
					err = w.Error()
				}
				wMu.Unlock()
				if err != nil {
					return err
				}
				log.Info().Int("game", id).Stringer("winner", res.winner).Int("plies", res.plies).
					Dur("elapsed", res.elapsed).Msg("game finished")
			}
			return nil
		})
	}
	return g.Wait()
}

func newBrains(cfg config.Config, o options) (top, bottom *game.Brain, err error) {
	topOpts, err := cfg.BrainOptions(o.top)
	if err != nil {
		return nil, nil, err
	}
	bottomOpts, err := cfg.BrainOptions(o.bottom)
	if err != nil {
		return nil, nil, err
	}
	return game.NewBrain(topOpts...), game.NewBrain(bottomOpts...), nil
}

type result struct {
	winner      game.PlayerSide // NoSide for a draw
	plies       int
	topPawns    int
	bottomPawns int
	elapsed     time.Duration
}

func (r result) row(id int, o options) []string {
	winner := "draw"
	if r.winner != game.NoSide {
		winner = r.winner.String()
	}
	return []string{
		strconv.Itoa(id), winner, strconv.Itoa(r.plies),
		strconv.Itoa(r.topPawns), strconv.Itoa(r.bottomPawns),
		o.top, o.bottom,
	}
}

// playOneGame plays a full game from the reference setup. The first
// o.opening plies of each side are random so that games differ.
func playOneGame(ctx context.Context, cfg config.Config, o options, top, bottom game.Searcher) (result, error) {
	start := time.Now()
	st, err := game.NewGameState(cfg.Grid(), game.TwoPlayer, cfg.MaxPawns)
	if err != nil {
		return result{}, err
	}

	for !st.GameOver && st.Plies() < o.maxPlies {
		if err := ctx.Err(); err != nil {
			return result{}, err
		}
		side := st.Board.CurrentPlayer()
		var (
			m  game.Move
			ok bool
		)
		if st.Plies() < 2*o.opening {
			moves := game.GenerateMoves(st.Board, side)
			if ok = len(moves) > 0; ok {
				m = moves[frand.Intn(len(moves))]
			}
		} else if side == game.Top {
			m, ok = top.BestMove(ctx, st.Board)
		} else {
			m, ok = bottom.BestMove(ctx, st.Board)
		}
		if !ok {
			break
		}
		if _, err := st.MakeMove(m); err != nil {
			return result{}, err
		}
	}

	return result{
		winner:      st.Winner,
		plies:       st.Plies(),
		topPawns:    st.Board.PawnCount(game.Top),
		bottomPawns: st.Board.PawnCount(game.Bottom),
		elapsed:     time.Since(start),
	}, nil
}

// repairCSV checks the rows already in path, truncates a trailing partial
// row and returns how many games are recorded.
func repairCSV(path string, expectCols int) (int, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return 0, fmt.Errorf("repair open: %w", err)
	}
	defer f.Close()

	var offset int64
	rdr := bufio.NewReader(f)
	lines := 0
	for {
		line, err := rdr.ReadBytes('\n')
		if err == io.EOF {
			// a last line without newline was cut mid-write
			break
		} else if err != nil {
			return 0, fmt.Errorf("read csv: %w", err)
		}
		if countCSVColumns(line) != expectCols {
			break
		}
		offset += int64(len(line))
		lines++
	}

	if info, err := f.Stat(); err == nil && info.Size() != offset {
		if err := f.Truncate(offset); err != nil {
			return 0, fmt.Errorf("truncate: %w", err)
		}
		log.Warn().Int64("offset", offset).Int("rows", lines).Msg("dropped a partial row")
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil // header
}

func countCSVColumns(b []byte) int {
	n := 1
	for _, c := range b {
		if c == ',' {
			n++
		}
	}
	return n
}
