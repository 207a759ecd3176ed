// Package config gathers the runtime settings shared by the game and the
// self-play runner. Values come from the defaults, then an optional YAML file,
// then command line flags; a flag set explicitly always wins over the file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"octochess_go/internal/game"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Path string `yaml:"-"`

	GridSide int    `yaml:"grid_side"`
	MaxPawns int    `yaml:"max_pawns"`
	Mode     string `yaml:"mode"`

	Strategy      string        `yaml:"strategy"`
	Iteration     int           `yaml:"iteration"`
	Depth         int           `yaml:"depth"`
	MaxNodes      uint64        `yaml:"max_nodes"`
	Workers       int           `yaml:"workers"` // 0 means one per CPU
	AIDelay       time.Duration `yaml:"ai_delay"`
	SearchTimeout time.Duration `yaml:"search_timeout"`
	Weights       game.Weights  `yaml:"weights"`

	LogLevel string `yaml:"log_level"`
	Mute     bool   `yaml:"mute"`
}

func Default() Config {
	return Config{
		GridSide:      game.DefaultGridSide,
		MaxPawns:      game.DefaultMaxPawns,
		Mode:          game.OnePlayer.String(),
		Strategy:      game.StrategyGreedy.String(),
		Iteration:     game.DefaultIteration,
		Depth:         game.DefaultDepth,
		AIDelay:       time.Second,
		SearchTimeout: 10 * time.Second,
		Weights:       game.DefaultWeights,
		LogLevel:      "info",
	}
}

// Register binds the shared flags to c on fs. Evaluation weights are only
// read from the YAML file.
func (c *Config) Register(fs *flag.FlagSet) {
	fs.StringVar(&c.Path, "config", c.Path, "YAML config file")
	fs.IntVar(&c.GridSide, "grid-side", c.GridSide, "grid side S (board has (2S+1)S+S+1 tiles)")
	fs.IntVar(&c.MaxPawns, "max-pawns", c.MaxPawns, "pawn capacity per side")
	fs.StringVar(&c.Mode, "mode", c.Mode, "1p (against the computer) or 2p")
	fs.StringVar(&c.Strategy, "strategy", c.Strategy, "computer strategy: greedy or alphabeta")
	fs.IntVar(&c.Iteration, "iteration", c.Iteration, "greedy look-ahead; each root move is followed by 2n-1 plies")
	fs.IntVar(&c.Depth, "depth", c.Depth, "alpha-beta depth in plies")
	fs.Uint64Var(&c.MaxNodes, "max-nodes", c.MaxNodes, "evaluation budget per search, 0 for none")
	fs.IntVar(&c.Workers, "workers", c.Workers, "root moves searched in parallel, 0 for one per CPU")
	fs.DurationVar(&c.AIDelay, "ai-delay", c.AIDelay, "pause before the computer moves")
	fs.DurationVar(&c.SearchTimeout, "search-timeout", c.SearchTimeout, "deadline of one search, 0 for none")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn, error or disabled")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "start without sound")
}

// Load registers the shared flags on fs, parses args and merges the file
// named by -config underneath the flags that were set explicitly. fs may
// carry flags of its own; those are left to the caller.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	cfg.Register(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Path != "" {
		file := Default()
		if err := file.LoadFile(cfg.Path); err != nil {
			return Config{}, err
		}
		over := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
		file.Register(over)
		var err error
		fs.Visit(func(f *flag.Flag) {
			if over.Lookup(f.Name) == nil || err != nil {
				return
			}
			err = over.Set(f.Name, f.Value.String())
		})
		if err != nil {
			return Config{}, fmt.Errorf("apply flags over %s: %w", cfg.Path, err)
		}
		file.Path = cfg.Path
		cfg = file
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on c. Keys missing from the file
// keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	c.Path = path
	return nil
}

func (c Config) Validate() error {
	if _, err := game.NewGrid(c.GridSide); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxPawns < 1 {
		return fmt.Errorf("%w: max pawns %d", ErrInvalidConfig, c.MaxPawns)
	}
	if _, err := game.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := game.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Iteration < 1 || c.Depth < 1 {
		return fmt.Errorf("%w: iteration %d and depth %d must be positive", ErrInvalidConfig, c.Iteration, c.Depth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if c.AIDelay < 0 || c.SearchTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Grid returns the configured grid. c must have passed Validate.
func (c Config) Grid() game.Grid {
	g, err := game.NewGrid(c.GridSide)
	if err != nil {
		panic(err)
	}
	return g
}

func (c Config) GameMode() game.Mode {
	m, _ := game.ParseMode(c.Mode)
	return m
}

// BrainOptions converts the search settings; strategy overrides the
// configured one when not empty.
func (c Config) BrainOptions(strategy string) ([]game.Option, error) {
	if strategy == "" {
		strategy = c.Strategy
	}
	s, err := game.ParseStrategy(strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return []game.Option{
		game.WithStrategy(s),
		game.WithIteration(c.Iteration),
		game.WithDepth(c.Depth),
		game.WithMaxNodes(c.MaxNodes),
		game.WithWorkers(c.Workers),
		game.WithTimeout(c.SearchTimeout),
		game.WithWeights(c.Weights),
	}, nil
}

// SetupLogging sets the global zerolog level and writes human readable
// output to stderr.
func (c Config) SetupLogging() {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
