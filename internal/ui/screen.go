// File /ui/screen.go
package ui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/basicfont"

	"octochess_go/internal/assets"
	"octochess_go/internal/config"
	"octochess_go/internal/game"
	"octochess_go/internal/layout"
)

const (
	WindowWidth  = 750
	WindowHeight = 750
)

type phase int

const (
	phaseMenu phase = iota
	phaseInGame
	phaseGameOver
)

type aiResult struct {
	board *game.BoardState // the board the search ran on
	move  game.Move
	ok    bool
}

// GameScreen implements ebiten.Game. It owns the session and drives the
// menu, the board and the game-over screen.
type GameScreen struct {
	cfg    config.Config
	grid   game.Grid
	layout layout.Layout
	phase  phase

	state *game.GameState
	brain *game.Brain
	audio *assets.AudioManager
	face  *text.GoXFace

	menu       []*button
	menuGrid   game.Grid
	menuLayout layout.Layout

	hovered     game.TileIndex
	hoverOK     bool
	pressed     bool
	selected    game.TileIndex
	hasSelected bool
	targets     []game.TileIndex

	anims  []*FrameAnim
	slides []*SlideAnim

	aiDelayUntil time.Time
	thinking     bool
	aiCancel     context.CancelFunc
	aiDone       chan aiResult
}

// NewGameScreen builds the screen from cfg. ctx is the audio context created
// by main; a nil ctx disables sound.
func NewGameScreen(cfg config.Config, ctx *audio.Context) (*GameScreen, error) {
	opts, err := cfg.BrainOptions("")
	if err != nil {
		return nil, err
	}
	gs := &GameScreen{
		cfg:    cfg,
		grid:   cfg.Grid(),
		layout: layout.Fit(cfg.Grid(), WindowWidth, WindowHeight),
		brain:  game.NewBrain(opts...),
		face:   text.NewGoXFace(basicfont.Face7x13),
		aiDone: make(chan aiResult, 1),
	}
	// the title tiles always use the reference board geometry
	gs.menuGrid = game.DefaultGrid()
	gs.menuLayout = layout.Default()
	gs.menuLayout.OriginY = 45

	if ctx != nil {
		if gs.audio, err = assets.NewAudioManager(ctx); err != nil {
			return nil, fmt.Errorf("init audio: %w", err)
		}
	}
	gs.menu = []*button{
		newButton("1 Player", 200, 450, 150, 60),
		newButton("2 Players", 380, 450, 150, 60),
	}
	return gs, nil
}

// Update handles one tick: input, the computer turn and animations.
func (gs *GameScreen) Update() error {
	assets.LoadAnimations()
	gs.audio.Update()
	gs.pruneAnims()
	gs.collectAI()

	switch gs.phase {
	case phaseMenu:
		gs.updateMenu()
	case phaseInGame:
		gs.updateInGame()
	case phaseGameOver:
		if clicked() || escPressed() {
			gs.phase = phaseMenu
		}
	}
	return nil
}

func (gs *GameScreen) updateMenu() {
	for i, b := range gs.menu {
		if b.update() {
			mode := game.OnePlayer
			if i == 1 {
				mode = game.TwoPlayer
			}
			if err := gs.startGame(mode); err != nil {
				log.Error().Err(err).Msg("start game")
			}
			return
		}
	}
}

func (gs *GameScreen) startGame(mode game.Mode) error {
	st, err := game.NewGameState(gs.grid, mode, gs.cfg.MaxPawns)
	if err != nil {
		return err
	}
	gs.stopAI()
	gs.state = st
	gs.unselect()
	gs.clearAnims()
	gs.aiDelayUntil = time.Now().Add(gs.cfg.AIDelay)
	gs.phase = phaseInGame
	log.Info().Stringer("mode", mode).Int("grid_side", gs.grid.Side()).Msg("new game")
	return nil
}

func (gs *GameScreen) updateInGame() {
	if escPressed() {
		gs.stopAI()
		gs.phase = phaseMenu
		return
	}
	if undoPressed() {
		gs.stopAI()
		if gs.state.Undo() {
			gs.unselect()
			gs.clearAnims()
			gs.audio.Play(assets.SoundCancel)
			log.Info().Int("plies", gs.state.Plies()).Msg("undo")
		}
		return
	}

	if gs.state.GameOver {
		if len(gs.slides) == 0 && len(gs.anims) == 0 {
			gs.phase = phaseGameOver
			gs.audio.Play(assets.SoundGameOver)
		}
		return
	}

	if gs.state.IsAITurn() {
		gs.updateHover()
		if !gs.thinking && len(gs.slides) == 0 && time.Now().After(gs.aiDelayUntil) {
			gs.startAI()
		}
		return
	}
	gs.handleBoardInput()
}

// startAI searches on a goroutine; the result is picked up by collectAI.
func (gs *GameScreen) startAI() {
	ctx, cancel := context.WithCancel(context.Background())
	gs.aiCancel = cancel
	gs.thinking = true
	board := gs.state.Board
	go func() {
		m, ok := gs.brain.BestMove(ctx, board)
		gs.aiDone <- aiResult{board: board, move: m, ok: ok}
	}()
}

func (gs *GameScreen) collectAI() {
	select {
	case res := <-gs.aiDone:
		gs.thinking = false
		if gs.aiCancel != nil {
			gs.aiCancel()
			gs.aiCancel = nil
		}
		// the board changed (undo, new game) while the search ran
		if gs.phase != phaseInGame || gs.state == nil || res.board != gs.state.Board {
			return
		}
		if !res.ok {
			log.Warn().Msg("computer has no move")
			return
		}
		gs.applyMove(res.move)
	default:
	}
}

// stopAI cancels a running search. The search keeps the Brain until its
// result is collected, so no new one starts before that.
func (gs *GameScreen) stopAI() {
	if gs.aiCancel != nil {
		gs.aiCancel()
	}
}

// applyMove plays m on the session with sound and animation.
func (gs *GameScreen) applyMove(m game.Move) {
	captured, err := gs.state.MakeMove(m)
	if err != nil {
		log.Warn().Err(err).Stringer("move", m).Msg("move rejected")
		return
	}
	gs.unselect()
	gs.addMoveAnims(m, captured)
	if captured {
		gs.audio.PlaySequential(assets.SoundMove, assets.SoundCapture)
	} else {
		gs.audio.Play(assets.SoundMove)
	}
	gs.aiDelayUntil = time.Now().Add(gs.cfg.AIDelay)
}

func (gs *GameScreen) unselect() {
	gs.hasSelected = false
	gs.targets = nil
}

// Draw renders the current phase.
func (gs *GameScreen) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	switch gs.phase {
	case phaseMenu:
		gs.drawMenu(screen)
	case phaseInGame:
		gs.drawInGame(screen)
	case phaseGameOver:
		gs.drawGameOver(screen)
	}
}

// Layout keeps a fixed logical size; ebiten scales it into the window.
func (gs *GameScreen) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}
