package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"

	"octochess_go/internal/assets"
	"octochess_go/internal/config"
	"octochess_go/internal/ui"
)

func main() {
	fs := flag.NewFlagSet("octochess", flag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	cfg.SetupLogging()

	var ctx *audio.Context
	if !cfg.Mute {
		ctx = audio.NewContext(assets.SampleRate)
	}

	screen, err := ui.NewGameScreen(cfg, ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("init game screen")
	}
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(ui.WindowWidth, ui.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Octogonal Chess")

	if err := ebiten.RunGame(screen); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}
