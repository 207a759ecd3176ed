// Command soundcheck plays every synthesised sound effect once, to check the
// audio setup without starting the game.
package main

import (
	"flag"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog/log"

	"octochess_go/internal/assets"
)

func main() {
	only := flag.String("sound", "", "play only this sound")
	flag.Parse()

	keys := []string{assets.SoundSelect, assets.SoundCancel, assets.SoundMove, assets.SoundCapture, assets.SoundGameOver}
	if *only != "" {
		keys = []string{*only}
	}

	ctx := audio.NewContext(assets.SampleRate)
	m, err := assets.NewAudioManager(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("init audio")
	}
	for _, key := range keys {
		log.Info().Str("sound", key).Dur("length", assets.SoundDuration(key)).Msg("playing")
		m.Play(key)
		// give the player a moment to start before polling it
		time.Sleep(20 * time.Millisecond)
		for m.Busy() {
			time.Sleep(10 * time.Millisecond)
		}
		m.Update()
		time.Sleep(200 * time.Millisecond)
	}
}
