package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/rs/zerolog/log"
)

// SampleRate is the rate of the audio.Context created by main.
const SampleRate = 44100

// Sound keys.
const (
	SoundSelect   = "select"
	SoundCancel   = "cancel"
	SoundMove     = "move"
	SoundCapture  = "capture"
	SoundGameOver = "game_over"
)

type note struct {
	freq float64 // Hz, 0 is a rest
	dur  time.Duration
}

// The game ships no sound files: every effect is a short sequence of sine
// notes rendered to WAV when the manager starts.
var sounds = map[string][]note{
	SoundSelect:   {{880, 60 * time.Millisecond}},
	SoundCancel:   {{330, 50 * time.Millisecond}, {247, 70 * time.Millisecond}},
	SoundMove:     {{523, 90 * time.Millisecond}},
	SoundCapture:  {{392, 70 * time.Millisecond}, {0, 20 * time.Millisecond}, {196, 160 * time.Millisecond}},
	SoundGameOver: {{523, 150 * time.Millisecond}, {659, 150 * time.Millisecond}, {784, 150 * time.Millisecond}, {1047, 400 * time.Millisecond}},
}

// SoundDuration is how long the sound key lasts.
func SoundDuration(key string) time.Duration {
	var d time.Duration
	for _, n := range sounds[key] {
		d += n.dur
	}
	return d
}

type AudioManager struct {
	ctx     *audio.Context
	buffers map[string][]byte

	mu      sync.Mutex
	players []*audio.Player // kept until they stop so they are not collected mid-play
}

// NewAudioManager takes the *audio.Context created by main. A nil
// *AudioManager is valid and plays nothing; the game runs with one when sound
// is off.
func NewAudioManager(ctx *audio.Context) (*AudioManager, error) {
	buf := make(map[string][]byte, len(sounds))
	for name, notes := range sounds {
		data, err := renderWAV(notes, ctx.SampleRate())
		if err != nil {
			return nil, fmt.Errorf("render sound %s: %w", name, err)
		}
		buf[name] = data
	}
	return &AudioManager{ctx: ctx, buffers: buf}, nil
}

func (m *AudioManager) newPlayer(key string) (*audio.Player, error) {
	data, ok := m.buffers[key]
	if !ok {
		return nil, fmt.Errorf("unknown sound %q", key)
	}
	s, err := wav.DecodeWithSampleRate(m.ctx.SampleRate(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return m.ctx.NewPlayer(s)
}

// Play starts key and returns immediately.
func (m *AudioManager) Play(key string) {
	if m == nil {
		return
	}
	p, err := m.newPlayer(key)
	if err != nil {
		log.Warn().Err(err).Msg("play sound")
		return
	}
	p.Play()
	m.mu.Lock()
	m.players = append(m.players, p)
	m.mu.Unlock()
}

// Update should be called once per frame; it drops finished players.
func (m *AudioManager) Update() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	alive := m.players[:0]
	for _, p := range m.players {
		if p.IsPlaying() {
			alive = append(alive, p)
		} else {
			_ = p.Close()
		}
	}
	m.players = alive
}

// PlaySequential plays keys one after another on a background goroutine.
func (m *AudioManager) PlaySequential(keys ...string) {
	if m == nil {
		return
	}
	go func() {
		for _, key := range keys {
			p, err := m.newPlayer(key)
			if err != nil {
				log.Warn().Err(err).Msg("play sound")
				continue
			}
			p.Play()
			for p.IsPlaying() {
				time.Sleep(10 * time.Millisecond)
			}
			_ = p.Close()
		}
	}()
}

// Busy reports whether a sound started with Play is still running.
func (m *AudioManager) Busy() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.IsPlaying() {
			return true
		}
	}
	return false
}

// renderWAV writes notes as a mono 16-bit PCM WAV file.
func renderWAV(notes []note, rate int) ([]byte, error) {
	var pcm []int16
	for _, n := range notes {
		count := int(n.dur.Seconds() * float64(rate))
		attack := rate / 200 // 5ms
		for i := 0; i < count; i++ {
			if n.freq == 0 {
				pcm = append(pcm, 0)
				continue
			}
			env := math.Exp(-3 * float64(i) / float64(count))
			if i < attack {
				env *= float64(i) / float64(attack)
			}
			v := 0.3 * env * math.Sin(2*math.Pi*n.freq*float64(i)/float64(rate))
			pcm = append(pcm, int16(v*math.MaxInt16))
		}
	}

	var b bytes.Buffer
	dataLen := uint32(len(pcm) * 2)
	header := []any{
		[4]byte{'R', 'I', 'F', 'F'}, 36 + dataLen, [4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '}, uint32(16),
		uint16(1), uint16(1), // PCM, mono
		uint32(rate), uint32(rate * 2), uint16(2), uint16(16),
		[4]byte{'d', 'a', 't', 'a'}, dataLen,
	}
	for _, v := range header {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	if err := binary.Write(&b, binary.LittleEndian, pcm); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
