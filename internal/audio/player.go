package audio

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/chronoflow/chronod/internal/models"
)

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

func initAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// Player tracks one in-flight cue with cancellation support.
type Player struct {
	player   *oto.Player
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// Play renders the cue for the given sound type and starts playing it.
// Returns an error when no audio output is available.
func Play(sound models.SoundType) (*Player, error) {
	initAudioContext()

	if !audioCtxReady || globalAudioCtx == nil {
		return nil, errors.New("audio context not ready")
	}

	p := &Player{
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}

	pcm := Render(sound)

	// Play the sound in a goroutine so it doesn't block
	go func() {
		defer close(p.doneChan)

		p.player = globalAudioCtx.NewPlayer(bytes.NewReader(pcm))
		p.player.Play()

		for p.player.IsPlaying() {
			select {
			case <-p.stopChan:
				p.player.Pause()
				if err := p.player.Close(); err != nil {
					log.Printf("Failed to close audio player: %v", err)
				}
				return
			case <-time.After(10 * time.Millisecond):
				// Continue checking
			}
		}

		if err := p.player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()

	return p, nil
}

// Wait blocks until playback finishes or is stopped.
func (p *Player) Wait() {
	if p == nil {
		return
	}
	<-p.doneChan
}

// Stop cancels playback.
func (p *Player) Stop() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
}
