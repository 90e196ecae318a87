package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/chronoflow/chronod/internal/models"
)

// Playback format shared by Render and the oto context.
const (
	SampleRate = 44100

	toneDuration = 500 * time.Millisecond
	toneStagger  = 100 * time.Millisecond
	startGain    = 0.3
	endGain      = 0.01
)

// Tone sequences per sound type, in Hz. Each cue is a couple of short sine
// tones, not music playback.
var sequences = map[models.SoundType][]float64{
	models.SoundBeep:  {800, 1000},
	models.SoundChime: {523.25, 659.25, 783.99},
	models.SoundBell:  {783.99, 1046.50},
}

// Sequence returns the tone frequencies for the given sound type. Unknown
// values fall back to chime.
func Sequence(sound models.SoundType) []float64 {
	if freqs, ok := sequences[sound]; ok {
		return freqs
	}
	return sequences[models.SoundChime]
}

// Render synthesizes the cue for the given sound type as 16-bit
// little-endian mono PCM. Tone starts are staggered 100ms apart and each
// tone's gain ramps exponentially from 0.3 down to 0.01 over its 500ms.
func Render(sound models.SoundType) []byte {
	freqs := Sequence(sound)

	toneSamples := samples(toneDuration)
	staggerSamples := samples(toneStagger)
	total := (len(freqs)-1)*staggerSamples + toneSamples

	mix := make([]float64, total)
	decay := math.Log(endGain / startGain)

	for i, freq := range freqs {
		offset := i * staggerSamples
		for n := 0; n < toneSamples; n++ {
			t := float64(n) / SampleRate
			gain := startGain * math.Exp(decay*float64(n)/float64(toneSamples))
			mix[offset+n] += gain * math.Sin(2*math.Pi*freq*t)
		}
	}

	pcm := make([]byte, len(mix)*2)
	for i, sample := range mix {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		binary.LittleEndian.PutUint16(pcm[2*i:], uint16(int16(sample*math.MaxInt16)))
	}
	return pcm
}

func samples(d time.Duration) int {
	return int(d.Seconds() * SampleRate)
}
