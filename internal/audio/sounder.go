package audio

import "github.com/chronoflow/chronod/internal/models"

// LocalSounder plays cues on this machine's audio output. Satisfies the
// coordinator's Sounder in the foreground agent.
type LocalSounder struct{}

// PlaySound starts the cue for the given sound type without waiting for it
// to finish. The special flag only affects presentation elsewhere.
func (LocalSounder) PlaySound(sound models.SoundType, special bool) error {
	_, err := Play(sound)
	return err
}
