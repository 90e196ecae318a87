// Package bridge is the one-way channel from the background watcher to
// foreground agents. The watcher has no audio output path, so it asks
// whichever agents are connected to play the tones. No acknowledgements, no
// ordering promises: if nobody is listening the message is dropped and the
// system notification remains the primary channel.
package bridge

import "github.com/chronoflow/chronod/internal/models"

// TypePlaySound asks the receiver to play a tone sequence.
const TypePlaySound = "play-sound"

// Message is the wire payload broadcast to agents.
type Message struct {
	Type      string           `json:"type"`
	SoundType models.SoundType `json:"soundType"`
	Special   bool             `json:"isSpecialCategory"`
}

// PlaySound builds a play-sound message.
func PlaySound(sound models.SoundType, special bool) Message {
	return Message{Type: TypePlaySound, SoundType: sound, Special: special}
}
