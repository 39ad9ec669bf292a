package quiz

import "github.com/minyeol/songquiz/internal/models"

// Catalog supplies tracks for a match. Implemented by internal/catalog.
type Catalog interface {
	// Sample returns n distinct tracks drawn without replacement.
	Sample(n int) ([]models.Track, error)
}

// AudioPlayer is the voice-transport handle the engine drives. Implementations
// are expected to tolerate Stop/Disconnect on channels that are not playing.
type AudioPlayer interface {
	Play(channelID string, track models.Track, offsetSeconds int) error
	Stop(channelID string) error
	Disconnect(channelID string) error
}

// Notifier carries human-readable match events to the chat facade.
type Notifier interface {
	Notify(channelID string, message string)
}

// Rewarder converts a finished match's score map into persistent rewards.
// Implemented by internal/ledger.
type Rewarder interface {
	ApplyMatchResult(scores map[models.AccountID]int) error
}
