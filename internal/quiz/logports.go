package quiz

import (
	"github.com/minyeol/songquiz/internal/logger"
	"github.com/minyeol/songquiz/internal/models"
)

// LogAudioPlayer is an AudioPlayer that only logs playback commands. It stands
// in for the voice transport when the server runs without a chat facade
// attached, and doubles as a reference for facade implementers.
type LogAudioPlayer struct {
	log *logger.Logger
}

// NewLogAudioPlayer creates a log-backed audio player.
func NewLogAudioPlayer() *LogAudioPlayer {
	return &LogAudioPlayer{log: logger.Default().WithPrefix("audio")}
}

func (a *LogAudioPlayer) Play(channelID string, track models.Track, offsetSeconds int) error {
	a.log.Info("play: channel=%s source=%s offset=%ds", channelID, track.AudioSourceID, offsetSeconds)
	return nil
}

func (a *LogAudioPlayer) Stop(channelID string) error {
	a.log.Info("stop: channel=%s", channelID)
	return nil
}

func (a *LogAudioPlayer) Disconnect(channelID string) error {
	a.log.Info("disconnect: channel=%s", channelID)
	return nil
}

// LogNotifier is a Notifier that writes match events to the log.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.Default().WithPrefix("notify")}
}

func (n *LogNotifier) Notify(channelID string, message string) {
	n.log.Info("channel=%s %s", channelID, message)
}
