// Package classifier decides which playback state a run renders in.
package classifier

import (
	"github.com/genricoloni/barstatus/internal/domain"
)

// Placeholder texts for runs that never reach the formatter
const (
	TextDown      = "down"
	TextStopped   = "stopped"
	TextMalformed = "..."
)

// Snapshot is everything the player reported during one run.
// Metadata is only meaningful when StatusErr is nil and Status is not Stopped.
type Snapshot struct {
	StatusErr error
	Status    string
	Metadata  domain.TrackMetadata
}

// Verdict is the outcome of classification. When NeedsFormat is true the
// caller builds the text from Artist/Title; otherwise Text is final.
type Verdict struct {
	State       domain.PlaybackState
	Text        string
	Artist      string
	Title       string
	NeedsFormat bool
}

// Classify applies the rules in priority order: player unavailable, stopped,
// missing title, missing artist and album, then the status string.
// A stopped player never reaches formatting even if stale metadata exists.
func Classify(s Snapshot) Verdict {
	if s.StatusErr != nil {
		return Verdict{State: domain.StateDown, Text: TextDown}
	}

	if s.Status == string(domain.StatusStopped) {
		return Verdict{State: domain.StateDown, Text: TextStopped}
	}

	title, ok := s.Metadata.Get(domain.KeyTitle)
	if !ok {
		return Malformed()
	}

	artist, ok := s.Metadata.Get(domain.KeyArtist)
	if !ok {
		// Probably a podcast: the show name lives in the album field
		artist, ok = s.Metadata.Get(domain.KeyAlbum)
		if !ok {
			return Malformed()
		}
	}

	return Verdict{
		State:       stateFor(s.Status),
		Artist:      artist,
		Title:       title,
		NeedsFormat: true,
	}
}

// Malformed is the verdict for metadata that cannot be displayed
func Malformed() Verdict {
	return Verdict{State: domain.StateUnknown, Text: TextMalformed}
}

func stateFor(status string) domain.PlaybackState {
	switch domain.PlayerStatus(status) {
	case domain.StatusPlaying:
		return domain.StatePlaying
	case domain.StatusPaused:
		return domain.StatePaused
	default:
		return domain.StateUnknown
	}
}
