package domain

import (
	"errors"
	"sort"
)

// PlaybackState is the closed set of states a bar line can be rendered in
type PlaybackState int

const (
	// StateDefault is the fallback state for colour and glyph lookups
	StateDefault PlaybackState = iota
	// StateUnknown covers malformed metadata and unrecognised statuses
	StateUnknown
	// StateDown means no player is available or the player is stopped
	StateDown
	// StatePlaying indicates the media is currently playing
	StatePlaying
	// StatePaused indicates the media is paused
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StateDefault:
		return "default"
	case StateUnknown:
		return "unknown"
	case StateDown:
		return "down"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "invalid"
	}
}

// PlayerStatus represents the raw status reported by the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// Well-known metadata keys
const (
	KeyTitle    = "xesam:title"
	KeyArtist   = "xesam:artist"
	KeyAlbum    = "xesam:album"
	KeyLength   = "mpris:length"
	KeyStatus   = "status"
	KeyPosition = "position"
)

var (
	// ErrNoPlayer is returned by a Player when no player can be queried at all
	ErrNoPlayer = errors.New("no active player")
	// ErrMalformedMetadata marks metadata missing the fields needed for display
	ErrMalformedMetadata = errors.New("malformed metadata")
	// ErrBadTimestamp marks a position or length value that is not a number
	ErrBadTimestamp = errors.New("bad timestamp")
)

// TrackMetadata is a read-only mapping of metadata keys to raw string values.
// The zero value is an empty mapping.
type TrackMetadata struct {
	fields map[string]string
}

// NewTrackMetadata copies fields into a new TrackMetadata
func NewTrackMetadata(fields map[string]string) TrackMetadata {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return TrackMetadata{fields: copied}
}

// Get looks up a key. Missing keys report ok=false.
func (m TrackMetadata) Get(key string) (string, bool) {
	v, ok := m.fields[key]
	return v, ok
}

// With returns a copy of m with key set to value. m itself is left untouched.
func (m TrackMetadata) With(key, value string) TrackMetadata {
	out := NewTrackMetadata(m.fields)
	out.fields[key] = value
	return out
}

// Len returns the number of keys
func (m TrackMetadata) Len() int {
	return len(m.fields)
}

// Keys returns all keys in sorted order
func (m TrackMetadata) Keys() []string {
	keys := make([]string, 0, len(m.fields))
	for k := range m.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DisplayLine is one rendered bar output: the text line and its colour line
type DisplayLine struct {
	Text   string
	Colour string
}
