package domain

import (
	"context"
	"time"
)

// Player defines the interface for querying the media player control daemon.
// Every call blocks until the player answers or ctx expires.
//
//go:generate mockgen -destination=mocks/player_mock.go -package=mocks github.com/genricoloni/barstatus/internal/domain Player
type Player interface {
	// Status returns the raw playback status (Playing, Paused, Stopped).
	// It returns an error wrapping ErrNoPlayer when no player is running.
	Status(ctx context.Context) (string, error)

	// Metadata returns the current track metadata
	Metadata(ctx context.Context) (TrackMetadata, error)

	// Position returns the current playback position in seconds, as reported
	Position(ctx context.Context) (string, error)
}

// Emitter defines the interface for the status bar output boundary
type Emitter interface {
	// Render resolves glyph and colour for state and builds the line
	Render(state PlaybackState, message string) DisplayLine

	// Emit writes a rendered line to the bar host
	Emit(line DisplayLine) error
}

// Config defines the interface for application configuration
type Config interface {
	// Colour returns the colour for state, falling back to StateDefault's colour
	Colour(state PlaybackState) string

	// Glyph returns the leading glyph for state, falling back to StateDefault's glyph
	Glyph(state PlaybackState) string

	// ShowProgress reports whether position/length is appended to the line
	ShowProgress() bool

	// MaxLength returns the maximum song string length; ok is false when unlimited
	MaxLength() (n int, ok bool)

	// QueryTimeout bounds each individual player query
	QueryTimeout() time.Duration
}
