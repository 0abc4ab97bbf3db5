// Package formatter builds the display text for playing and paused tracks.
package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/genricoloni/barstatus/internal/domain"
)

const (
	separator = " — "
	ellipsis  = "…"

	// mpris:length is reported in microseconds
	lengthFactor = 1_000_000
)

// Formatter composes "artist — title" with optional truncation and progress
type Formatter struct {
	cfg domain.Config
}

// NewFormatter creates a formatter bound to cfg
func NewFormatter(cfg domain.Config) *Formatter {
	return &Formatter{cfg: cfg}
}

// Format builds the full display text. Position and length are read from
// meta and default to zero when absent.
func (f *Formatter) Format(artist, title string, meta domain.TrackMetadata) (string, error) {
	song := f.SongString(artist, title)
	if !f.cfg.ShowProgress() {
		return song, nil
	}

	position, err := timestampField(meta, domain.KeyPosition)
	if err != nil {
		return "", err
	}
	length, err := timestampField(meta, domain.KeyLength)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s (%s / %s)", song,
		SecondsToTime(position, 1),
		SecondsToTime(length, lengthFactor)), nil
}

// SongString joins artist and title and truncates the result to the
// configured maximum, counted in characters. The tail is cut, so the title
// goes before the artist.
func (f *Formatter) SongString(artist, title string) string {
	song := artist + separator + title

	limit, ok := f.cfg.MaxLength()
	if !ok || utf8.RuneCountInString(song) <= limit {
		return song
	}
	runes := []rune(song)
	return string(runes[:limit-1]) + ellipsis
}

// SecondsToTime renders timestamp/factor seconds as M:SS. Fractions are
// truncated toward zero and minutes are not capped at 59.
func SecondsToTime(timestamp, factor float64) string {
	total := int64(timestamp / factor)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseTimestamp reads a raw numeric field as reported by the player
func ParseTimestamp(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrBadTimestamp, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q out of range", domain.ErrBadTimestamp, raw)
	}
	return v, nil
}

func timestampField(meta domain.TrackMetadata, key string) (float64, error) {
	raw, ok := meta.Get(key)
	if !ok {
		return 0, nil
	}
	v, err := ParseTimestamp(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
