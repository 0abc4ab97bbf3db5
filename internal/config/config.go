package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/barstatus/internal/domain"
	"go.uber.org/zap"
)

// Backend selects how the media player is queried
type Backend string

const (
	// BackendPlayerctl shells out to the playerctl command
	BackendPlayerctl Backend = "playerctl"
	// BackendMpris talks to the MPRIS interface on the session bus directly
	BackendMpris Backend = "mpris"
)

const (
	defaultShowProgress = true
	defaultMaxLength    = 64
	defaultTimeout      = 2 * time.Second
	defaultBackend      = BackendPlayerctl
	defaultPlayerctl    = "playerctl"
)

// Colour of the widget text for each playback state
var defaultColours = map[domain.PlaybackState]string{
	domain.StateDefault: "#ffffff",
	domain.StateUnknown: "#ffffff",
	domain.StatePlaying: "#1db954",
	domain.StatePaused:  "#e3a600",
	domain.StateDown:    "#ff0000",
}

// Leading glyph for each playback state. Unknown and Down use Default's.
var defaultGlyphs = map[domain.PlaybackState]string{
	domain.StateDefault: "…  ",
	domain.StatePlaying: "♫  ",
	domain.StatePaused:  "⏸  ",
}

// Options are the raw values an AppConfig is built from
type Options struct {
	Colours      map[domain.PlaybackState]string
	Glyphs       map[domain.PlaybackState]string
	ShowProgress bool
	// MaxLength of the artist + title string. Zero means unlimited.
	MaxLength       int
	Timeout         time.Duration
	Backend         Backend
	Player          string
	PlayerctlBinary string
}

// DefaultOptions returns the compiled-in configuration
func DefaultOptions() Options {
	return Options{
		Colours:         copyTable(defaultColours),
		Glyphs:          copyTable(defaultGlyphs),
		ShowProgress:    defaultShowProgress,
		MaxLength:       defaultMaxLength,
		Timeout:         defaultTimeout,
		Backend:         defaultBackend,
		PlayerctlBinary: defaultPlayerctl,
	}
}

// AppConfig holds application configuration. It is immutable once built.
type AppConfig struct {
	colours         map[domain.PlaybackState]string
	glyphs          map[domain.PlaybackState]string
	showProgress    bool
	maxLength       int
	timeout         time.Duration
	backend         Backend
	player          string
	playerctlBinary string
}

// NewAppConfig creates a new application configuration instance from the
// compiled-in defaults and any BARSTATUS_* environment overrides
func NewAppConfig(logger *zap.Logger) *AppConfig {
	opts := DefaultOptions()

	if v := os.Getenv("BARSTATUS_SHOW_PROGRESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("Ignoring invalid BARSTATUS_SHOW_PROGRESS", zap.String("value", v), zap.Error(err))
		} else {
			opts.ShowProgress = b
		}
	}

	if v := os.Getenv("BARSTATUS_MAX_LENGTH"); v != "" {
		if strings.EqualFold(v, "none") {
			opts.MaxLength = 0
		} else if n, err := strconv.Atoi(v); err != nil || n < 0 {
			logger.Warn("Ignoring invalid BARSTATUS_MAX_LENGTH", zap.String("value", v))
		} else {
			opts.MaxLength = n
		}
	}

	if v := os.Getenv("BARSTATUS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("Ignoring invalid BARSTATUS_TIMEOUT", zap.String("value", v))
		} else {
			opts.Timeout = d
		}
	}

	if v := os.Getenv("BARSTATUS_BACKEND"); v != "" {
		switch b := Backend(strings.ToLower(v)); b {
		case BackendPlayerctl, BackendMpris:
			opts.Backend = b
		default:
			logger.Warn("Ignoring unknown BARSTATUS_BACKEND", zap.String("value", v))
		}
	}

	opts.Player = os.Getenv("BARSTATUS_PLAYER")

	if v := os.Getenv("BARSTATUS_PLAYERCTL"); v != "" {
		opts.PlayerctlBinary = os.ExpandEnv(v)
	}

	cfg := NewAppConfigFromOptions(opts)

	maxLength, limited := cfg.MaxLength()
	logger.Debug("Configuration loaded",
		zap.String("backend", string(cfg.backend)),
		zap.String("player", cfg.player),
		zap.Bool("showProgress", cfg.showProgress),
		zap.Int("maxLength", maxLength),
		zap.Bool("limited", limited),
		zap.Duration("timeout", cfg.timeout))

	return cfg
}

// NewAppConfigFromOptions builds a configuration from explicit values.
// Missing Default entries and a non-positive timeout are filled from the
// compiled-in defaults so every state always resolves.
func NewAppConfigFromOptions(opts Options) *AppConfig {
	colours := copyTable(opts.Colours)
	if _, ok := colours[domain.StateDefault]; !ok {
		colours[domain.StateDefault] = defaultColours[domain.StateDefault]
	}
	glyphs := copyTable(opts.Glyphs)
	if _, ok := glyphs[domain.StateDefault]; !ok {
		glyphs[domain.StateDefault] = defaultGlyphs[domain.StateDefault]
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	backend := opts.Backend
	if backend == "" {
		backend = defaultBackend
	}
	binary := opts.PlayerctlBinary
	if binary == "" {
		binary = defaultPlayerctl
	}
	maxLength := opts.MaxLength
	if maxLength < 0 {
		maxLength = 0
	}

	return &AppConfig{
		colours:         colours,
		glyphs:          glyphs,
		showProgress:    opts.ShowProgress,
		maxLength:       maxLength,
		timeout:         timeout,
		backend:         backend,
		player:          opts.Player,
		playerctlBinary: binary,
	}
}

// Colour returns the colour for state, or Default's colour if state has none
func (c *AppConfig) Colour(state domain.PlaybackState) string {
	return lookup(c.colours, state)
}

// Glyph returns the leading glyph for state, or Default's glyph if state has none
func (c *AppConfig) Glyph(state domain.PlaybackState) string {
	return lookup(c.glyphs, state)
}

// ShowProgress reports whether song progress is displayed
func (c *AppConfig) ShowProgress() bool {
	return c.showProgress
}

// MaxLength returns the maximum artist + title length; ok is false when unlimited
func (c *AppConfig) MaxLength() (int, bool) {
	return c.maxLength, c.maxLength > 0
}

// QueryTimeout returns the bound applied to each player query
func (c *AppConfig) QueryTimeout() time.Duration {
	return c.timeout
}

// GetBackend returns the configured player backend
func (c *AppConfig) GetBackend() Backend {
	return c.backend
}

// GetPlayer returns the player name filter, empty for any player
func (c *AppConfig) GetPlayer() string {
	return c.player
}

// GetPlayerctlBinary returns the playerctl executable name or path
func (c *AppConfig) GetPlayerctlBinary() string {
	return c.playerctlBinary
}

func lookup(table map[domain.PlaybackState]string, state domain.PlaybackState) string {
	if v, ok := table[state]; ok {
		return v
	}
	return table[domain.StateDefault]
}

func copyTable(src map[domain.PlaybackState]string) map[domain.PlaybackState]string {
	dst := make(map[domain.PlaybackState]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
