package player

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/genricoloni/barstatus/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix = "org.mpris.MediaPlayer2."
	mprisPath   = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

// Mpris queries a media player directly over the MPRIS D-Bus interface.
// It produces the same metadata keys and position format as Playerctl.
type Mpris struct {
	logger  *zap.Logger
	dial    func() (DBusClient, error)
	filter  string
	conn    DBusClient
	busName string
}

// NewMpris creates an MPRIS backend. player narrows the choice to
// org.mpris.MediaPlayer2.<player>; empty picks the first player on the bus.
// The session bus is not contacted until the first query.
func NewMpris(logger *zap.Logger, player string) *Mpris {
	return &Mpris{
		logger: logger,
		dial: func() (DBusClient, error) {
			return NewStdDBusClient()
		},
		filter: player,
	}
}

// Status returns the PlaybackStatus property of the selected player
func (p *Mpris) Status(ctx context.Context) (string, error) {
	if err := p.connect(ctx); err != nil {
		return "", err
	}

	variant, err := p.conn.GetProperty(ctx, p.busName, mprisPath, playerIface+".PlaybackStatus")
	if err != nil {
		return "", fmt.Errorf("%w: failed to get playback status: %w", domain.ErrNoPlayer, err)
	}

	status, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("%w: invalid playback status format %T", domain.ErrNoPlayer, variant.Value())
	}
	return status, nil
}

// Metadata returns the Metadata property flattened to strings
func (p *Mpris) Metadata(ctx context.Context) (domain.TrackMetadata, error) {
	if err := p.connect(ctx); err != nil {
		return domain.TrackMetadata{}, err
	}

	variant, err := p.conn.GetProperty(ctx, p.busName, mprisPath, playerIface+".Metadata")
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("failed to get metadata: %w", err)
	}

	// Some players return nil or unexpected types if not playing anything
	raw, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		p.logger.Debug("Metadata variant is not a map, treating as empty",
			zap.String("player", p.busName),
			zap.String("type", fmt.Sprintf("%T", variant.Value())))
		return domain.TrackMetadata{}, nil
	}

	fields := make(map[string]string, len(raw))
	for key, v := range raw {
		fields[key] = variantString(v)
	}
	return domain.NewTrackMetadata(fields), nil
}

// Position returns the playback position in fractional seconds
func (p *Mpris) Position(ctx context.Context) (string, error) {
	if err := p.connect(ctx); err != nil {
		return "", err
	}

	variant, err := p.conn.GetProperty(ctx, p.busName, mprisPath, playerIface+".Position")
	if err != nil {
		return "", fmt.Errorf("failed to get position: %w", err)
	}

	micros, ok := integerValue(variant.Value())
	if !ok {
		return "", fmt.Errorf("invalid position format %T", variant.Value())
	}
	return strconv.FormatFloat(float64(micros)/1e6, 'f', 6, 64), nil
}

// Close releases the bus connection, if one was opened
func (p *Mpris) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	p.busName = ""
	return err
}

// connect opens the bus and resolves the player once per run
func (p *Mpris) connect(ctx context.Context) error {
	if p.busName != "" {
		return nil
	}

	if p.conn == nil {
		conn, err := p.dial()
		if err != nil {
			return fmt.Errorf("%w: session bus connection failed: %w", domain.ErrNoPlayer, err)
		}
		p.conn = conn
	}

	names, err := p.conn.ListNames(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to list bus names: %w", domain.ErrNoPlayer, err)
	}

	name := selectPlayer(names, p.filter)
	if name == "" {
		return domain.ErrNoPlayer
	}

	p.logger.Debug("Selected MPRIS player", zap.String("name", name))
	p.busName = name
	return nil
}

// selectPlayer picks the first MPRIS bus name in sorted order matching filter.
// A filter matches the player name exactly or any of its instances
// (e.g. "vlc" matches org.mpris.MediaPlayer2.vlc.instance42).
func selectPlayer(names []string, filter string) string {
	var players []string
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		if filter != "" {
			short := strings.TrimPrefix(name, mprisPrefix)
			if short != filter && !strings.HasPrefix(short, filter+".") {
				continue
			}
		}
		players = append(players, name)
	}
	if len(players) == 0 {
		return ""
	}
	sort.Strings(players)
	return players[0]
}

// variantString renders a metadata value the way playerctl prints it
func variantString(v dbus.Variant) string {
	switch val := v.Value().(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case dbus.ObjectPath:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	if n, ok := integerValue(v.Value()); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v.Value())
}

func integerValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case byte:
		return int64(n), true
	}
	return 0, false
}
