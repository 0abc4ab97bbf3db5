package player

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/genricoloni/barstatus/internal/domain"
	"github.com/genricoloni/barstatus/internal/metadata"
	"go.uber.org/zap"
)

// Runner executes an external command bound to ctx
type Runner interface {
	// Output returns the command's standard output
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// CombinedOutput returns standard output and standard error interleaved
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// waitDelay bounds how long a killed command's pipes may stay open.
// Without it a grandchild of a wrapper script keeps Output blocked.
const waitDelay = 100 * time.Millisecond

// execRunner runs commands with os/exec
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return command(ctx, name, args...).Output()
}

func (execRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return command(ctx, name, args...).CombinedOutput()
}

func command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	return cmd
}

// Playerctl queries the media player through the playerctl command
type Playerctl struct {
	logger *zap.Logger
	binary string
	player string
	runner Runner
}

// NewPlayerctl creates a playerctl backend. player is passed as -p when set.
func NewPlayerctl(logger *zap.Logger, binary, player string) *Playerctl {
	if _, err := exec.LookPath(binary); err != nil {
		// Not fatal: every status query will fail and render as down
		logger.Warn("playerctl not found in PATH", zap.String("binary", binary), zap.Error(err))
	}
	return &Playerctl{
		logger: logger,
		binary: binary,
		player: player,
		runner: execRunner{},
	}
}

// Status runs `playerctl status`. Any failure means there is no player.
func (p *Playerctl) Status(ctx context.Context) (string, error) {
	out, err := p.runner.Output(ctx, p.binary, p.args("status")...)
	if err != nil {
		return "", fmt.Errorf("%w: %s status: %w", domain.ErrNoPlayer, p.binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Metadata runs `playerctl metadata` and parses the listing
func (p *Playerctl) Metadata(ctx context.Context) (domain.TrackMetadata, error) {
	out, err := p.runner.CombinedOutput(ctx, p.binary, p.args("metadata")...)
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("%s metadata: %w (output: %s)",
			p.binary, err, strings.TrimSpace(string(out)))
	}

	meta := metadata.Parse(string(out))
	p.logger.Debug("Parsed playerctl metadata", zap.Strings("keys", meta.Keys()))
	return meta, nil
}

// Position runs `playerctl position`
func (p *Playerctl) Position(ctx context.Context) (string, error) {
	out, err := p.runner.Output(ctx, p.binary, p.args("position")...)
	if err != nil {
		return "", fmt.Errorf("%s position: %w", p.binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *Playerctl) args(command string) []string {
	if p.player == "" {
		return []string{command}
	}
	return []string{"-p", p.player, command}
}
