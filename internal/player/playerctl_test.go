package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/barstatus/internal/domain"
	"go.uber.org/zap"
)

type call struct {
	combined bool
	args     []string
}

// fakeRunner answers by the last argument (the playerctl command)
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []call
}

func (f *fakeRunner) answer(combined bool, args []string) ([]byte, error) {
	f.calls = append(f.calls, call{combined: combined, args: args})
	cmd := args[len(args)-1]
	return []byte(f.outputs[cmd]), f.errs[cmd]
}

func (f *fakeRunner) Output(_ context.Context, _ string, args ...string) ([]byte, error) {
	return f.answer(false, args)
}

func (f *fakeRunner) CombinedOutput(_ context.Context, _ string, args ...string) ([]byte, error) {
	return f.answer(true, args)
}

func newFakePlayerctl(player string, runner *fakeRunner) *Playerctl {
	return &Playerctl{logger: zap.NewNop(), binary: "playerctl", player: player, runner: runner}
}

func TestPlayerctl_Queries(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{
			"status":   "Playing\n",
			"metadata": "spotify xesam:title   Song\nspotify xesam:artist  Band\nspotify mpris:length  125000000\n",
			"position": "67.123456\n",
		},
	}
	p := newFakePlayerctl("", runner)
	ctx := context.Background()

	status, err := p.Status(ctx)
	if err != nil || status != "Playing" {
		t.Fatalf("Status: got %q, %v", status, err)
	}

	meta, err := p.Metadata(ctx)
	if err != nil {
		t.Fatalf("Metadata: unexpected error %v", err)
	}
	if title, _ := meta.Get(domain.KeyTitle); title != "Song" {
		t.Errorf("expected title 'Song', got '%s'", title)
	}
	if length, _ := meta.Get(domain.KeyLength); length != "125000000" {
		t.Errorf("expected length '125000000', got '%s'", length)
	}

	position, err := p.Position(ctx)
	if err != nil || position != "67.123456" {
		t.Fatalf("Position: got %q, %v", position, err)
	}

	expected := []call{
		{combined: false, args: []string{"status"}},
		{combined: true, args: []string{"metadata"}},
		{combined: false, args: []string{"position"}},
	}
	if !reflect.DeepEqual(runner.calls, expected) {
		t.Errorf("unexpected calls: %+v", runner.calls)
	}
}

func TestPlayerctl_PlayerSelection(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"status": "Paused"}}
	p := newFakePlayerctl("vlc", runner)

	if _, err := p.Status(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := runner.calls[0].args; !reflect.DeepEqual(got, []string{"-p", "vlc", "status"}) {
		t.Errorf("unexpected args: %v", got)
	}
}

func TestPlayerctl_Errors(t *testing.T) {
	failure := errors.New("exit status 1")
	runner := &fakeRunner{
		outputs: map[string]string{"metadata": "No player could handle this command"},
		errs: map[string]error{
			"status":   failure,
			"metadata": failure,
			"position": failure,
		},
	}
	p := newFakePlayerctl("", runner)
	ctx := context.Background()

	if _, err := p.Status(ctx); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("Status: expected ErrNoPlayer, got %v", err)
	}

	_, err := p.Metadata(ctx)
	if err == nil {
		t.Fatal("Metadata: expected error")
	}
	if errors.Is(err, domain.ErrNoPlayer) {
		t.Error("Metadata failure must not be reported as no player")
	}
	if !strings.Contains(err.Error(), "No player could handle") {
		t.Errorf("Metadata error should carry command output: %v", err)
	}

	if _, err := p.Position(ctx); !errors.Is(err, failure) {
		t.Errorf("Position: expected wrapped failure, got %v", err)
	}
}

// writeScript installs a fake playerctl executable in a temp dir
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "playerctl")
	script := fmt.Sprintf("#!/bin/sh\n[ \"$1\" = \"-p\" ] && shift 2\n%s\n", body)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestPlayerctl_ExecRunner(t *testing.T) {
	bin := writeScript(t, `case "$1" in
status) echo Paused ;;
metadata) printf 'mpv xesam:title   Live Set\nmpv xesam:album   Radio\n' ;;
position) echo 3.5 ;;
*) exit 1 ;;
esac`)

	p := NewPlayerctl(zap.NewNop(), bin, "mpv")
	ctx := context.Background()

	if status, err := p.Status(ctx); err != nil || status != "Paused" {
		t.Fatalf("Status: got %q, %v", status, err)
	}
	meta, err := p.Metadata(ctx)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if album, _ := meta.Get(domain.KeyAlbum); album != "Radio" {
		t.Errorf("expected album 'Radio', got '%s'", album)
	}
	if position, err := p.Position(ctx); err != nil || position != "3.5" {
		t.Fatalf("Position: got %q, %v", position, err)
	}
}

func TestPlayerctl_ExecTimeout(t *testing.T) {
	bin := writeScript(t, "exec sleep 5")
	p := NewPlayerctl(zap.NewNop(), bin, "")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := p.Status(ctx); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer on timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("command was not killed on timeout, took %v", elapsed)
	}
}

// TestPlayerctl_ExecTimeoutWithGrandchild covers a wrapper script whose
// child keeps the stdout pipe open after the script itself is killed
func TestPlayerctl_ExecTimeoutWithGrandchild(t *testing.T) {
	bin := writeScript(t, "sleep 4\necho 1.0")
	p := NewPlayerctl(zap.NewNop(), bin, "")

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := p.Position(ctx); err == nil {
		t.Error("expected error on timeout, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call outlived its deadline, took %v", elapsed)
	}
}

func TestPlayerctl_MissingBinary(t *testing.T) {
	p := NewPlayerctl(zap.NewNop(), filepath.Join(t.TempDir(), "no-such-playerctl"), "")

	if _, err := p.Status(context.Background()); !errors.Is(err, domain.ErrNoPlayer) {
		t.Errorf("expected ErrNoPlayer, got %v", err)
	}
}
