// Package emitter writes rendered lines in the status bar's two-line format.
package emitter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/genricoloni/barstatus/internal/domain"
	"go.uber.org/zap"
)

// BarEmitter renders states into display lines and writes them out.
// Each Emit is flushed immediately; nothing is buffered across calls.
type BarEmitter struct {
	logger *zap.Logger
	cfg    domain.Config
	out    *bufio.Writer
}

// NewBarEmitter creates an emitter writing to w
func NewBarEmitter(logger *zap.Logger, cfg domain.Config, w io.Writer) *BarEmitter {
	return &BarEmitter{
		logger: logger,
		cfg:    cfg,
		out:    bufio.NewWriter(w),
	}
}

// Render prefixes message with the state's glyph and resolves its colour
func (e *BarEmitter) Render(state domain.PlaybackState, message string) domain.DisplayLine {
	return domain.DisplayLine{
		Text:   e.cfg.Glyph(state) + message,
		Colour: e.cfg.Colour(state),
	}
}

// Emit writes the text line followed by the colour line and flushes
func (e *BarEmitter) Emit(line domain.DisplayLine) error {
	if _, err := fmt.Fprintf(e.out, "%s\n%s\n", line.Text, line.Colour); err != nil {
		return fmt.Errorf("failed to write bar line: %w", err)
	}
	if err := e.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush bar line: %w", err)
	}

	e.logger.Debug("Bar line emitted",
		zap.String("text", line.Text),
		zap.String("colour", line.Colour))
	return nil
}
