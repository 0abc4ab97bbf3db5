package engine

import (
	"context"
	"fmt"

	"github.com/genricoloni/barstatus/internal/classifier"
	"github.com/genricoloni/barstatus/internal/domain"
	"github.com/genricoloni/barstatus/internal/formatter"
	"go.uber.org/zap"
)

// Engine orchestrates one bar render: it queries the player, classifies the
// result, formats the text and hands the line to the emitter.
type Engine struct {
	logger    *zap.Logger
	cfg       domain.Config
	player    domain.Player
	formatter *formatter.Formatter
	emitter   domain.Emitter
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	player domain.Player,
	fmtr *formatter.Formatter,
	emit domain.Emitter,
) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		player:    player,
		formatter: fmtr,
		emitter:   emit,
	}
}

// Run renders and emits exactly one line. Player failures degrade to a
// placeholder; only a failure to write the output is returned.
func (e *Engine) Run(ctx context.Context) error {
	return e.emitter.Emit(e.Render(ctx))
}

// Render builds the line for the player's current state without emitting it
func (e *Engine) Render(ctx context.Context) domain.DisplayLine {
	verdict, meta := e.classify(ctx)

	message := verdict.Text
	if verdict.NeedsFormat {
		text, err := e.formatter.Format(verdict.Artist, verdict.Title, meta)
		if err != nil {
			e.logger.Warn("Failed to format track, rendering placeholder", zap.Error(err))
			verdict = classifier.Malformed()
			message = verdict.Text
		} else {
			message = text
		}
	}

	e.logger.Debug("Render complete",
		zap.Stringer("state", verdict.State),
		zap.String("message", message))

	return e.emitter.Render(verdict.State, message)
}

// classify walks the query sequence: status first, then metadata and
// position only when the player is neither missing nor stopped. Position
// is queried only when progress is shown.
func (e *Engine) classify(ctx context.Context) (classifier.Verdict, domain.TrackMetadata) {
	status, err := query(ctx, e.cfg, e.player.Status)
	if err != nil {
		e.logger.Info("Player unavailable", zap.Error(err))
		return classifier.Classify(classifier.Snapshot{StatusErr: err}), domain.TrackMetadata{}
	}

	snap := classifier.Snapshot{Status: status}
	if status == string(domain.StatusStopped) {
		return classifier.Classify(snap), domain.TrackMetadata{}
	}

	meta, err := query(ctx, e.cfg, e.player.Metadata)
	if err != nil {
		e.logger.Warn("Metadata query failed after status succeeded",
			zap.String("status", status),
			zap.Error(err))
		return classifier.Malformed(), domain.TrackMetadata{}
	}

	snap.Metadata = meta.With(domain.KeyStatus, status)

	// Position is only displayed with progress, so skip the extra query
	if e.cfg.ShowProgress() {
		position, err := query(ctx, e.cfg, e.player.Position)
		if err != nil {
			e.logger.Warn("Position query failed after status succeeded",
				zap.String("status", status),
				zap.Error(err))
			return classifier.Malformed(), domain.TrackMetadata{}
		}
		snap.Metadata = snap.Metadata.With(domain.KeyPosition, position)
	}

	verdict := classifier.Classify(snap)
	if !verdict.NeedsFormat {
		e.logger.Warn("Metadata is missing display fields",
			zap.Strings("keys", meta.Keys()),
			zap.Error(domain.ErrMalformedMetadata))
	}
	return verdict, snap.Metadata
}

// query runs one player call under the configured per-call timeout
func query[T any](ctx context.Context, cfg domain.Config, call func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout())
	defer cancel()

	v, err := call(callCtx)
	if err != nil {
		var zero T
		if callCtx.Err() != nil {
			return zero, fmt.Errorf("player query timed out after %s: %w", cfg.QueryTimeout(), err)
		}
		return zero, err
	}
	return v, nil
}
