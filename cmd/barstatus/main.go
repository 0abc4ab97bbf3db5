package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/barstatus/internal/config"
	"github.com/genricoloni/barstatus/internal/domain"
	"github.com/genricoloni/barstatus/internal/emitter"
	"github.com/genricoloni/barstatus/internal/engine"
	"github.com/genricoloni/barstatus/internal/formatter"
	"github.com/genricoloni/barstatus/internal/player"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppOptions is the full dependency graph, shared with tests
var AppOptions = fx.Options(
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		newDomainConfig,
		newPlayer,
		newOutput,
		formatter.NewFormatter,
		fx.Annotate(emitter.NewBarEmitter, fx.As(new(domain.Emitter))),
		engine.NewEngine,
	),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(
		AppOptions,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// One render happens inside Start; there is no long-running loop
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "barstatus: %v\n", err)
		os.Exit(1)
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "barstatus: %v\n", err)
		os.Exit(1)
	}
}

// newLogger creates a production zap logger on stderr. Stdout belongs to
// the bar host, so the default level is warn. An invalid
// BARSTATUS_LOG_LEVEL keeps the default and is reported once built.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	v := os.Getenv("BARSTATUS_LOG_LEVEL")
	var levelErr error
	if v != "" {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			levelErr = err
		} else {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if levelErr != nil {
		logger.Warn("Ignoring invalid BARSTATUS_LOG_LEVEL", zap.String("value", v), zap.Error(levelErr))
	}
	return logger, nil
}

func newDomainConfig(cfg *config.AppConfig) domain.Config {
	return cfg
}

func newOutput() io.Writer {
	return os.Stdout
}

// newPlayer selects the player backend from configuration
func newPlayer(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig) domain.Player {
	switch cfg.GetBackend() {
	case config.BackendMpris:
		p := player.NewMpris(logger.Named("mpris"), cfg.GetPlayer())
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return p.Close()
			},
		})
		return p
	default:
		return player.NewPlayerctl(logger.Named("playerctl"), cfg.GetPlayerctlBinary(), cfg.GetPlayer())
	}
}

// registerHooks runs the single render on start and flushes logs on stop
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return eng.Run(ctx)
		},
		OnStop: func(ctx context.Context) error {
			// Sync on stderr can report EINVAL on some terminals
			_ = logger.Sync()
			return nil
		},
	})
}
