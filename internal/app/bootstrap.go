package app

import (
	"log/slog"

	"limitup_go/internal/infra"
	"limitup_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Logger  *slog.Logger
	Metrics *infra.Metrics
	Quotes  *service.QuoteService
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config from configPath, sets up logging and builds the
// quote service. A missing config file falls back to built-in defaults.
func (b *Bootstrap) Initialize(configPath string) error {
	// 1. Load Config
	cfg, err := infra.LoadConfigOrDefault(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	// 2. Setup Logger
	b.Logger = infra.NewLogger(cfg)
	slog.SetDefault(b.Logger)

	// 3. Services
	b.Metrics = infra.GlobalMetrics
	b.Quotes = service.NewQuoteService(cfg, b.Logger, b.Metrics)

	b.Logger.Debug("Bootstrap complete",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("default_segment", cfg.Calculator.DefaultSegment),
	)
	return nil
}

// LogMetrics writes the current metrics snapshot at debug level.
// It is a no-op before Initialize has succeeded.
func (b *Bootstrap) LogMetrics() {
	if b.Logger == nil || b.Metrics == nil {
		return
	}
	snap := b.Metrics.Snapshot()
	b.Logger.Debug("Metrics snapshot",
		slog.Uint64("calculations", snap.Calculations),
		slog.Uint64("errors_total", snap.ErrorsTotal()),
		slog.Uint64("invalid_price", snap.InvalidPrice),
		slog.Uint64("invalid_segment", snap.InvalidSegment),
		slog.Uint64("invalid_count", snap.InvalidCount),
		slog.Uint64("other_errors", snap.OtherErrors),
		slog.Int64("avg_latency_ns", snap.AvgLatencyNs),
	)
}
