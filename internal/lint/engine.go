package lint

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgallion1/contentlint/internal/doctree"
	"github.com/dgallion1/contentlint/internal/rules"
)

// Engine evaluates documents against a swappable configuration and keeps
// latency statistics.
type Engine struct {
	cfg    atomic.Pointer[rules.Config]
	logger *slog.Logger
	stats  *EvalStats
}

func NewEngine(cfg *rules.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger: logger,
		stats:  NewEvalStats(time.Hour),
	}
	e.cfg.Store(cfg)
	return e
}

// Config returns the configuration in use.
func (e *Engine) Config() *rules.Config {
	return e.cfg.Load()
}

// SetConfig replaces the configuration for subsequent evaluations.
func (e *Engine) SetConfig(cfg *rules.Config) {
	e.cfg.Store(cfg)
}

// Evaluate runs scope over doc.
func (e *Engine) Evaluate(doc *doctree.Document, scope Scope) Report {
	report, _ := e.EvaluateContext(context.Background(), doc, scope)
	return report
}

// EvaluateContext is Evaluate with cancellation between rules.
func (e *Engine) EvaluateContext(ctx context.Context, doc *doctree.Document, scope Scope) (Report, error) {
	cfg := e.cfg.Load()
	start := time.Now()
	report, err := evaluate(ctx, doc, cfg, scope, rules.For(scope.set(cfg)), func(rerr *RuleError) {
		e.logger.Warn("rule failed",
			"rule", string(rerr.Rule),
			"document_id", doc.ID,
			"error", rerr.Error(),
		)
	})
	if err != nil {
		return report, err
	}
	e.stats.Record(time.Since(start), len(report.Failed) > 0)
	e.logger.Debug("document evaluated",
		"document_id", doc.ID,
		"scope", string(scope),
		"total", report.Total,
		"duration_us", time.Since(start).Microseconds(),
	)
	return report, nil
}

// Total returns the aggregate score that feeds the cached total.
func (e *Engine) Total(doc *doctree.Document) int {
	return e.Evaluate(doc, ScopeTotal).Total
}

// Stats returns the latency snapshot.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}
