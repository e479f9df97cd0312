package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/observability"
	"go.uber.org/zap"
)

// RateAuditor is satisfied by *service.RateAuditService.
type RateAuditor interface {
	Run(ctx context.Context) ([]fx.Finding, error)
}

// RateAuditWorker periodically audits the rate configuration.
type RateAuditWorker struct {
	auditor  RateAuditor
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateAuditWorker constructs a worker with a default hourly interval.
func NewRateAuditWorker(auditor RateAuditor) *RateAuditWorker {
	return &RateAuditWorker{
		auditor:  auditor,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *RateAuditWorker) WithInterval(interval time.Duration) *RateAuditWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and audits at the configured interval.
func (w *RateAuditWorker) Start(ctx context.Context) {
	zap.L().Info("rate audit worker starting", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run once immediately at startup.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("rate audit worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("rate audit worker stop signal received")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop. Safe to call more than once.
func (w *RateAuditWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *RateAuditWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *RateAuditWorker) runOnce(ctx context.Context) {
	findings, err := w.auditor.Run(ctx)
	if err != nil {
		observability.IncrementWorkerRun("rate_audit", "failed")
		zap.L().Error("rate audit run failed", zap.Error(err))
		return
	}
	result := "clean"
	if len(findings) > 0 {
		result = "findings"
	}
	observability.IncrementWorkerRun("rate_audit", result)
}
