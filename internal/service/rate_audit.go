package service

import (
	"context"
	"fmt"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/observability"
	"go.uber.org/zap"
)

// RateAuditService checks the stored rate configuration for values that
// cannot be resolved or that the conversion path would treat as suspect.
type RateAuditService struct {
	snapshots *RateSnapshotter
	resolver  fx.Resolver
}

func NewRateAuditService(snapshots *RateSnapshotter, resolver fx.Resolver) *RateAuditService {
	return &RateAuditService{snapshots: snapshots, resolver: resolver}
}

// Run audits a fresh snapshot, logs every finding and exports counts by kind.
func (s *RateAuditService) Run(ctx context.Context) ([]fx.Finding, error) {
	snap, err := s.snapshots.Fresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates for audit: %w", err)
	}

	findings := s.resolver.Audit(snap.Currencies)
	counts := map[string]int{
		string(fx.FindingUnresolvable):    0,
		string(fx.FindingSuspect):         0,
		string(fx.FindingUnknownPriceType): 0,
	}
	for _, f := range findings {
		counts[string(f.Kind)]++
		zap.L().Warn("rate configuration finding",
			zap.String("code", f.Code),
			zap.String("side", string(f.Side)),
			zap.String("kind", string(f.Kind)),
			zap.Float64("rate", f.Rate),
		)
	}
	observability.SetRateFindings(counts)

	if len(findings) == 0 {
		zap.L().Info("rate configuration clean", zap.Int("currencies", len(snap.Currencies)))
	}
	return findings, nil
}
