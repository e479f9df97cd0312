package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/domain"
	"github.com/ayo6706/remittance-core/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommissionQuote is a breakdown tagged with the schedule it came from.
type CommissionQuote struct {
	Kind commission.Kind `json:"kind"`
	commission.Breakdown
}

type CommissionService struct {
	store QueryStore
	audit *AuditService
}

func NewCommissionService(store QueryStore, audit *AuditService) *CommissionService {
	return &CommissionService{store: store, audit: audit}
}

func (s *CommissionService) Tiers(ctx context.Context, kind commission.Kind) ([]commission.Tier, error) {
	tiers, err := s.store.ListTiers(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s tiers: %w", kind, err)
	}
	return tiers, nil
}

// Quote prices the commission owed on amount under the kind's schedule.
func (s *CommissionService) Quote(ctx context.Context, kind commission.Kind, amount float64) (*CommissionQuote, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, validationError("amount must be a non-negative number")
	}
	tiers, err := s.Tiers(ctx, kind)
	if err != nil {
		return nil, err
	}
	b := commission.Quote(tiers, amount)
	observability.IncrementCommissionQuote(string(kind), b.TierFound)
	if !b.TierFound {
		zap.L().Debug("no commission tier applies", zap.String("kind", string(kind)), zap.Float64("amount", amount))
	}
	return &CommissionQuote{Kind: kind, Breakdown: b}, nil
}

// ReplaceTiers stores a new schedule for kind and audits the previous one.
func (s *CommissionService) ReplaceTiers(ctx context.Context, actor *uuid.UUID, kind commission.Kind, tiers []commission.Tier) ([]commission.Tier, error) {
	if err := commission.Validate(tiers); err != nil {
		if errors.Is(err, commission.ErrInvalidTier) || errors.Is(err, commission.ErrDuplicateThreshold) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, err
	}
	if kind == commission.KindSend {
		for _, t := range tiers {
			if t.AgentPercent != 0 {
				return nil, validationError("send tiers carry no agent share")
			}
		}
	}

	sorted := commission.Sorted(tiers)
	err := s.store.RunInTx(ctx, func(q TxQueries) error {
		prev, err := q.ListTiers(ctx, kind)
		if err != nil {
			return err
		}
		if err := q.ReplaceTiers(ctx, kind, sorted); err != nil {
			return err
		}
		return s.audit.Write(ctx, q, domain.EntityCommissionTier, string(kind), actor, domain.AuditActionReplace, prev, sorted)
	})
	if err != nil {
		return nil, fmt.Errorf("replace %s tiers: %w", kind, err)
	}
	zap.L().Info("commission tiers replaced", zap.String("kind", string(kind)), zap.Int("tiers", len(sorted)))
	return sorted, nil
}
