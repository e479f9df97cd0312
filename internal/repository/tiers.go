package repository

import (
	"context"
	"fmt"

	"github.com/ayo6706/remittance-core/internal/commission"
)

func (r *Repository) ListTiers(ctx context.Context, kind commission.Kind) ([]commission.Tier, error) {
	query := `
		SELECT min_amount, agent_percent, company_percent
		FROM commission_tiers
		WHERE kind = $1
		ORDER BY min_amount
	`
	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s tiers: %w", kind, err)
	}
	defer rows.Close()

	var tiers []commission.Tier
	for rows.Next() {
		var t commission.Tier
		if err := rows.Scan(&t.MinAmount, &t.AgentPercent, &t.CompanyPercent); err != nil {
			return nil, fmt.Errorf("failed to scan tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s tiers: %w", kind, err)
	}
	return tiers, nil
}

// ReplaceTiers swaps the whole schedule of a kind. Callers run it inside
// RunInTx so readers never see a partial table.
func (r *Repository) ReplaceTiers(ctx context.Context, kind commission.Kind, tiers []commission.Tier) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM commission_tiers WHERE kind = $1`, string(kind)); err != nil {
		return fmt.Errorf("failed to clear %s tiers: %w", kind, err)
	}
	for _, t := range tiers {
		_, err := r.db.Exec(ctx,
			`INSERT INTO commission_tiers (kind, min_amount, agent_percent, company_percent) VALUES ($1, $2, $3, $4)`,
			string(kind), t.MinAmount, t.AgentPercent, t.CompanyPercent)
		if err != nil {
			return fmt.Errorf("failed to insert %s tier %v: %w", kind, t.MinAmount, err)
		}
	}
	return nil
}
