// Package commission selects commission tiers from threshold tables and
// computes the resulting commission amounts.
package commission

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateThreshold = errors.New("duplicate tier threshold")
	ErrInvalidTier        = errors.New("invalid tier")
)

// Kind names a commission schedule.
type Kind string

const (
	KindSend       Kind = "send"
	KindWithdrawal Kind = "withdrawal"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSend:
		return KindSend, true
	case KindWithdrawal:
		return KindWithdrawal, true
	default:
		return "", false
	}
}

// Role is the party a commission share is paid to.
type Role string

const (
	RoleAgent   Role = "agent"
	RoleCompany Role = "company"
)

// Tier is one row of a commission schedule. It applies to amounts at or
// above MinAmount until the next tier's threshold.
type Tier struct {
	MinAmount      float64 `json:"min_amount"`
	AgentPercent   float64 `json:"agent_percent"`
	CompanyPercent float64 `json:"company_percent"`
}

func (t Tier) Percent(role Role) float64 {
	switch role {
	case RoleAgent:
		return t.AgentPercent
	case RoleCompany:
		return t.CompanyPercent
	default:
		return 0
	}
}

// ResolveTier picks the tier with the highest MinAmount not exceeding amount.
// The table does not need to be sorted. It reports false when every
// threshold is above the amount.
func ResolveTier(tiers []Tier, amount float64) (Tier, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Tier{}, false
	}
	var best Tier
	found := false
	for _, t := range tiers {
		if t.MinAmount > amount {
			continue
		}
		if !found || t.MinAmount > best.MinAmount {
			best, found = t, true
		}
	}
	return best, found
}

// ComputeCommission returns the role's share of amount. The result is not
// rounded.
func ComputeCommission(tier Tier, amount float64, role Role) float64 {
	return amount * (tier.Percent(role) / 100)
}

// Breakdown is a commission quote rounded for display.
type Breakdown struct {
	Amount            decimal.Decimal `json:"amount"`
	TierFound         bool            `json:"tier_found"`
	Tier              *Tier           `json:"tier,omitempty"`
	AgentCommission   decimal.Decimal `json:"agent_commission"`
	CompanyCommission decimal.Decimal `json:"company_commission"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
}

// Quote resolves the tier for amount and reports each share rounded to two
// decimals. With no applicable tier the commission is zero.
func Quote(tiers []Tier, amount float64) Breakdown {
	b := Breakdown{
		Amount:            round2(amount),
		AgentCommission:   decimal.Zero,
		CompanyCommission: decimal.Zero,
		TotalCommission:   decimal.Zero,
	}
	tier, ok := ResolveTier(tiers, amount)
	if !ok {
		return b
	}

	agent := ComputeCommission(tier, amount, RoleAgent)
	company := ComputeCommission(tier, amount, RoleCompany)

	b.TierFound = true
	b.Tier = &tier
	b.AgentCommission = round2(agent)
	b.CompanyCommission = round2(company)
	b.TotalCommission = round2(agent + company)
	return b
}

func round2(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Validate checks a table before it is stored. Resolution itself tolerates
// any table.
func Validate(tiers []Tier) error {
	seen := make(map[float64]struct{}, len(tiers))
	for i, t := range tiers {
		if math.IsNaN(t.MinAmount) || math.IsInf(t.MinAmount, 0) || t.MinAmount < 0 {
			return fmt.Errorf("%w: tier %d has min_amount %v", ErrInvalidTier, i, t.MinAmount)
		}
		for _, pct := range []float64{t.AgentPercent, t.CompanyPercent} {
			if math.IsNaN(pct) || pct < 0 || pct > 100 {
				return fmt.Errorf("%w: tier %d percent %v out of range", ErrInvalidTier, i, pct)
			}
		}
		if _, dup := seen[t.MinAmount]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateThreshold, t.MinAmount)
		}
		seen[t.MinAmount] = struct{}{}
	}
	return nil
}

// Sorted returns a copy of the table ordered by MinAmount.
func Sorted(tiers []Tier) []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	sort.Slice(out, func(i, j int) bool { return out[i].MinAmount < out[j].MinAmount })
	return out
}
