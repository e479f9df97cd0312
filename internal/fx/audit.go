package fx

// FindingKind classifies a rate configuration problem.
type FindingKind string

const (
	// FindingUnresolvable means no rate can be derived for the side.
	FindingUnresolvable FindingKind = "unresolvable"
	// FindingSuspect means the side resolves to a value the fallback
	// path would try to correct.
	FindingSuspect FindingKind = "suspect"
	// FindingUnknownPriceType means the price type is neither fixed nor percentage.
	FindingUnknownPriceType FindingKind = "unknown_price_type"
)

type Finding struct {
	Code string      `json:"code"`
	Side Side        `json:"side,omitempty"`
	Kind FindingKind `json:"kind"`
	Rate float64     `json:"rate,omitempty"`
}

// Audit inspects every non-base currency on both sides. The base currency is
// skipped because it resolves to 1 by definition.
func (r Resolver) Audit(currencies []Currency) []Finding {
	var findings []Finding
	for i := range currencies {
		c := &currencies[i]
		if r.IsBase(c.Code) {
			continue
		}
		if !c.PriceType.Valid() {
			findings = append(findings, Finding{Code: c.Code, Kind: FindingUnknownPriceType})
			continue
		}
		for _, side := range []Side{Buying, Selling} {
			rate, ok := r.EffectiveRate(c, side)
			switch {
			case !ok:
				findings = append(findings, Finding{Code: c.Code, Side: side, Kind: FindingUnresolvable})
			case rate <= suspectRateCeiling:
				findings = append(findings, Finding{Code: c.Code, Side: side, Kind: FindingSuspect, Rate: rate})
			}
		}
	}
	return findings
}
