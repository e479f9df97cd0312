package fx

// A per-currency rate at or below suspectRateCeiling is more likely an unset
// field than a real parity against the base currency. It is replaced only by
// an already configured value above plausibleRateFloor. Both thresholds are
// tuned for a base currency with large nominal rates.
const (
	suspectRateCeiling = 1
	plausibleRateFloor = 10
)

// correctSource applies the correction to the source leg. When converting
// into the base currency an explicit selling price wins over the generic
// alternate-side check.
func (r Resolver) correctSource(from, to *Currency, side Side, rate float64) (float64, bool) {
	if rate > suspectRateCeiling {
		return rate, false
	}
	if r.IsBase(to.Code) {
		if v, ok := from.SellingPrice.Float(); ok && v > plausibleRateFloor {
			return v, true
		}
	}
	return r.correctLeg(from, side, rate)
}

// correctLeg swaps a suspect rate for the other side's value of the same
// currency when that value is plausible. It never invents a rate.
func (r Resolver) correctLeg(c *Currency, side Side, rate float64) (float64, bool) {
	if rate > suspectRateCeiling {
		return rate, false
	}
	alt, ok := r.alternateRate(c, side.Opposite())
	if ok && alt > plausibleRateFloor {
		return alt, true
	}
	return rate, false
}

// alternateRate prefers the explicit field over a derived rate.
func (r Resolver) alternateRate(c *Currency, side Side) (float64, bool) {
	if p := c.price(side); p.Present() {
		return p.Float()
	}
	return r.EffectiveRate(c, side)
}
