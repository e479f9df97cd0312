// Package fx resolves exchange rates from administrator-configured currency
// and pair records and converts amounts with them.
//
// Everything here is a pure function of its inputs. A rate that cannot be
// resolved is reported with a false second return value, never an error:
// missing rate data is an ordinary state of the configuration.
package fx

import "strings"

// DefaultBaseCurrency is used when no base currency is configured.
const DefaultBaseCurrency = "SSP"

// Resolver resolves rates against a configured base currency.
type Resolver struct {
	base string
}

func NewResolver(baseCurrency string) Resolver {
	base := strings.ToUpper(strings.TrimSpace(baseCurrency))
	if base == "" {
		base = DefaultBaseCurrency
	}
	return Resolver{base: base}
}

func (r Resolver) BaseCurrency() string {
	if r.base == "" {
		return DefaultBaseCurrency
	}
	return r.base
}

// IsBase reports whether code is the platform base currency.
func (r Resolver) IsBase(code string) bool {
	return SameCode(code, r.BaseCurrency())
}

// EffectiveRate returns the rate of one unit of c in base-currency units on
// the given side.
//
// Fixed pricing reads the side's price as-is. Percentage pricing applies the
// side's price as a percent adjustment to the exchange rate. The base
// currency stands in at 1 where its own figure is missing.
func (r Resolver) EffectiveRate(c *Currency, side Side) (float64, bool) {
	if c == nil || !side.Valid() {
		return 0, false
	}
	price := c.price(side)

	switch c.PriceType.Normalize() {
	case Fixed:
		if price.Present() {
			return price.Float()
		}
		if r.IsBase(c.Code) {
			return 1, true
		}
		return 0, false

	case Percentage:
		pct, ok := price.Float()
		if !ok {
			return 0, false
		}
		var ref float64
		switch {
		case c.ExchangeRate.Present():
			if ref, ok = c.ExchangeRate.Float(); !ok {
				return 0, false
			}
		case r.IsBase(c.Code):
			ref = 1
		default:
			return 0, false
		}
		v := ref * (1 + pct/100)
		return v, finite(v)

	default:
		return 0, false
	}
}
