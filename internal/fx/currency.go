package fx

import "strings"

// Side is a quote side, and doubles as the economic direction of a
// conversion from the platform's point of view.
type Side string

const (
	Buying  Side = "buying"
	Selling Side = "selling"
)

// ParseSide accepts "buying" or "selling" in any case.
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buying:
		return Buying, true
	case Selling:
		return Selling, true
	default:
		return "", false
	}
}

func (s Side) Valid() bool {
	return s == Buying || s == Selling
}

func (s Side) Opposite() Side {
	if s == Buying {
		return Selling
	}
	return Buying
}

// PriceType says how buying/selling prices are interpreted.
type PriceType string

const (
	// Fixed prices are absolute base-currency units per unit.
	Fixed PriceType = "fixed"
	// Percentage prices are adjustments applied to the exchange rate.
	Percentage PriceType = "percentage"
)

// Normalize maps the empty value to Fixed and lower-cases the rest.
func (t PriceType) Normalize() PriceType {
	n := PriceType(strings.ToLower(strings.TrimSpace(string(t))))
	if n == "" {
		return Fixed
	}
	return n
}

func (t PriceType) Valid() bool {
	n := t.Normalize()
	return n == Fixed || n == Percentage
}

// Currency carries the pricing metadata of one supported currency.
type Currency struct {
	Code         string    `json:"code"`
	Name         string    `json:"name,omitempty"`
	PriceType    PriceType `json:"price_type,omitempty"`
	ExchangeRate Price     `json:"exchange_rate"`
	BuyingPrice  Price     `json:"buying_price"`
	SellingPrice Price     `json:"selling_price"`
}

func (c *Currency) price(side Side) Price {
	if side == Buying {
		return c.BuyingPrice
	}
	return c.SellingPrice
}

// PairRate is a directly configured rate: 1 unit of FromCode is worth the
// side's price in units of ToCode.
type PairRate struct {
	ID           string    `json:"id,omitempty"`
	FromCode     string    `json:"from_code"`
	ToCode       string    `json:"to_code"`
	PriceType    PriceType `json:"price_type,omitempty"`
	BuyingPrice  Price     `json:"buying_price"`
	SellingPrice Price     `json:"selling_price"`
}

func (p *PairRate) price(side Side) Price {
	if side == Buying {
		return p.BuyingPrice
	}
	return p.SellingPrice
}

// SameCode compares currency codes case-insensitively.
func SameCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// findPair returns the first record for the ordered pair.
func findPair(pairs []PairRate, from, to string) *PairRate {
	for i := range pairs {
		if SameCode(pairs[i].FromCode, from) && SameCode(pairs[i].ToCode, to) {
			return &pairs[i]
		}
	}
	return nil
}
