package domain

import (
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the precision amounts are shown with.
const DisplayPlaces = 2

// Money is an amount in a currency, held at display precision.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// MoneyFromFloat rounds a resolver result to display precision. The rate
// math runs on float64, so this is the single point where it becomes a
// decimal.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: RoundDisplay(v), Currency: currency}
}

// RoundDisplay rounds a raw float for presentation.
func RoundDisplay(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(DisplayPlaces)
}

// String renders the amount with a fixed two decimals, e.g. "5800.00 SSP".
func (m Money) String() string {
	return m.Amount.StringFixed(DisplayPlaces) + " " + m.Currency
}
