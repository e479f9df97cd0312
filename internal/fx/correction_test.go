package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrection_SourceIntoBaseUsesSellingPrice(t *testing.T) {
	r := NewResolver("SSP")
	usd := &Currency{Code: "USD", BuyingPrice: "1", SellingPrice: "4700"}

	conv, ok := r.Convert(2, usd, &Currency{Code: "SSP"}, Selling, nil)
	require.True(t, ok)
	assert.Equal(t, 9400.0, conv.Amount)
	assert.Equal(t, []Leg{LegSource}, conv.Corrected)
}

func TestCorrection_SourceFallsBackToAlternateSide(t *testing.T) {
	r := NewResolver("SSP")
	usd := &Currency{Code: "USD", BuyingPrice: "4600", SellingPrice: "1"}

	conv, ok := r.Convert(2, usd, &Currency{Code: "SSP"}, Buying, nil)
	require.True(t, ok)
	assert.Equal(t, 9200.0, conv.Amount)
	assert.Equal(t, []Leg{LegSource}, conv.Corrected)
}

func TestCorrection_Target(t *testing.T) {
	r := NewResolver("SSP")
	eur := &Currency{Code: "EUR", BuyingPrice: "5000", SellingPrice: "5200"}
	usd := &Currency{Code: "USD", BuyingPrice: "1", SellingPrice: "4700"}

	conv, ok := r.Convert(47, eur, usd, Buying, nil)
	require.True(t, ok)
	assert.InDelta(t, 47*5200.0/4700.0, conv.Amount, 1e-9)
	assert.Equal(t, []Leg{LegTarget}, conv.Corrected)
}

func TestCorrection_PercentageAlternateField(t *testing.T) {
	r := NewResolver("SSP")
	eur := &Currency{Code: "EUR", BuyingPrice: "2"}

	// the explicit alternate field is taken as-is, even under percentage pricing
	usd := &Currency{Code: "USD", PriceType: Percentage, ExchangeRate: "4000", BuyingPrice: "25", SellingPrice: "-100"}
	conv, ok := r.Convert(1, usd, eur, Buying, nil)
	require.True(t, ok)
	assert.Equal(t, []Leg{LegSource}, conv.Corrected)
	assert.Equal(t, 12.5, conv.Amount)

	// no alternate field and nothing to derive it from
	usd.BuyingPrice = ""
	conv, ok = r.Convert(1, usd, eur, Buying, nil)
	require.True(t, ok)
	assert.Empty(t, conv.Corrected)
	assert.Equal(t, 0.0, conv.Amount)
}

func TestCorrection_LeavesSuspectRateWhenNothingPlausible(t *testing.T) {
	r := NewResolver("SSP")

	tests := []struct {
		name string
		usd  Currency
		want float64
	}{
		{"alternate below floor", Currency{Code: "USD", BuyingPrice: "1", SellingPrice: "9"}, 3},
		{"alternate exactly at floor", Currency{Code: "USD", BuyingPrice: "1", SellingPrice: "10"}, 3},
		{"alternate malformed", Currency{Code: "USD", BuyingPrice: "0.5", SellingPrice: "x"}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, ok := r.Convert(3, &tt.usd, &Currency{Code: "SSP"}, Selling, nil)
			require.True(t, ok)
			assert.Equal(t, tt.want, conv.Amount)
			assert.Empty(t, conv.Corrected)
		})
	}
}

func TestCorrection_NotAppliedAboveCeiling(t *testing.T) {
	r := NewResolver("SSP")
	usd := &Currency{Code: "USD", BuyingPrice: "1.5", SellingPrice: "4700"}

	conv, ok := r.Convert(2, usd, &Currency{Code: "SSP"}, Selling, nil)
	require.True(t, ok)
	assert.Equal(t, 3.0, conv.Amount)
	assert.Empty(t, conv.Corrected)
}

func TestCorrection_NotAppliedOnPairPaths(t *testing.T) {
	r := NewResolver("SSP")
	usd := &Currency{Code: "USD", BuyingPrice: "1", SellingPrice: "4700"}
	pairs := []PairRate{{FromCode: "USD", ToCode: "SSP", BuyingPrice: "1"}}

	conv, ok := r.Convert(2, usd, &Currency{Code: "SSP"}, Buying, pairs)
	require.True(t, ok)
	assert.Equal(t, 2.0, conv.Amount)
	assert.Equal(t, PathDirect, conv.Path)
}

func TestAudit(t *testing.T) {
	r := NewResolver("SSP")
	findings := r.Audit([]Currency{
		{Code: "SSP"},
		{Code: "USD", BuyingPrice: "4600", SellingPrice: "4700"},
		{Code: "EUR", BuyingPrice: "1"},
		{Code: "GBP", PriceType: "tiered"},
	})

	assert.Equal(t, []Finding{
		{Code: "EUR", Side: Buying, Kind: FindingSuspect, Rate: 1},
		{Code: "EUR", Side: Selling, Kind: FindingUnresolvable},
		{Code: "GBP", Kind: FindingUnknownPriceType},
	}, findings)
}
