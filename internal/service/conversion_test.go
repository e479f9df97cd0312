package service

import (
	"context"
	"testing"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversionFixture() (*memStore, *ConversionService) {
	store := newMemStore()
	store.currencies["USD"] = fx.Currency{Code: "USD", PriceType: fx.Fixed, BuyingPrice: "1300", SellingPrice: "1320"}
	store.currencies["KES"] = fx.Currency{Code: "KES", PriceType: fx.Fixed, BuyingPrice: "10", SellingPrice: "11"}
	store.currencies["ABC"] = fx.Currency{Code: "ABC", PriceType: fx.Fixed, BuyingPrice: "0.5", SellingPrice: "50"}
	snapshots := NewRateSnapshotter(store, nil, 0)
	return store, NewConversionService(snapshots, fx.NewResolver("SSP"))
}

func TestConversionQuote_PerCurrencyFallback(t *testing.T) {
	_, svc := newConversionFixture()

	q, err := svc.Quote(context.Background(), ConvertInput{Amount: 100, From: "usd", To: "SSP", Mode: fx.Buying})
	require.NoError(t, err)
	assert.Equal(t, "USD", q.From)
	assert.Equal(t, fx.PathFallback, q.Path)
	assert.Equal(t, 1320.0, q.Rate)
	assert.Equal(t, "132000", q.Converted.String())
	assert.Equal(t, "132000.00 SSP", q.Formatted)
}

func TestConversionQuote_DirectPair(t *testing.T) {
	store, svc := newConversionFixture()
	store.pairs = []fx.PairRate{{ID: "p1", FromCode: "USD", ToCode: "KES", BuyingPrice: "130", SellingPrice: "128"}}

	q, err := svc.Quote(context.Background(), ConvertInput{Amount: 10, From: "USD", To: "KES", Mode: fx.Buying})
	require.NoError(t, err)
	assert.Equal(t, fx.PathDirect, q.Path)
	assert.Equal(t, "1300", q.Converted.String())
}

func TestConversionQuote_PairForUnconfiguredCurrency(t *testing.T) {
	store, svc := newConversionFixture()
	store.pairs = []fx.PairRate{{FromCode: "EUR", ToCode: "USD", SellingPrice: "1.08"}}

	q, err := svc.Quote(context.Background(), ConvertInput{Amount: 100, From: "EUR", To: "USD", Mode: fx.Selling})
	require.NoError(t, err)
	assert.Equal(t, fx.PathDirect, q.Path)
	assert.Equal(t, "108", q.Converted.String())
}

func TestConversionQuote_CorrectsSuspectSource(t *testing.T) {
	_, svc := newConversionFixture()

	q, err := svc.Quote(context.Background(), ConvertInput{Amount: 2, From: "ABC", To: "SSP", Mode: fx.Selling})
	require.NoError(t, err)
	assert.Equal(t, []fx.Leg{fx.LegSource}, q.Corrected)
	assert.Equal(t, "100", q.Converted.String())
}

func TestConversionQuote_SameCurrency(t *testing.T) {
	store, svc := newConversionFixture()

	q, err := svc.Quote(context.Background(), ConvertInput{Amount: 12.345, From: "KES", To: "kes", Mode: fx.Selling})
	require.NoError(t, err)
	assert.Equal(t, PathSameCurrency, q.Path)
	assert.Equal(t, 1.0, q.Rate)
	assert.Equal(t, "12.35", q.Converted.String())
	assert.Zero(t, store.lists)
}

func TestConversionQuote_Unresolved(t *testing.T) {
	_, svc := newConversionFixture()

	_, err := svc.Quote(context.Background(), ConvertInput{Amount: 1, From: "XYZ", To: "QQQ", Mode: fx.Buying})
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestConversionQuote_Validation(t *testing.T) {
	_, svc := newConversionFixture()
	ctx := context.Background()

	_, err := svc.Quote(ctx, ConvertInput{Amount: 1, From: "USD", To: "KES", Mode: "sideways"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Quote(ctx, ConvertInput{Amount: -1, From: "USD", To: "KES", Mode: fx.Buying})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Quote(ctx, ConvertInput{Amount: 1, From: "", To: "KES", Mode: fx.Buying})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConversionQuote_StoreFailure(t *testing.T) {
	store, svc := newConversionFixture()
	store.listErr = errBoom

	_, err := svc.Quote(context.Background(), ConvertInput{Amount: 1, From: "USD", To: "KES", Mode: fx.Buying})
	assert.ErrorIs(t, err, errBoom)
}

func TestEffectiveRate(t *testing.T) {
	_, svc := newConversionFixture()
	ctx := context.Background()

	rate, err := svc.EffectiveRate(ctx, "usd", fx.Selling)
	require.NoError(t, err)
	assert.Equal(t, 1320.0, rate)

	rate, err = svc.EffectiveRate(ctx, "SSP", fx.Buying)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)

	_, err = svc.EffectiveRate(ctx, "EUR", fx.Buying)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEffectiveRate_Unresolvable(t *testing.T) {
	store, svc := newConversionFixture()
	store.currencies["GBP"] = fx.Currency{Code: "GBP", PriceType: fx.Percentage, BuyingPrice: "2"}

	_, err := svc.EffectiveRate(context.Background(), "GBP", fx.Buying)
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}
