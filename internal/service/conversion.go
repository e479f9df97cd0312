package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ayo6706/remittance-core/internal/domain"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/observability"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PathSameCurrency marks a quote between a currency and itself.
const PathSameCurrency fx.Path = "same_currency"

type ConvertInput struct {
	Amount float64
	From   string
	To     string
	Mode   fx.Side
}

// Quote is a priced conversion. Amount and Converted are rounded for
// display; Rate keeps full precision.
type Quote struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Mode      fx.Side         `json:"mode"`
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	Formatted string          `json:"formatted"`
	Rate      float64         `json:"rate"`
	Path      fx.Path         `json:"path"`
	Corrected []fx.Leg        `json:"corrected,omitempty"`
}

// ConversionService prices conversions against the current rate snapshot.
type ConversionService struct {
	snapshots *RateSnapshotter
	resolver  fx.Resolver
}

func NewConversionService(snapshots *RateSnapshotter, resolver fx.Resolver) *ConversionService {
	return &ConversionService{snapshots: snapshots, resolver: resolver}
}

func (s *ConversionService) Quote(ctx context.Context, in ConvertInput) (*Quote, error) {
	from := strings.ToUpper(strings.TrimSpace(in.From))
	to := strings.ToUpper(strings.TrimSpace(in.To))
	if from == "" || to == "" {
		return nil, validationError("from and to are required")
	}
	if !in.Mode.Valid() {
		return nil, validationError("mode must be buying or selling")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount < 0 {
		return nil, validationError("amount must be a non-negative number")
	}

	quote := &Quote{
		From:   from,
		To:     to,
		Mode:   in.Mode,
		Amount: domain.RoundDisplay(in.Amount),
	}
	if from == to {
		quote.Converted = quote.Amount
		quote.Formatted = domain.Money{Amount: quote.Amount, Currency: to}.String()
		quote.Rate = 1
		quote.Path = PathSameCurrency
		observability.IncrementConversion(string(PathSameCurrency))
		return quote, nil
	}

	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}

	conv, ok := s.resolver.Convert(in.Amount, lookup(snap, from), lookup(snap, to), in.Mode, snap.PairRates)
	if !ok {
		observability.IncrementConversion("unresolved")
		zap.L().Info("conversion unresolved",
			zap.String("from", from),
			zap.String("to", to),
			zap.String("mode", string(in.Mode)),
		)
		return nil, fmt.Errorf("%w: %s to %s", ErrRatesUnavailable, from, to)
	}

	observability.IncrementConversion(string(conv.Path))
	for _, leg := range conv.Corrected {
		observability.IncrementRateCorrection(string(leg))
		zap.L().Warn("suspect rate corrected",
			zap.String("from", from),
			zap.String("to", to),
			zap.String("leg", string(leg)),
		)
	}

	converted := domain.MoneyFromFloat(conv.Amount, to)
	quote.Converted = converted.Amount
	quote.Formatted = converted.String()
	quote.Rate = conv.Rate
	quote.Path = conv.Path
	quote.Corrected = conv.Corrected
	return quote, nil
}

// EffectiveRate resolves one currency's rate in base units for a side.
func (s *ConversionService) EffectiveRate(ctx context.Context, code string, side fx.Side) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !side.Valid() {
		return 0, validationError("side must be buying or selling")
	}
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load rates: %w", err)
	}
	c, ok := snap.Currency(code)
	if !ok {
		if !s.resolver.IsBase(code) {
			return 0, fmt.Errorf("%w: currency %s", ErrNotFound, code)
		}
		c = &fx.Currency{Code: code}
	}
	rate, ok := s.resolver.EffectiveRate(c, side)
	if !ok {
		return 0, fmt.Errorf("%w: %s %s", ErrRatesUnavailable, code, side)
	}
	return rate, nil
}

// lookup treats an unconfigured code as a bare currency so pair rates and
// the base identity can still apply.
func lookup(snap *Snapshot, code string) *fx.Currency {
	if c, ok := snap.Currency(code); ok {
		return c
	}
	return &fx.Currency{Code: code}
}
