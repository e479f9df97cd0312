package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayo6706/remittance-core/internal/domain"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = validator.New()

// CurrencyService manages the rate configuration.
type CurrencyService struct {
	store     QueryStore
	snapshots *RateSnapshotter
	audit     *AuditService
}

func NewCurrencyService(store QueryStore, snapshots *RateSnapshotter, audit *AuditService) *CurrencyService {
	return &CurrencyService{store: store, snapshots: snapshots, audit: audit}
}

func (s *CurrencyService) List(ctx context.Context) ([]fx.Currency, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	return snap.Currencies, nil
}

func (s *CurrencyService) Get(ctx context.Context, code string) (*fx.Currency, error) {
	c, err := s.store.GetCurrency(ctx, normalizeCode(code))
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (s *CurrencyService) ListPairRates(ctx context.Context) ([]fx.PairRate, error) {
	snap, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rates: %w", err)
	}
	return snap.PairRates, nil
}

// Upsert creates or replaces a currency.
func (s *CurrencyService) Upsert(ctx context.Context, actor *uuid.UUID, c fx.Currency) (*fx.Currency, error) {
	c.Code = normalizeCode(c.Code)
	c.Name = strings.TrimSpace(c.Name)
	c.PriceType = c.PriceType.Normalize()
	if err := validateCode(c.Code); err != nil {
		return nil, err
	}
	if !c.PriceType.Valid() {
		return nil, validationError("price_type must be fixed or percentage")
	}
	if err := validatePrices(map[string]fx.Price{
		"exchange_rate": c.ExchangeRate,
		"buying_price":  c.BuyingPrice,
		"selling_price": c.SellingPrice,
	}); err != nil {
		return nil, err
	}

	err := s.store.RunInTx(ctx, func(q TxQueries) error {
		prev, err := q.GetCurrency(ctx, c.Code)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := q.UpsertCurrency(ctx, c); err != nil {
			return err
		}
		return s.audit.Write(ctx, q, domain.EntityCurrency, c.Code, actor, domain.AuditActionUpsert, prev, c)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert currency %s: %w", c.Code, err)
	}
	s.snapshots.Invalidate(ctx)
	zap.L().Info("currency upserted", zap.String("code", c.Code), zap.String("price_type", string(c.PriceType)))
	return &c, nil
}

func (s *CurrencyService) Delete(ctx context.Context, actor *uuid.UUID, code string) error {
	code = normalizeCode(code)
	err := s.store.RunInTx(ctx, func(q TxQueries) error {
		prev, err := q.GetCurrency(ctx, code)
		if err != nil {
			return mapNotFound(err)
		}
		if err := q.DeleteCurrency(ctx, code); err != nil {
			return mapNotFound(err)
		}
		return s.audit.Write(ctx, q, domain.EntityCurrency, code, actor, domain.AuditActionDelete, prev, nil)
	})
	if err != nil {
		return fmt.Errorf("delete currency %s: %w", code, err)
	}
	s.snapshots.Invalidate(ctx)
	zap.L().Info("currency deleted", zap.String("code", code))
	return nil
}

// CreatePairRate appends a pair rate. Earlier records for the same pair keep
// precedence.
func (s *CurrencyService) CreatePairRate(ctx context.Context, actor *uuid.UUID, p fx.PairRate) (*fx.PairRate, error) {
	p.FromCode = normalizeCode(p.FromCode)
	p.ToCode = normalizeCode(p.ToCode)
	p.PriceType = p.PriceType.Normalize()
	if err := validateCode(p.FromCode); err != nil {
		return nil, err
	}
	if err := validateCode(p.ToCode); err != nil {
		return nil, err
	}
	if p.FromCode == p.ToCode {
		return nil, validationError("from_code and to_code must differ")
	}
	if !p.PriceType.Valid() {
		return nil, validationError("price_type must be fixed or percentage")
	}
	if !p.BuyingPrice.Present() && !p.SellingPrice.Present() {
		return nil, validationError("a buying_price or selling_price is required")
	}
	if err := validatePrices(map[string]fx.Price{
		"buying_price":  p.BuyingPrice,
		"selling_price": p.SellingPrice,
	}); err != nil {
		return nil, err
	}

	id := uuid.New()
	p.ID = id.String()
	err := s.store.RunInTx(ctx, func(q TxQueries) error {
		if err := q.CreatePairRate(ctx, id, p); err != nil {
			return err
		}
		return s.audit.Write(ctx, q, domain.EntityPairRate, p.ID, actor, domain.AuditActionUpsert, nil, p)
	})
	if err != nil {
		return nil, fmt.Errorf("create pair rate %s/%s: %w", p.FromCode, p.ToCode, err)
	}
	s.snapshots.Invalidate(ctx)
	zap.L().Info("pair rate created", zap.String("id", p.ID), zap.String("from", p.FromCode), zap.String("to", p.ToCode))
	return &p, nil
}

func (s *CurrencyService) DeletePairRate(ctx context.Context, actor *uuid.UUID, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return validationError("invalid pair rate id")
	}
	err = s.store.RunInTx(ctx, func(q TxQueries) error {
		if err := q.DeletePairRate(ctx, id); err != nil {
			return mapNotFound(err)
		}
		return s.audit.Write(ctx, q, domain.EntityPairRate, id.String(), actor, domain.AuditActionDelete, nil, nil)
	})
	if err != nil {
		return fmt.Errorf("delete pair rate %s: %w", id, err)
	}
	s.snapshots.Invalidate(ctx)
	zap.L().Info("pair rate deleted", zap.String("id", id.String()))
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validateCode(code string) error {
	if err := validate.Var(code, "required,alpha,min=2,max=5"); err != nil {
		return validationError("currency code %q must be 2 to 5 letters", code)
	}
	return nil
}

func validatePrices(fields map[string]fx.Price) error {
	for name, p := range fields {
		if !p.Present() {
			continue
		}
		if _, ok := p.Float(); !ok {
			return validationError("%s must be numeric", name)
		}
	}
	return nil
}
