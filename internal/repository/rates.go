package repository

import (
	"context"
	"fmt"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/google/uuid"
)

const currencyColumns = `code, name, price_type, exchange_rate, buying_price, selling_price`

func scanCurrency(row interface{ Scan(...any) error }) (fx.Currency, error) {
	var (
		c                             fx.Currency
		priceType                     string
		exchangeRate, buying, selling *string
	)
	if err := row.Scan(&c.Code, &c.Name, &priceType, &exchangeRate, &buying, &selling); err != nil {
		return fx.Currency{}, err
	}
	c.PriceType = fx.PriceType(priceType)
	c.ExchangeRate = fx.PriceFromPtr(exchangeRate)
	c.BuyingPrice = fx.PriceFromPtr(buying)
	c.SellingPrice = fx.PriceFromPtr(selling)
	return c, nil
}

func (r *Repository) ListCurrencies(ctx context.Context) ([]fx.Currency, error) {
	rows, err := r.db.Query(ctx, `SELECT `+currencyColumns+` FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []fx.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

func (r *Repository) GetCurrency(ctx context.Context, code string) (*fx.Currency, error) {
	row := r.db.QueryRow(ctx, `SELECT `+currencyColumns+` FROM currencies WHERE UPPER(code) = UPPER($1)`, code)
	c, err := scanCurrency(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", code, notFound(err))
	}
	return &c, nil
}

func (r *Repository) UpsertCurrency(ctx context.Context, c fx.Currency) error {
	query := `
		INSERT INTO currencies (code, name, price_type, exchange_rate, buying_price, selling_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			price_type = EXCLUDED.price_type,
			exchange_rate = EXCLUDED.exchange_rate,
			buying_price = EXCLUDED.buying_price,
			selling_price = EXCLUDED.selling_price,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, c.Code, c.Name, string(c.PriceType.Normalize()),
		c.ExchangeRate.Ptr(), c.BuyingPrice.Ptr(), c.SellingPrice.Ptr())
	if err != nil {
		return fmt.Errorf("failed to upsert currency %s: %w", c.Code, err)
	}
	return nil
}

func (r *Repository) DeleteCurrency(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM currencies WHERE UPPER(code) = UPPER($1)`, code)
	if err != nil {
		return fmt.Errorf("failed to delete currency %s: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete currency %s: %w", code, ErrNotFound)
	}
	return nil
}

// ListPairRates returns pair rates in creation order, which is the order
// conversion searches them in.
func (r *Repository) ListPairRates(ctx context.Context) ([]fx.PairRate, error) {
	query := `
		SELECT id, from_code, to_code, price_type, buying_price, selling_price
		FROM pair_rates
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pair rates: %w", err)
	}
	defer rows.Close()

	var pairs []fx.PairRate
	for rows.Next() {
		var (
			p               fx.PairRate
			id              uuid.UUID
			priceType       string
			buying, selling *string
		)
		if err := rows.Scan(&id, &p.FromCode, &p.ToCode, &priceType, &buying, &selling); err != nil {
			return nil, fmt.Errorf("failed to scan pair rate: %w", err)
		}
		p.ID = id.String()
		p.PriceType = fx.PriceType(priceType)
		p.BuyingPrice = fx.PriceFromPtr(buying)
		p.SellingPrice = fx.PriceFromPtr(selling)
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list pair rates: %w", err)
	}
	return pairs, nil
}

func (r *Repository) CreatePairRate(ctx context.Context, id uuid.UUID, p fx.PairRate) error {
	query := `
		INSERT INTO pair_rates (id, from_code, to_code, price_type, buying_price, selling_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, id, p.FromCode, p.ToCode, string(p.PriceType.Normalize()),
		p.BuyingPrice.Ptr(), p.SellingPrice.Ptr())
	if err != nil {
		return fmt.Errorf("failed to create pair rate: %w", err)
	}
	return nil
}

func (r *Repository) DeletePairRate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pair_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pair rate %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete pair rate %s: %w", id, ErrNotFound)
	}
	return nil
}
