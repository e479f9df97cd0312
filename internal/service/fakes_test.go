package service

import (
	"context"
	"errors"
	"sort"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/google/uuid"
)

// memStore is an in-memory QueryStore. RunInTx works on a copy that is only
// kept when fn succeeds.
type memStore struct {
	currencies map[string]fx.Currency
	pairs      []fx.PairRate
	tiers      map[commission.Kind][]commission.Tier
	audits     []repository.InsertAuditLogParams
	listErr    error
	lists      int
}

func newMemStore() *memStore {
	return &memStore{
		currencies: map[string]fx.Currency{},
		tiers:      map[commission.Kind][]commission.Tier{},
	}
}

func (m *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range m.currencies {
		c.currencies[k] = v
	}
	c.pairs = append(c.pairs, m.pairs...)
	for k, v := range m.tiers {
		c.tiers[k] = append([]commission.Tier(nil), v...)
	}
	c.audits = append(c.audits, m.audits...)
	return c
}

func (m *memStore) ListCurrencies(ctx context.Context) ([]fx.Currency, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]fx.Currency, 0, len(m.currencies))
	for _, c := range m.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memStore) GetCurrency(ctx context.Context, code string) (*fx.Currency, error) {
	c, ok := m.currencies[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListPairRates(ctx context.Context) ([]fx.PairRate, error) {
	return append([]fx.PairRate(nil), m.pairs...), nil
}

func (m *memStore) ListTiers(ctx context.Context, kind commission.Kind) ([]commission.Tier, error) {
	return commission.Sorted(m.tiers[kind]), nil
}

func (m *memStore) UpsertCurrency(ctx context.Context, c fx.Currency) error {
	m.currencies[c.Code] = c
	return nil
}

func (m *memStore) DeleteCurrency(ctx context.Context, code string) error {
	if _, ok := m.currencies[code]; !ok {
		return repository.ErrNotFound
	}
	delete(m.currencies, code)
	return nil
}

func (m *memStore) CreatePairRate(ctx context.Context, id uuid.UUID, p fx.PairRate) error {
	p.ID = id.String()
	m.pairs = append(m.pairs, p)
	return nil
}

func (m *memStore) DeletePairRate(ctx context.Context, id uuid.UUID) error {
	for i, p := range m.pairs {
		if p.ID == id.String() {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) ReplaceTiers(ctx context.Context, kind commission.Kind, tiers []commission.Tier) error {
	m.tiers[kind] = append([]commission.Tier(nil), tiers...)
	return nil
}

func (m *memStore) InsertAuditLog(ctx context.Context, arg repository.InsertAuditLogParams) (int64, error) {
	m.audits = append(m.audits, arg)
	return int64(len(m.audits)), nil
}

func (m *memStore) RunInTx(ctx context.Context, fn func(q TxQueries) error) error {
	tx := m.clone()
	if err := fn(tx); err != nil {
		return err
	}
	m.currencies, m.pairs, m.tiers, m.audits = tx.currencies, tx.pairs, tx.tiers, tx.audits
	return nil
}

var errBoom = errors.New("boom")
