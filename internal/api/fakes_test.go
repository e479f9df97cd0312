package api_test

import (
	"context"
	"sync"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/ayo6706/remittance-core/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// memStore keeps rate configuration in memory. Transactions are not
// isolated; the handlers under test never fail mid-transaction.
type memStore struct {
	mu         sync.Mutex
	currencies []fx.Currency
	pairs      []fx.PairRate
	tiers      map[commission.Kind][]commission.Tier
	audits     []repository.InsertAuditLogParams
}

func newMemStore() *memStore {
	return &memStore{tiers: map[commission.Kind][]commission.Tier{}}
}

func (m *memStore) ListCurrencies(ctx context.Context) ([]fx.Currency, error) {
	return append([]fx.Currency(nil), m.currencies...), nil
}

func (m *memStore) GetCurrency(ctx context.Context, code string) (*fx.Currency, error) {
	for _, c := range m.currencies {
		if fx.SameCode(c.Code, code) {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListPairRates(ctx context.Context) ([]fx.PairRate, error) {
	return append([]fx.PairRate(nil), m.pairs...), nil
}

func (m *memStore) ListTiers(ctx context.Context, kind commission.Kind) ([]commission.Tier, error) {
	return commission.Sorted(m.tiers[kind]), nil
}

func (m *memStore) UpsertCurrency(ctx context.Context, c fx.Currency) error {
	for i := range m.currencies {
		if m.currencies[i].Code == c.Code {
			m.currencies[i] = c
			return nil
		}
	}
	m.currencies = append(m.currencies, c)
	return nil
}

func (m *memStore) DeleteCurrency(ctx context.Context, code string) error {
	for i := range m.currencies {
		if m.currencies[i].Code == code {
			m.currencies = append(m.currencies[:i], m.currencies[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) CreatePairRate(ctx context.Context, id uuid.UUID, p fx.PairRate) error {
	p.ID = id.String()
	m.pairs = append(m.pairs, p)
	return nil
}

func (m *memStore) DeletePairRate(ctx context.Context, id uuid.UUID) error {
	for i := range m.pairs {
		if m.pairs[i].ID == id.String() {
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

func (m *memStore) RunInTx(ctx context.Context, fn func(q service.TxQueries) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

// memIdempotency mimics the idempotency_keys table.
type memIdempotency struct {
	mu   sync.Mutex
	rows map[string]repository.IdempotencyKey
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{rows: map[string]repository.IdempotencyKey{}}
}

func (m *memIdempotency) GetIdempotencyKey(ctx context.Context, key string) (repository.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key]
	if !ok {
		return repository.IdempotencyKey{}, pgx.ErrNoRows
	}
	return row, nil
}

func (m *memIdempotency) ReserveIdempotencyKey(ctx context.Context, arg repository.ReserveIdempotencyKeyParams) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[arg.IdempotencyKey]; ok {
		return "", pgx.ErrNoRows
	}
	m.rows[arg.IdempotencyKey] = repository.IdempotencyKey{
		IdempotencyKey: arg.IdempotencyKey,
		RequestHash:    arg.RequestHash,
		InProgress:     true,
	}
	return arg.IdempotencyKey, nil
}

func (m *memIdempotency) FinalizeIdempotencyKey(ctx context.Context, arg repository.FinalizeIdempotencyKeyParams) (repository.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[arg.IdempotencyKey]
	if !ok || row.RequestHash != arg.RequestHash {
		return repository.IdempotencyKey{}, pgx.ErrNoRows
	}
	row.ResponseStatus = arg.ResponseStatus
	row.ResponseBody = arg.ResponseBody
	row.ContentType = arg.ContentType
	row.InProgress = false
	m.rows[arg.IdempotencyKey] = row
	return row, nil
}

func (m *memIdempotency) ReleaseIdempotencyKey(ctx context.Context, key, requestHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[key]; ok && row.RequestHash == requestHash && row.InProgress {
		delete(m.rows, key)
	}
	return nil
}
