package service

import (
	"context"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/repository"
	"github.com/google/uuid"
)

// RateReader loads the rate and tier configuration.
type RateReader interface {
	ListCurrencies(ctx context.Context) ([]fx.Currency, error)
	GetCurrency(ctx context.Context, code string) (*fx.Currency, error)
	ListPairRates(ctx context.Context) ([]fx.PairRate, error)
	ListTiers(ctx context.Context, kind commission.Kind) ([]commission.Tier, error)
}

// TxQueries is what admin writes run against inside a transaction.
type TxQueries interface {
	RateReader
	UpsertCurrency(ctx context.Context, c fx.Currency) error
	DeleteCurrency(ctx context.Context, code string) error
	CreatePairRate(ctx context.Context, id uuid.UUID, p fx.PairRate) error
	DeletePairRate(ctx context.Context, id uuid.UUID) error
	ReplaceTiers(ctx context.Context, kind commission.Kind, tiers []commission.Tier) error
	InsertAuditLog(ctx context.Context, arg repository.InsertAuditLogParams) (int64, error)
}

// QueryStore defines the minimal data access contract required by services.
type QueryStore interface {
	RateReader
	RunInTx(ctx context.Context, fn func(q TxQueries) error) error
}

type repositoryStore struct {
	*repository.Repository
}

// NewStore adapts a repository to QueryStore.
func NewStore(repo *repository.Repository) QueryStore {
	return repositoryStore{Repository: repo}
}

func (s repositoryStore) RunInTx(ctx context.Context, fn func(q TxQueries) error) error {
	return s.Repository.RunInTx(ctx, func(tx *repository.Repository) error {
		return fn(tx)
	})
}
