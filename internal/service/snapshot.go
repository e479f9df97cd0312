package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/ayo6706/remittance-core/internal/observability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	snapshotRedisKey    = "remit:rates:snapshot"
	snapshotGenRedisKey = "remit:rates:snapshot:gen"
)

// snapshotKey names the cached snapshot for one generation. Invalidate bumps
// the generation, so a load that read the database before an admin write can
// only fill a key no reader asks for again.
func snapshotKey(gen int64) string {
	return fmt.Sprintf("%s:%d", snapshotRedisKey, gen)
}

// Snapshot is the full rate configuration at one point in time.
type Snapshot struct {
	Currencies []fx.Currency `json:"currencies"`
	PairRates  []fx.PairRate `json:"pair_rates"`
}

// Currency looks a code up case-insensitively.
func (s *Snapshot) Currency(code string) (*fx.Currency, bool) {
	for i := range s.Currencies {
		if fx.SameCode(s.Currencies[i].Code, code) {
			return &s.Currencies[i], true
		}
	}
	return nil, false
}

// RateSnapshotter serves rate snapshots from Redis, falling back to the
// database when the cache is cold or unreachable.
type RateSnapshotter struct {
	store RateReader
	redis redis.Cmdable
	ttl   time.Duration
}

// NewRateSnapshotter builds a snapshotter. A nil redis client or a zero
// ttl disables caching.
func NewRateSnapshotter(store RateReader, redis redis.Cmdable, ttl time.Duration) *RateSnapshotter {
	return &RateSnapshotter{store: store, redis: redis, ttl: ttl}
}

func (s *RateSnapshotter) cacheEnabled() bool {
	return s.redis != nil && s.ttl > 0
}

// Load returns the cached snapshot or a fresh one.
func (s *RateSnapshotter) Load(ctx context.Context) (*Snapshot, error) {
	if !s.cacheEnabled() {
		return s.Fresh(ctx)
	}

	gen, ok := s.generation(ctx)
	if !ok {
		return s.Fresh(ctx)
	}
	if snap, ok := s.fromCache(ctx, gen); ok {
		observability.IncrementSnapshotCache("hit")
		return snap, nil
	}
	observability.IncrementSnapshotCache("miss")

	snap, err := s.Fresh(ctx)
	if err != nil {
		return nil, err
	}
	s.cache(ctx, gen, snap)
	return snap, nil
}

// Fresh always reads the database.
func (s *RateSnapshotter) Fresh(ctx context.Context) (*Snapshot, error) {
	currencies, err := s.store.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currencies: %w", err)
	}
	pairs, err := s.store.ListPairRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pair rates: %w", err)
	}
	return &Snapshot{Currencies: currencies, PairRates: pairs}, nil
}

// Invalidate retires the cached snapshot after an admin write. It must run
// after the write has committed.
func (s *RateSnapshotter) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Incr(ctx, snapshotGenRedisKey).Err(); err != nil {
		zap.L().Warn("redis rate snapshot invalidate failed", zap.Error(err))
	}
}

// generation reads the current snapshot generation. A missing counter is
// generation 0. On a redis error the cache is skipped for this load.
func (s *RateSnapshotter) generation(ctx context.Context) (int64, bool) {
	gen, err := s.redis.Get(ctx, snapshotGenRedisKey).Int64()
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, redis.Nil):
		return 0, true
	default:
		observability.IncrementSnapshotCache("error")
		zap.L().Warn("redis rate snapshot generation lookup failed", zap.Error(err))
		return 0, false
	}
}

func (s *RateSnapshotter) fromCache(ctx context.Context, gen int64) (*Snapshot, bool) {
	val, err := s.redis.Get(ctx, snapshotKey(gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observability.IncrementSnapshotCache("error")
			zap.L().Warn("redis rate snapshot lookup failed", zap.Error(err))
		}
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		zap.L().Warn("decode rate snapshot", zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (s *RateSnapshotter) cache(ctx context.Context, gen int64, snap *Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		zap.L().Warn("marshal rate snapshot", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, snapshotKey(gen), payload, s.ttl).Err(); err != nil {
		zap.L().Warn("redis rate snapshot set failed", zap.Error(err))
	}
}
