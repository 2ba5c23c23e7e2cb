// Package cache holds the Redis-backed account summary cache. Entries are
// evicted synchronously after every applied trade, so a hit is at most
// SUMMARY_CACHE_EXPIRATION stale only across process restarts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"paper-trader/config"
)

// ErrMiss is returned when no summary is cached for the user.
var ErrMiss = errors.New("summary not cached")

type CurrencyLine struct {
	Amount decimal.Decimal `json:"amount"`
	Sign   string          `json:"sign"`
}

type StockLine struct {
	Ticker string          `json:"ticker"`
	Amount int             `json:"amount"`
	Avg    decimal.Decimal `json:"avg"`
}

// Summary is the cached projection of one user's balances and holdings.
type Summary struct {
	Currencies []CurrencyLine `json:"currencies"`
	Stocks     []StockLine    `json:"stocks"`
}

func summaryKey(userID uint) string {
	return fmt.Sprintf("account:%d:summary", userID)
}

// GetSummary returns the cached summary for the user, or ErrMiss.
func GetSummary(ctx context.Context, userID uint) (Summary, error) {
	payload, err := config.Rdb.Get(ctx, summaryKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return Summary{}, ErrMiss
	}
	if err != nil {
		return Summary{}, fmt.Errorf("get summary: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return Summary{}, fmt.Errorf("decode summary: %w", err)
	}
	return summary, nil
}

// SetSummary stores the summary for the user with the given expiry.
func SetSummary(ctx context.Context, userID uint, summary Summary, expiration time.Duration) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := config.Rdb.Set(ctx, summaryKey(userID), payload, expiration).Err(); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}

// InvalidateSummary drops the cached summary for the user.
func InvalidateSummary(ctx context.Context, userID uint) error {
	if err := config.Rdb.Del(ctx, summaryKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate summary: %w", err)
	}
	return nil
}
