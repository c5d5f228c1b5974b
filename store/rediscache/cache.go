/*
Package rediscache provides a Redis-backed cache for expensive
projection responses.

PURPOSE:
  A 600-month projection over a large portfolio is pure computation, so
  two identical requests produce identical answers. Keys are derived
  from the debt's balance state plus the request parameters, which makes
  entries self-invalidating: any payment or balance edit changes the
  state hash and therefore the key, and the stale entry simply expires.

SEE ALSO:
  - api/handlers.go: The projection endpoints that consult the cache
*/
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/warp/debt-engine/servicing"
)

// defaultTTL bounds memory use; keys are content-addressed so a longer
// TTL would also be correct.
const defaultTTL = time.Hour

type Cache struct {
	client *redis.Client
}

func New(addr, password string, db int) *Cache {
	return &Cache{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Ping verifies the connection at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, key, value, defaultTTL).Err()
}

// ProjectionKey builds a content-addressed cache key from everything
// the projection math depends on: the balance state, the charging
// terms, the cap base, the payment plan, and the start month (so month
// labels cannot go stale across a month boundary).
func ProjectionKey(d servicing.Debt, payment servicing.Money, months int, start servicing.Month) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%s|%d|%s",
		d.ID,
		d.CurrentBalance.Value.String(),
		d.OriginalPrincipal.Value.String(),
		d.AccumulatedInterestAndFees.Value.String(),
		d.AnnualInterestRate.String(),
		d.MonthlyServiceFee.Value.String(),
		d.CreditLifePremium.Value.String(),
		payment.Value.String(),
		months,
		start.String(),
	)
	return "projection:" + hex.EncodeToString(h.Sum(nil))
}
