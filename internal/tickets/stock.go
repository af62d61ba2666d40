package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dhukuti/internal/shared/constants"
)

// Reserve seeds a missing counter with the database stock, then takes n atomically.
// Returns the remaining count, or -1 when there is not enough stock.
var reserveScript = redis.NewScript(`
-- KEYS[1] = stock counter
-- ARGV[1] = requested quantity
-- ARGV[2] = available stock used to seed a missing counter
-- ARGV[3] = ttl seconds
local current = redis.call("GET", KEYS[1])
if not current then
    redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
    current = ARGV[2]
end

local n = tonumber(ARGV[1])
if tonumber(current) < n then
    return -1
end
return redis.call("DECRBY", KEYS[1], n)
`)

// Release returns n to an existing counter. A missing counter stays missing so the next
// reservation reseeds it from the database.
var releaseScript = redis.NewScript(`
-- KEYS[1] = stock counter
-- ARGV[1] = quantity
if redis.call("EXISTS", KEYS[1]) == 0 then
    return -1
end
return redis.call("INCRBY", KEYS[1], tonumber(ARGV[1]))
`)

// StockGuard rejects oversold purchases in Redis before they reach the row lock.
// The database stays authoritative. A nil guard allows everything.
type StockGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStockGuard(client *redis.Client) *StockGuard {
	if client == nil {
		return nil
	}
	return &StockGuard{client: client, ttl: constants.TTL_STOCK_COUNTER}
}

func (g *StockGuard) Reserve(ctx context.Context, ticketTypeID uuid.UUID, n, available int) error {
	if g == nil {
		return nil
	}
	key := constants.BuildTicketStockKey(ticketTypeID.String())
	left, err := reserveScript.Run(ctx, g.client, []string{key}, n, available, int(g.ttl.Seconds())).Int64()
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	if left < 0 {
		return fmt.Errorf("%w: requested %d", ErrInsufficientStock, n)
	}
	return nil
}

func (g *StockGuard) Release(ctx context.Context, ticketTypeID uuid.UUID, n int) error {
	if g == nil {
		return nil
	}
	key := constants.BuildTicketStockKey(ticketTypeID.String())
	if err := releaseScript.Run(ctx, g.client, []string{key}, n).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	return nil
}

// Forget drops the counter so it is reseeded from the database.
func (g *StockGuard) Forget(ctx context.Context, ticketTypeID uuid.UUID) error {
	if g == nil {
		return nil
	}
	return g.client.Del(ctx, constants.BuildTicketStockKey(ticketTypeID.String())).Err()
}

// Remaining reads the counter. ok is false when it has not been seeded.
func (g *StockGuard) Remaining(ctx context.Context, ticketTypeID uuid.UUID) (n int, ok bool, err error) {
	if g == nil {
		return 0, false, nil
	}
	n, err = g.client.Get(ctx, constants.BuildTicketStockKey(ticketTypeID.String())).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// PreloadScripts loads the Lua scripts so the first purchase avoids a NOSCRIPT round trip.
func (g *StockGuard) PreloadScripts(ctx context.Context) error {
	if g == nil {
		return nil
	}
	if err := reserveScript.Load(ctx, g.client).Err(); err != nil {
		return fmt.Errorf("failed to load reserve script: %w", err)
	}
	if err := releaseScript.Load(ctx, g.client).Err(); err != nil {
		return fmt.Errorf("failed to load release script: %w", err)
	}
	return nil
}
