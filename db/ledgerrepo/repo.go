// Package ledgerrepo is the Redis implementation of the ingredient
// ledger. Each ingredient is one hash with total and reserved fields;
// all mutation goes through atomic hash increments or the reserve
// script.
package ledgerrepo

import (
	"context"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/BrekotkinaKarina/coffee-track/core"
	"github.com/BrekotkinaKarina/coffee-track/core/inventory"
	"github.com/BrekotkinaKarina/coffee-track/core/menu"
)

const keyPrefix = "ingredient:"

// reserveScript checks headroom for every ingredient, then applies all
// increments. Running as a single script makes check-then-reserve
// atomic across concurrent orders competing for the same ingredients.
// Returns {0, 0} on success, or {i, available} for the first
// constraining ingredient (1-based).
var reserveScript = redis.NewScript(`
for i = 1, #KEYS do
	local total = tonumber(redis.call("HGET", KEYS[i], "total") or 0)
	local reserved = tonumber(redis.call("HGET", KEYS[i], "reserved") or 0)
	if total - reserved < tonumber(ARGV[i]) then
		return {i, total - reserved}
	end
end
for i = 1, #KEYS do
	redis.call("HINCRBY", KEYS[i], "reserved", ARGV[i])
end
return {0, 0}
`)

type redisRepo struct {
	client *redis.Client
}

func NewRedisRepo(client *redis.Client) *redisRepo {
	return &redisRepo{client: client}
}

func key(ingredient menu.Ingredient) string {
	return keyPrefix + string(ingredient)
}

// EnsureInitialized sets both fields only when absent, so a concurrent
// caller can never reset an existing record.
func (r *redisRepo) EnsureInitialized(ctx context.Context, ingredient menu.Ingredient, total int64) error {
	pipe := r.client.TxPipeline()
	pipe.HSetNX(ctx, key(ingredient), "total", total)
	pipe.HSetNX(ctx, key(ingredient), "reserved", 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WithMessage(err, "failed to initialize ingredient record")
	}
	return nil
}

func (r *redisRepo) GetLevels(ctx context.Context, ingredient menu.Ingredient) (inventory.StockLevel, error) {
	vals, err := r.client.HMGet(ctx, key(ingredient), "total", "reserved").Result()
	if err != nil {
		return inventory.StockLevel{}, errors.WithMessage(err, "failed to read ingredient record")
	}
	if vals[0] == nil || vals[1] == nil {
		return inventory.StockLevel{}, core.ErrNotFound
	}

	total, err := parseField(vals[0])
	if err != nil {
		return inventory.StockLevel{}, err
	}
	reserved, err := parseField(vals[1])
	if err != nil {
		return inventory.StockLevel{}, err
	}

	return inventory.StockLevel{Ingredient: ingredient, Total: total, Reserved: reserved}, nil
}

func (r *redisRepo) AdjustReserved(ctx context.Context, ingredient menu.Ingredient, delta int64) error {
	if err := r.client.HIncrBy(ctx, key(ingredient), "reserved", delta).Err(); err != nil {
		return errors.WithMessage(err, "failed to adjust reserved amount")
	}
	return nil
}

func (r *redisRepo) ReserveIfAvailable(ctx context.Context, usage map[menu.Ingredient]int64) (*inventory.Shortage, error) {
	ingredients := make([]menu.Ingredient, 0, len(usage))
	for ingredient := range usage {
		ingredients = append(ingredients, ingredient)
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i] < ingredients[j] })

	keys := make([]string, len(ingredients))
	amounts := make([]interface{}, len(ingredients))
	for i, ingredient := range ingredients {
		keys[i] = key(ingredient)
		amounts[i] = usage[ingredient]
	}

	res, err := reserveScript.Run(ctx, r.client, keys, amounts...).Result()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to run reserve script")
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return nil, errors.New("unexpected reserve script result")
	}
	idx, ok := vals[0].(int64)
	if !ok {
		return nil, errors.New("unexpected reserve script result")
	}
	if idx == 0 {
		return nil, nil
	}

	available, _ := vals[1].(int64)
	ingredient := ingredients[idx-1]
	return &inventory.Shortage{
		Ingredient: ingredient,
		Required:   usage[ingredient],
		Available:  available,
	}, nil
}

func (r *redisRepo) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.WithMessage(err, "failed to ping redis")
	}
	return nil
}

func parseField(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("unexpected ingredient field type")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.WithMessage(err, "failed to parse ingredient field")
	}
	return n, nil
}
