package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"petvet/internal/domain/directory"
	"petvet/internal/platform/config"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "petvet:directory:zip:"

// NewClient arma el cliente desde config y hace ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}

// ListingCache implementa directory.Cache. Guarda listados sin marcar (JSON) por ZIP.
type ListingCache struct {
	client *redis.Client
}

func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

func key(zip string) string { return keyPrefix + zip }

func (c *ListingCache) Get(ctx context.Context, zip string) ([]directory.Listing, bool, error) {
	b, err := c.client.Get(ctx, key(zip)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var out []directory.Listing
	if err := json.Unmarshal(b, &out); err != nil {
		// Entrada corrupta: se trata como miss y se pisa en el próximo Set.
		return nil, false, nil
	}
	return out, true, nil
}

func (c *ListingCache) Set(ctx context.Context, zip string, listings []directory.Listing, ttl time.Duration) error {
	if listings == nil {
		listings = []directory.Listing{}
	}
	b, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key(zip), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
