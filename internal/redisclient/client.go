package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quote-service/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Namespace derives a stable key prefix for a store location.
// The location itself may hold credentials and never appears in a key.
func Namespace(location string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(location)).String()
}

func bomKey(namespace string, productID int64) string {
	return fmt.Sprintf("bom:%s:%d", namespace, productID)
}

// GetBOMs reads cached BOM rows for products in one round trip.
// Products without a cache entry are returned in missing.
func (c *Client) GetBOMs(ctx context.Context, namespace string, productIDs []int64) (map[int64][]models.BOMLine, []int64, error) {
	hits := make(map[int64][]models.BOMLine, len(productIDs))
	if len(productIDs) == 0 {
		return hits, nil, nil
	}

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = bomKey(namespace, id)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("bom cache read failed: %w", err)
	}

	var missing []int64
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			missing = append(missing, productIDs[i])
			continue
		}

		lines := []models.BOMLine{}
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			missing = append(missing, productIDs[i])
			continue
		}
		hits[productIDs[i]] = lines
	}

	return hits, missing, nil
}

// SetBOMs caches BOM rows per product with the client TTL
func (c *Client) SetBOMs(ctx context.Context, namespace string, bom map[int64][]models.BOMLine) error {
	if len(bom) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for productID, lines := range bom {
		if lines == nil {
			lines = []models.BOMLine{}
		}
		data, err := json.Marshal(lines)
		if err != nil {
			return fmt.Errorf("failed to marshal bom: %w", err)
		}
		pipe.Set(ctx, bomKey(namespace, productID), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("bom cache write failed: %w", err)
	}
	return nil
}

// InvalidateBOM drops the cached BOM of a product
func (c *Client) InvalidateBOM(ctx context.Context, namespace string, productID int64) error {
	return c.rdb.Del(ctx, bomKey(namespace, productID)).Err()
}
