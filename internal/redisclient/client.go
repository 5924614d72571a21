package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"swizzle-client/internal/models"
	"swizzle-client/internal/util"

	"github.com/go-redis/redis/v8"
)

const menuKey = "menu:snapshot"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity.
func NewClient(addr, password string, db int) (*Client, error) {
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

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetMenu returns the cached menu snapshot, or (nil, nil) on a miss. A
// decode failure is treated as a miss so a corrupt entry heals itself on
// the next SetMenu.
func (c *Client) GetMenu(ctx context.Context) (*models.Menu, error) {
	data, err := c.rdb.Get(ctx, menuKey).Bytes()
	if err == redis.Nil {
		util.MenuCacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		util.MenuCacheHitsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("menu cache read failed: %w", err)
	}

	var menu models.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		util.MenuCacheHitsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}

	util.MenuCacheHitsTotal.WithLabelValues("hit").Inc()
	return &menu, nil
}

// SetMenu stores a menu snapshot with the given TTL.
func (c *Client) SetMenu(ctx context.Context, menu *models.Menu, ttl time.Duration) error {
	data, err := json.Marshal(menu)
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	if err := c.rdb.Set(ctx, menuKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("menu cache write failed: %w", err)
	}
	return nil
}

// InvalidateMenu drops the cached snapshot, forcing the next read through
// to the API. Called after any back-office menu edit.
func (c *Client) InvalidateMenu(ctx context.Context) error {
	return c.rdb.Del(ctx, menuKey).Err()
}

// Subscribe opens a pub/sub subscription on the given channel.
func (c *Client) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, channel)
}
