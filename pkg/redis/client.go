package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyejinmoon/babysteps-backend/pkg/config"
	"github.com/hyejinmoon/babysteps-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace    = "bs"
	clipboardPrefix = "clipboard"
)

// ErrNotFound is returned when a key has no value (or it expired).
var ErrNotFound = errors.New("redis: key not found")

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Client wraps the redis connection helpers needed by the backend.
type Client struct {
	store cmdable
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// ClipboardStore exposes the minimal surface used by the plan clipboard.
type ClipboardStore interface {
	SetClipboard(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error
	GetClipboard(ctx context.Context, sessionID string) ([]byte, error)
	DeleteClipboard(ctx context.Context, sessionID string) error
}

// New bootstraps a Redis client with pooling/timeouts and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis connection established")
	}
	return &Client{store: raw, raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.DB == 0 {
		opts.DB = cfg.DB
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

// Close releases the underlying pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// ClipboardKey builds the namespaced key for a session's plan clipboard.
func ClipboardKey(sessionID string) string {
	return strings.Join([]string{keyNamespace, clipboardPrefix, sessionID}, ":")
}

// SetClipboard stores the clipboard payload with a TTL.
func (c *Client) SetClipboard(ctx context.Context, sessionID string, payload []byte, ttl time.Duration) error {
	return c.store.Set(ctx, ClipboardKey(sessionID), payload, ttl).Err()
}

// GetClipboard loads the clipboard payload, returning ErrNotFound when the
// session has nothing copied.
func (c *Client) GetClipboard(ctx context.Context, sessionID string) ([]byte, error) {
	raw, err := c.store.Get(ctx, ClipboardKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

// DeleteClipboard clears the session's clipboard.
func (c *Client) DeleteClipboard(ctx context.Context, sessionID string) error {
	return c.store.Del(ctx, ClipboardKey(sessionID)).Err()
}
