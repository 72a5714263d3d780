// Package cache invalidates rendered dashboard views after a mutation.
// Invalidation is strictly best-effort: the mutation has already committed
// by the time it runs, so failures are logged and swallowed.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/acmeadmin/internal/logging"
)

// markerTTL bounds how long a staleness marker survives if nothing
// re-renders the view.
const markerTTL = 24 * time.Hour

// Revalidator marks a rendered view path as stale.
type Revalidator interface {
	Revalidate(ctx context.Context, viewPath string)
}

// RedisRevalidator writes a staleness marker to Redis and notifies the
// front-end revalidate webhook, when one is configured.
type RedisRevalidator struct {
	rdb        redis.Cmdable
	client     *resty.Client
	webhookURL string
	logger     logging.Logger
}

func NewRedisRevalidator(rdb redis.Cmdable, webhookURL string, logger logging.Logger) *RedisRevalidator {
	return &RedisRevalidator{
		rdb:        rdb,
		client:     resty.New().SetTimeout(5 * time.Second),
		webhookURL: webhookURL,
		logger:     logger,
	}
}

func markerKey(viewPath string) string {
	return fmt.Sprintf("stale:%s", viewPath)
}

// Revalidate records that viewPath must be re-rendered. The Redis marker is
// written first so a webhook failure cannot lose the staleness signal.
func (r *RedisRevalidator) Revalidate(ctx context.Context, viewPath string) {
	if err := r.rdb.Set(ctx, markerKey(viewPath), time.Now().UnixNano(), markerTTL).Err(); err != nil {
		r.logger.Warn(ctx, "failed to write staleness marker", "path", viewPath, "error", err)
	}

	if r.webhookURL == "" {
		return
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"path": viewPath}).
		Post(r.webhookURL)
	if err != nil {
		r.logger.Warn(ctx, "revalidate webhook failed", "path", viewPath, "error", err)
		return
	}
	if resp.IsError() {
		r.logger.Warn(ctx, "revalidate webhook returned error status", "path", viewPath, "status", resp.StatusCode())
	}
}

// IsStale reports whether a staleness marker exists for viewPath. The
// rendering layer checks this before serving a cached view.
func (r *RedisRevalidator) IsStale(ctx context.Context, viewPath string) (bool, error) {
	n, err := r.rdb.Exists(ctx, markerKey(viewPath)).Result()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

// ClearStale removes the staleness marker after a view has been re-rendered.
func (r *RedisRevalidator) ClearStale(ctx context.Context, viewPath string) error {
	if err := r.rdb.Del(ctx, markerKey(viewPath)).Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
