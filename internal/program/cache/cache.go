// Package cache fronts the program store with a Redis snapshot cache. The
// validation pipeline reads the parent program on every enrollment write,
// so a short TTL removes most of that read traffic without letting the
// pipeline act on stale budget or date parameters for long.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sppg/internal/enrollment/ports"
	"sppg/internal/program/models"
	id "sppg/pkg/domain"
	dErrors "sppg/pkg/domain-errors"
)

// ProgramCache implements ports.ProgramReader over an inner reader.
// A nil Redis client turns it into a passthrough.
type ProgramCache struct {
	inner  ports.ProgramReader
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New constructs the cache. client may be nil (cache disabled).
func New(inner ports.ProgramReader, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProgramCache {
	return &ProgramCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(tenantID id.TenantID, programID id.ProgramID) string {
	return fmt.Sprintf("program:%s:%s", tenantID, programID)
}

// GetProgram serves a cached snapshot when present, falling back to the
// inner reader and populating the cache on miss. Cache failures degrade
// to the inner reader; they never fail the read.
func (c *ProgramCache) GetProgram(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) (*models.Program, error) {
	if c.client == nil {
		return c.inner.GetProgram(ctx, tenantID, programID)
	}

	key := cacheKey(tenantID, programID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var program models.Program
		if err := json.Unmarshal(raw, &program); err == nil {
			return &program, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = c.client.Del(ctx, key).Err()
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "program cache read failed, falling back to store",
			"program_id", programID,
			"error", err,
		)
	}

	program, err := c.inner.GetProgram(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}

	if body, merr := json.Marshal(program); merr == nil {
		if serr := c.client.Set(ctx, key, body, c.ttl).Err(); serr != nil {
			c.logger.WarnContext(ctx, "program cache write failed",
				"program_id", programID,
				"error", serr,
			)
		}
	}
	return program, nil
}

// Invalidate drops the cached snapshot after a program update so the next
// validation run sees the new parameters.
func (c *ProgramCache) Invalidate(ctx context.Context, tenantID id.TenantID, programID id.ProgramID) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, cacheKey(tenantID, programID)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "invalidate program cache")
	}
	return nil
}
