package marketdata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/moonshill-backend/internal/platform/logger"
)

type cached struct {
	next   Source
	rdb    goredis.UniversalClient
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

// Cached memoizes snapshots in redis for ttl. Redis errors fall through to
// the wrapped source.
func Cached(next Source, rdb goredis.UniversalClient, ttl time.Duration, log *logger.Logger) Source {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &cached{next: next, rdb: rdb, ttl: ttl, prefix: "moonshill:market:", log: log.With("service", "MarketDataCache")}
}

func (c *cached) key(q Query) string {
	kws := make([]string, 0, len(q.Keywords))
	for _, k := range q.Keywords {
		kws = append(kws, strings.ToLower(strings.TrimSpace(k)))
	}
	sum := sha256.Sum256([]byte(strings.ToLower(q.Chain) + "|" + strings.ToLower(q.TokenAddress) + "|" + strings.Join(kws, ",")))
	return c.prefix + hex.EncodeToString(sum[:12])
}

func (c *cached) Context(ctx context.Context, q Query) (Snapshot, error) {
	key := c.key(q)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var snap Snapshot
		if uErr := json.Unmarshal(raw, &snap); uErr == nil {
			return snap, nil
		}
		c.log.Warn("Discarding unreadable cached snapshot", "key", key)
	case !errors.Is(err, goredis.Nil):
		c.log.Warn("Market cache read failed", "error", err)
	}

	snap, err := c.next.Context(ctx, q)
	if err != nil {
		return snap, err
	}
	if buf, mErr := json.Marshal(snap); mErr == nil {
		if sErr := c.rdb.Set(ctx, key, buf, c.ttl).Err(); sErr != nil {
			c.log.Warn("Market cache write failed", "error", sErr)
		}
	}
	return snap, nil
}
