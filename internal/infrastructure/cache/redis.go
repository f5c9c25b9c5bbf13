package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"photo-manager-api/config"
	"photo-manager-api/internal/domain/photo"
	"photo-manager-api/internal/domain/user"
)

// NewRedisClient returns nil when REDIS_ADDR is not configured or the server
// does not answer; callers then fall back to Noop.
func NewRedisClient(ctx context.Context, logger *zap.Logger, cfg config.Redis) *redis.Client {
	if cfg.Addr == "" {
		logger.Info("redis disabled, photo cache off")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		logger.Warn("redis unavailable, photo cache off", zap.Error(err))
		return nil
	}

	logger.Info("redis connected successfully", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	return client
}

// versionTTL outlives any in-flight read so a bumped version is not lost.
const versionTTL = 24 * time.Hour

type PhotoCache struct {
	client redis.Cmdable
	logger *zap.Logger
	ttl    time.Duration
	prefix string
}

func NewPhotoCache(client redis.Cmdable, logger *zap.Logger, cfg config.Redis) *PhotoCache {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "photomanager"
	}
	return &PhotoCache{
		client: client,
		logger: logger,
		ttl:    cfg.TTL,
		prefix: prefix,
	}
}

func (c *PhotoCache) key(uuid photo.UUID) string {
	return strings.Join([]string{c.prefix, "photo", uuid.String()}, ":")
}

func (c *PhotoCache) versionKey(uuid photo.UUID) string {
	return c.key(uuid) + ":version"
}

// cached mirrors photo.Photo with explicit json names so entries stay
// readable from redis-cli.
type cached struct {
	ID             uint64    `json:"id"`
	UUID           string    `json:"uuid"`
	UserID         uint64    `json:"user_id"`
	URL            string    `json:"url"`
	RemotePublicID *string   `json:"remote_public_id,omitempty"`
	IsMain         bool      `json:"is_main"`
	CreatedAt      time.Time `json:"created_at"`
}

func encode(p *photo.Photo) ([]byte, error) {
	return json.Marshal(cached{
		ID:             uint64(p.ID),
		UUID:           p.UUID.String(),
		UserID:         uint64(p.UserID),
		URL:            p.URL,
		RemotePublicID: p.RemotePublicID,
		IsMain:         p.IsMain,
		CreatedAt:      p.CreatedAt,
	})
}

func decode(b []byte) (*photo.Photo, error) {
	var c cached
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	p := &photo.Photo{
		ID:             photo.ID(c.ID),
		URL:            c.URL,
		RemotePublicID: c.RemotePublicID,
		UserID:         user.ID(c.UserID),
		IsMain:         c.IsMain,
		CreatedAt:      c.CreatedAt,
	}
	if err := p.UUID.UnmarshalText([]byte(c.UUID)); err != nil {
		return nil, fmt.Errorf("decode cached photo uuid: %w", err)
	}
	return p, nil
}

func (c *PhotoCache) Get(ctx context.Context, uuid photo.UUID) (*photo.Photo, bool) {
	b, err := c.client.Get(ctx, c.key(uuid)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("photo cache get failed", zap.Error(err), zap.Stringer("photo_uuid", uuid))
		}
		return nil, false
	}

	p, err := decode(b)
	if err != nil {
		c.logger.Warn("photo cache entry corrupt", zap.Error(err), zap.Stringer("photo_uuid", uuid))
		return nil, false
	}

	return p, true
}

// setIfVersion writes the entry only while the version key still holds the
// value read before the repository fetch.
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2]) or '0'
if v ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

func (c *PhotoCache) Version(ctx context.Context, uuid photo.UUID) (int64, bool) {
	v, err := c.client.Get(ctx, c.versionKey(uuid)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		c.logger.Warn("photo cache version failed", zap.Error(err), zap.Stringer("photo_uuid", uuid))
		return 0, false
	}
	return v, true
}

func (c *PhotoCache) Set(ctx context.Context, p *photo.Photo, version int64) {
	b, err := encode(p)
	if err != nil {
		return
	}

	keys := []string{c.key(p.UUID), c.versionKey(p.UUID)}
	err = setIfVersion.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), b, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.logger.Warn("photo cache set failed", zap.Error(err), zap.Stringer("photo_uuid", p.UUID))
	}
}

func (c *PhotoCache) Invalidate(ctx context.Context, uuids ...photo.UUID) {
	if len(uuids) == 0 {
		return
	}
	keys := make([]string, len(uuids))
	for i, u := range uuids {
		keys[i] = c.key(u)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, u := range uuids {
			pipe.Incr(ctx, c.versionKey(u))
			pipe.Expire(ctx, c.versionKey(u), versionTTL)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("photo cache invalidate failed", zap.Error(err), zap.Strings("keys", keys))
	}
}

// Noop is used when redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, photo.UUID) (*photo.Photo, bool) { return nil, false }
func (Noop) Version(context.Context, photo.UUID) (int64, bool)    { return 0, false }
func (Noop) Set(context.Context, *photo.Photo, int64)             {}
func (Noop) Invalidate(context.Context, ...photo.UUID)            {}
