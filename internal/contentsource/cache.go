package contentsource

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultCacheTTL       = 5 * time.Minute
	DefaultCacheKeyPrefix = "post-gateway:article:"
)

// CachedSource envolve um Source com cache read-through no Redis.
// Apenas artigos encontrados são armazenados; falhas do Redis caem para o
// Source envolvido sem virar erro.
type CachedSource struct {
	next      Source
	rdb       redis.Cmdable
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewCachedSource cria o cache sobre next
func NewCachedSource(next Source, rdb redis.Cmdable, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		next:      next,
		rdb:       rdb,
		ttl:       ttl,
		keyPrefix: DefaultCacheKeyPrefix,
		logger:    logger,
	}
}

// NewRedisClient cria o cliente Redis a partir de uma URL redis://
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// FetchByPath consulta o cache antes do Source envolvido
func (c *CachedSource) FetchByPath(ctx context.Context, path string) (*models.Article, error) {
	key := c.keyPrefix + path

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var article models.Article
		if jsonErr := json.Unmarshal(raw, &article); jsonErr == nil {
			return &article, nil
		}
		c.logger.Warn("entrada de cache inválida", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("falha ao ler cache", zap.String("key", key), zap.Error(err))
	}

	article, err := c.next.FetchByPath(ctx, path)
	if err != nil || article == nil {
		return article, err
	}

	data, err := json.Marshal(article)
	if err != nil {
		return article, nil
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("falha ao gravar cache", zap.String("key", key), zap.Error(err))
	}

	return article, nil
}

// Ping verifica o Source envolvido; o Redis é opcional e não entra na conta
func (c *CachedSource) Ping(ctx context.Context) error {
	if p, ok := c.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
