// Package cache はリスティング検索結果のキャッシュです。
// キャッシュの失敗は検索結果に影響させず、ログに残すだけにします。
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/common/tracing"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

const (
	searchKeyPrefix = "listings:search:"
	scanCount       = 100
)

type ListingCache interface {
	GetSearch(ctx context.Context, filter model.ListingFilter) ([]model.ListingSummary, bool)
	SetSearch(ctx context.Context, filter model.ListingFilter, listings []model.ListingSummary)
	Invalidate(ctx context.Context)
}

// NewRedisClient はRedisに接続し、疎通を確認したクライアントを返します
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

// searchKey は検索条件からキャッシュのキーを生成します
func searchKey(filter model.ListingFilter) string {
	sum := sha256.Sum256([]byte(filter.CacheKey()))
	return searchKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisListingCache) GetSearch(ctx context.Context, filter model.ListingFilter) ([]model.ListingSummary, bool) {
	ctx, span := tracing.Start(ctx, "ListingCache.GetSearch")
	defer span.End(nil)

	key := searchKey(filter)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis GET error for key %s: %v", key, err)
		}
		return nil, false
	}

	var listings []model.ListingSummary
	if err := json.Unmarshal(data, &listings); err != nil {
		log.Printf("Failed to decode cached search for key %s: %v", key, err)
		return nil, false
	}

	span.AddMetadata("cache_hit", key)
	return listings, true
}

func (c *RedisListingCache) SetSearch(ctx context.Context, filter model.ListingFilter, listings []model.ListingSummary) {
	ctx, span := tracing.Start(ctx, "ListingCache.SetSearch")
	defer span.End(nil)

	data, err := json.Marshal(listings)
	if err != nil {
		log.Printf("Failed to encode search result: %v", err)
		return
	}

	key := searchKey(filter)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache search result for key %s: %v", key, err)
	}
}

// Invalidate は全ての検索結果のキャッシュを削除します
func (c *RedisListingCache) Invalidate(ctx context.Context) {
	ctx, span := tracing.Start(ctx, "ListingCache.Invalidate")
	defer span.End(nil)

	pattern := searchKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		current, next, err := c.client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern '%s': %v", pattern, err)
			return
		}
		keys = append(keys, current...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d search cache keys: %v", len(keys), err)
		return
	}

	log.WithField("keys", len(keys)).Info("search cache invalidated")
}

// NopListingCache はRedisを使わない場合のキャッシュです
type NopListingCache struct{}

func (NopListingCache) GetSearch(context.Context, model.ListingFilter) ([]model.ListingSummary, bool) {
	return nil, false
}

func (NopListingCache) SetSearch(context.Context, model.ListingFilter, []model.ListingSummary) {}

func (NopListingCache) Invalidate(context.Context) {}
