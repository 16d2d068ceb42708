package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisScanCount = 500

// RedisCacheService cache service sử dụng Redis, value là JSON của AddressResult
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService tạo mới Redis cache service và ping thử kết nối
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: "addr_parser:",
		ttl:    ttl,
	}, nil
}

func (rcs *RedisCacheService) key(key string) string { return rcs.prefix + key }

// Get lấy kết quả từ cache
func (rcs *RedisCacheService) Get(ctx context.Context, key string) (*models.AddressResult, bool, error) {
	val, err := rcs.client.Get(ctx, rcs.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		rcs.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", key))
		return nil, false, err
	}

	var result models.AddressResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, false, fmt.Errorf("lỗi unmarshal cache data: %w", err)
	}

	rcs.hits.Add(1)
	rcs.logger.Debug("Redis cache hit", zap.String("key", key))
	return &result, true, nil
}

// Set lưu kết quả vào cache với TTL đã cấu hình
func (rcs *RedisCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}

	if err := rcs.client.Set(ctx, rcs.key(key), data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

// Delete xóa key khỏi cache
func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	return rcs.client.Del(ctx, rcs.key(key)).Err()
}

// Clear xóa toàn bộ key có prefix của service
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	deleted, err := rcs.deleteMatching(ctx, rcs.prefix+"*", func(string) bool { return true })
	if err != nil {
		return err
	}
	rcs.hits.Store(0)
	rcs.misses.Store(0)

	rcs.logger.Info("Đã clear Redis cache", zap.Int64("keys_deleted", deleted))
	return nil
}

// InvalidateByVersion xóa key thuộc phiên bản dictionary khác (phiên bản là phần đầu của key)
func (rcs *RedisCacheService) InvalidateByVersion(ctx context.Context, currentVersion string) (int64, error) {
	keep := rcs.key(CacheKey(currentVersion, ""))
	deleted, err := rcs.deleteMatching(ctx, rcs.prefix+"*", func(k string) bool {
		return !strings.HasPrefix(k, keep)
	})
	if err != nil {
		return deleted, err
	}

	rcs.logger.Info("Đã invalidate Redis cache",
		zap.String("dictionary_version", currentVersion),
		zap.Int64("keys_deleted", deleted))
	return deleted, nil
}

func (rcs *RedisCacheService) deleteMatching(ctx context.Context, pattern string, match func(string) bool) (int64, error) {
	var (
		batch   []string
		deleted int64
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := rcs.client.Del(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("lỗi xóa keys: %w", err)
		}
		deleted += n
		batch = batch[:0]
		return nil
	}

	iter := rcs.client.Scan(ctx, 0, pattern, redisScanCount).Iterator()
	for iter.Next(ctx) {
		if k := iter.Val(); match(k) {
			batch = append(batch, k)
		}
		if len(batch) >= redisScanCount {
			if err := flush(); err != nil {
				return deleted, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("lỗi scan keys: %w", err)
	}
	return deleted, flush()
}

// GetStats lấy thống kê cache
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	var total int64
	iter := rcs.client.Scan(ctx, 0, rcs.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		total++
	}
	if err := iter.Err(); err != nil {
		rcs.logger.Warn("Không thể đếm key Redis", zap.Error(err))
	}

	hits, misses := rcs.hits.Load(), rcs.misses.Load()
	return &CacheStats{
		Backend:    "redis",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: total,
	}, nil
}

// Exists kiểm tra key có tồn tại không
func (rcs *RedisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rcs.client.Exists(ctx, rcs.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetTTL lấy TTL của key
func (rcs *RedisCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return rcs.client.TTL(ctx, rcs.key(key)).Result()
}

// Close đóng kết nối Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
