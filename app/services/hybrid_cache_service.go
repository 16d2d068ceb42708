package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"go.uber.org/zap"
)

// HybridCacheService ghép hai tầng cache: L1 nhanh (Redis) và L2 persistent (MongoDB)
type HybridCacheService struct {
	l1     ICacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(l1, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get lấy từ L1 trước, trượt thì lấy L2 và đồng bộ ngược lên L1
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.AddressResult, bool, error) {
	result, found, err := hcs.l1.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("Lỗi cache L1, fallback L2", zap.Error(err))
	} else if found {
		return result, true, nil
	}

	result, found, err = hcs.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	if err := hcs.l1.Set(ctx, key, result); err != nil {
		hcs.logger.Warn("Lỗi sync L2->L1", zap.Error(err), zap.String("key", key))
	}
	return result, true, nil
}

// Set lưu vào cả hai tầng song song
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	return parallel(
		func() error { return hcs.l1.Set(ctx, key, result) },
		func() error { return hcs.l2.Set(ctx, key, result) },
	)
}

// Delete xóa key khỏi cả hai tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return parallel(
		func() error { return hcs.l1.Delete(ctx, key) },
		func() error { return hcs.l2.Delete(ctx, key) },
	)
}

// Clear xóa toàn bộ cả hai tầng
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	err := parallel(
		func() error { return hcs.l1.Clear(ctx) },
		func() error { return hcs.l2.Clear(ctx) },
	)
	if err == nil {
		hcs.logger.Info("Đã clear hybrid cache")
	}
	return err
}

// InvalidateByVersion invalidate cả hai tầng, trả về tổng số entry đã xóa
func (hcs *HybridCacheService) InvalidateByVersion(ctx context.Context, currentVersion string) (int64, error) {
	var n1, n2 int64
	err := parallel(
		func() (err error) {
			n1, err = hcs.l1.InvalidateByVersion(ctx, currentVersion)
			return err
		},
		func() (err error) {
			n2, err = hcs.l2.InvalidateByVersion(ctx, currentVersion)
			return err
		},
	)
	return n1 + n2, err
}

// GetStats cộng dồn thống kê của hai tầng; một tầng lỗi thì dùng tầng còn lại
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	s1, err1 := hcs.l1.GetStats(ctx)
	s2, err2 := hcs.l2.GetStats(ctx)

	switch {
	case err1 != nil && err2 != nil:
		return nil, fmt.Errorf("cả hai tầng cache đều lỗi: %v, %v", err1, err2)
	case err1 != nil:
		return s2, nil
	case err2 != nil:
		return s1, nil
	}

	// L2 chỉ được hỏi khi L1 trượt nên hit của hệ là hit L1 + hit L2, miss là miss L2
	hits := s1.TotalHits + s2.TotalHits
	return &CacheStats{
		Backend:    "hybrid",
		HitRate:    hitRate(hits, s2.TotalMiss),
		TotalHits:  hits,
		TotalMiss:  s2.TotalMiss,
		TotalItems: s2.TotalItems,
	}, nil
}

// Exists kiểm tra L1 trước rồi tới L2
func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.l1.Exists(ctx, key)
	if err != nil {
		hcs.logger.Warn("Lỗi check exists L1, fallback L2", zap.Error(err))
	} else if exists {
		return true, nil
	}
	return hcs.l2.Exists(ctx, key)
}

// GetTTL lấy TTL từ L1
func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.l1.GetTTL(ctx, key)
}

// Close đóng cả hai tầng
func (hcs *HybridCacheService) Close() error {
	return parallel(hcs.l1.Close, hcs.l2.Close)
}
