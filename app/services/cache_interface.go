package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
)

// CacheStats thống kê cache
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService interface định nghĩa các method cần thiết cho cache kết quả parse.
// Key do AddressService sinh bằng CacheKey.
type ICacheService interface {
	// Get lấy kết quả từ cache
	Get(ctx context.Context, key string) (*models.AddressResult, bool, error)

	// Set lưu kết quả vào cache
	Set(ctx context.Context, key string, result *models.AddressResult) error

	// Delete xóa kết quả khỏi cache
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// InvalidateByVersion xóa các kết quả sinh từ dictionary khác phiên bản hiện tại,
	// trả về số entry đã xóa
	InvalidateByVersion(ctx context.Context, currentVersion string) (int64, error)

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists kiểm tra key có tồn tại không
	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL lấy TTL còn lại của key
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}

// CacheKey ghép phiên bản dictionary với fingerprint của input
func CacheKey(version, fingerprint string) string {
	return version + ":" + fingerprint
}

// hitRate tỉ lệ hit, 0 khi chưa có truy cập
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// parallel chạy các hàm song song và gom toàn bộ lỗi
func parallel(fns ...func() error) error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			errs[i] = fn()
		}(i, fn)
	}
	wg.Wait()
	return errors.Join(errs...)
}
