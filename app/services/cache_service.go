package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
)

type memoryEntry struct {
	result   *models.AddressResult
	storedAt time.Time
}

// MemoryCacheService cache in-memory có TTL, dùng khi không cấu hình Redis/MongoDB
type MemoryCacheService struct {
	entries map[string]memoryEntry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCacheService tạo mới MemoryCacheService; ttl <= 0 nghĩa là không hết hạn
func NewMemoryCacheService(ttl time.Duration) *MemoryCacheService {
	return &MemoryCacheService{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get lấy kết quả từ cache, entry hết hạn coi như miss
func (cs *MemoryCacheService) Get(ctx context.Context, key string) (*models.AddressResult, bool, error) {
	cs.mu.RLock()
	entry, exists := cs.entries[key]
	cs.mu.RUnlock()

	if !exists || cs.isExpired(entry) {
		cs.misses.Add(1)
		return nil, false, nil
	}
	cs.hits.Add(1)
	return entry.result, true, nil
}

// Set lưu kết quả vào cache
func (cs *MemoryCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.entries[key] = memoryEntry{result: result, storedAt: cs.now()}
	return nil
}

// Delete xóa item khỏi cache
func (cs *MemoryCacheService) Delete(ctx context.Context, key string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.entries, key)
	return nil
}

// Clear xóa toàn bộ cache và reset thống kê
func (cs *MemoryCacheService) Clear(ctx context.Context) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.entries = make(map[string]memoryEntry)
	cs.hits.Store(0)
	cs.misses.Store(0)
	return nil
}

// InvalidateByVersion xóa entry có DictionaryVersion khác phiên bản hiện tại
func (cs *MemoryCacheService) InvalidateByVersion(ctx context.Context, currentVersion string) (int64, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	var deleted int64
	for key, entry := range cs.entries {
		if entry.result.DictionaryVersion != currentVersion {
			delete(cs.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Size lấy kích thước cache
func (cs *MemoryCacheService) Size() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return len(cs.entries)
}

// GetStats lấy thống kê cache
func (cs *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := cs.hits.Load(), cs.misses.Load()
	return &CacheStats{
		Backend:    "memory",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(cs.Size()),
	}, nil
}

// CleanupExpired xóa các item hết hạn, trả về số item đã xóa
func (cs *MemoryCacheService) CleanupExpired() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	removed := 0
	for key, entry := range cs.entries {
		if cs.isExpired(entry) {
			delete(cs.entries, key)
			removed++
		}
	}
	return removed
}

func (cs *MemoryCacheService) isExpired(entry memoryEntry) bool {
	return cs.ttl > 0 && cs.now().Sub(entry.storedAt) > cs.ttl
}

// Exists kiểm tra key có tồn tại và còn hạn không
func (cs *MemoryCacheService) Exists(ctx context.Context, key string) (bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.entries[key]
	return exists && !cs.isExpired(entry), nil
}

// GetTTL lấy TTL còn lại của key
func (cs *MemoryCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.entries[key]
	if !exists || cs.ttl <= 0 {
		return 0, nil
	}

	remaining := cs.ttl - cs.now().Sub(entry.storedAt)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// StartCleanupWorker dọn entry hết hạn định kỳ cho tới khi ctx bị hủy
func (cs *MemoryCacheService) StartCleanupWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cs.CleanupExpired()
			}
		}
	}()
}

// Close không cần thiết cho in-memory cache
func (cs *MemoryCacheService) Close() error {
	return nil
}
