package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/requests"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/responses"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/parser"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyAddress = errors.New("địa chỉ không được để trống")
	ErrJobNotFound  = errors.New("job không tồn tại")
	ErrJobNotDone   = errors.New("job chưa hoàn thành")
)

// batchChunk số địa chỉ xử lý giữa hai lần cập nhật tiến độ job
const batchChunk = 500

// Gazetteer tra cứu đơn vị hành chính theo tên và cấp
type Gazetteer interface {
	Lookup(ctx context.Context, name string, level int) (*models.AdminUnit, error)
}

// JobStatus trạng thái của job
type JobStatus struct {
	JobID              string
	Status             string
	Progress           float64
	Processed          int
	Total              int
	EstimatedRemaining int
	Message            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AddressService service xử lý logic parse địa chỉ
type AddressService struct {
	parser           *parser.AddressParser
	cache            ICacheService
	gazetteer        Gazetteer
	logger           *zap.Logger
	defaultNonAccent bool
	startTime        time.Time
	mu               sync.RWMutex

	// Job management
	jobs       map[string]*JobStatus
	jobResults map[string][]*models.AddressResult

	// thống kê, cùng khóa mu
	processed    int64
	totalElapsed time.Duration
	statusCounts map[string]int64
}

// NewAddressService tạo mới AddressService. cache và gazetteer có thể nil.
func NewAddressService(p *parser.AddressParser, cache ICacheService, gazetteer Gazetteer, defaultNonAccent bool, logger *zap.Logger) *AddressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressService{
		parser:           p,
		cache:            cache,
		gazetteer:        gazetteer,
		logger:           logger,
		defaultNonAccent: defaultNonAccent,
		startTime:        time.Now(),
		jobs:             make(map[string]*JobStatus),
		jobResults:       make(map[string][]*models.AddressResult),
		statusCounts:     make(map[string]int64),
	}
}

// ParseAddress parse một địa chỉ, trả thêm cờ cho biết kết quả lấy từ cache
func (as *AddressService) ParseAddress(ctx context.Context, rawAddress string, options requests.ParseOptions) (*models.AddressResult, bool, error) {
	if strings.TrimSpace(rawAddress) == "" {
		return nil, false, ErrEmptyAddress
	}
	start := time.Now()
	nonAccent := options.NonAccentOr(as.defaultNonAccent)
	useCache := as.cache != nil && options.CacheEnabled()
	key := CacheKey(as.parser.Version(), parser.Fingerprint(rawAddress, nonAccent))

	var (
		result   *models.AddressResult
		cacheHit bool
	)
	if useCache {
		cached, ok, err := as.cache.Get(ctx, key)
		if err != nil {
			as.logger.Warn("Lỗi đọc cache", zap.String("key", key), zap.Error(err))
		}
		if ok {
			result, cacheHit = cached, true
		}
	}

	if result == nil {
		result = as.parser.Parse(rawAddress, nonAccent)
		if useCache {
			if err := as.cache.Set(ctx, key, result); err != nil {
				as.logger.Warn("Lỗi ghi cache", zap.String("key", key), zap.Error(err))
			}
		}
	}

	out := as.finalize(ctx, result, options)
	as.record(out.Status, time.Since(start))

	as.logger.Debug("Parsed address",
		zap.String("raw", rawAddress),
		zap.String("normalized", out.Normalized),
		zap.Float64("confidence", out.Confidence),
		zap.String("status", out.Status),
		zap.Bool("cache_hit", cacheHit))

	return out, cacheHit, nil
}

// finalize áp tùy chọn request lên bản sao của kết quả, không đụng vào bản trong cache
func (as *AddressService) finalize(ctx context.Context, result *models.AddressResult, options requests.ParseOptions) *models.AddressResult {
	out := *result
	out.Components = append([]models.Component(nil), result.Components...)
	if !options.ReturnSolutions {
		out.Solutions = nil
	}
	if options.MinConfidence > 0 && out.Confidence < options.MinConfidence && out.Status != models.StatusUnmatched {
		out.Status = models.StatusNeedsReview
	}
	if options.Enrich {
		as.enrich(ctx, &out)
	}
	return &out
}

// enrich gắn GazetteerID cho các thành phần hành chính tìm thấy trong gazetteer
func (as *AddressService) enrich(ctx context.Context, result *models.AddressResult) {
	if as.gazetteer == nil {
		return
	}
	for i := range result.Components {
		c := &result.Components[i]
		level := models.LevelOf(c.Label)
		if level == 0 {
			continue
		}
		name := c.Canonical
		if name == "" {
			name = c.Value
		}

		unit, err := as.gazetteer.Lookup(ctx, name, level)
		if err != nil {
			as.logger.Warn("Lỗi tra gazetteer", zap.String("name", name), zap.Int("level", level), zap.Error(err))
			continue
		}
		if unit != nil {
			c.GazetteerID = unit.AdminID
		}
	}
}

func (as *AddressService) record(status string, elapsed time.Duration) {
	as.mu.Lock()
	defer as.mu.Unlock()

	as.processed++
	as.totalElapsed += elapsed
	as.statusCounts[status]++
}

// EstimateBatchProcessingTime ước tính thời gian xử lý batch (giây)
func (as *AddressService) EstimateBatchProcessingTime(addressCount int) int {
	as.mu.RLock()
	avg := time.Millisecond
	if as.processed > 0 {
		avg = as.totalElapsed / time.Duration(as.processed)
	}
	as.mu.RUnlock()

	seconds := int((avg * time.Duration(addressCount)).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}

// CreateBatchJob tạo job và xử lý trong background, trả về JobStatus ban đầu
func (as *AddressService) CreateBatchJob(addresses []string, options requests.ParseOptions) *JobStatus {
	now := time.Now()
	job := &JobStatus{
		JobID:              uuid.NewString(),
		Status:             responses.JobStatusPending,
		Total:              len(addresses),
		EstimatedRemaining: as.EstimateBatchProcessingTime(len(addresses)),
		Message:            "Đang chờ xử lý",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	as.mu.Lock()
	as.jobs[job.JobID] = job
	as.mu.Unlock()

	as.logger.Info("Created batch job",
		zap.String("job_id", job.JobID),
		zap.Int("total_addresses", len(addresses)))

	snapshot := *job
	go as.ProcessBatchJob(context.Background(), job.JobID, addresses, options)
	return &snapshot
}

// ProcessBatchJob xử lý job batch theo từng chunk để cập nhật tiến độ
func (as *AddressService) ProcessBatchJob(ctx context.Context, jobID string, addresses []string, options requests.ParseOptions) {
	nonAccent := options.NonAccentOr(as.defaultNonAccent)
	started := time.Now()
	as.updateJob(jobID, func(job *JobStatus) {
		job.Status = responses.JobStatusRunning
		job.Message = "Đang xử lý..."
	})

	results := make([]*models.AddressResult, 0, len(addresses))
	for from := 0; from < len(addresses); from += batchChunk {
		to := from + batchChunk
		if to > len(addresses) {
			to = len(addresses)
		}

		chunkStart := time.Now()
		parsed, err := as.parser.ParseBatch(ctx, addresses[from:to], nonAccent)
		if err != nil {
			as.logger.Error("Batch job failed", zap.String("job_id", jobID), zap.Error(err))
			as.updateJob(jobID, func(job *JobStatus) {
				job.Status = responses.JobStatusFailed
				job.Message = err.Error()
			})
			return
		}

		perItem := time.Since(chunkStart) / time.Duration(len(parsed))
		for _, r := range parsed {
			out := as.finalize(ctx, r, options)
			as.record(out.Status, perItem)
			results = append(results, out)
		}

		processed := len(results)
		elapsed := time.Since(started)
		as.updateJob(jobID, func(job *JobStatus) {
			job.Processed = processed
			job.Progress = float64(processed) / float64(len(addresses))
			remaining := len(addresses) - processed
			job.EstimatedRemaining = int((elapsed / time.Duration(processed) * time.Duration(remaining)).Seconds())
		})
	}

	as.mu.Lock()
	as.jobResults[jobID] = results
	if job, exists := as.jobs[jobID]; exists {
		job.Status = responses.JobStatusDone
		job.Progress = 1
		job.Processed = len(results)
		job.EstimatedRemaining = 0
		job.Message = "Hoàn thành xử lý"
		job.UpdatedAt = time.Now()
	}
	as.mu.Unlock()

	as.logger.Info("Batch job completed",
		zap.String("job_id", jobID),
		zap.Int("total_addresses", len(addresses)),
		zap.Duration("elapsed", time.Since(started)))
}

func (as *AddressService) updateJob(jobID string, fn func(job *JobStatus)) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if job, exists := as.jobs[jobID]; exists {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}

// GetJobStatus lấy bản sao trạng thái job
func (as *AddressService) GetJobStatus(jobID string) (*JobStatus, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	job, exists := as.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// GetJobResults lấy kết quả job đã hoàn thành
func (as *AddressService) GetJobResults(jobID string) ([]*models.AddressResult, error) {
	as.mu.RLock()
	defer as.mu.RUnlock()

	if _, exists := as.jobs[jobID]; !exists {
		return nil, ErrJobNotFound
	}
	results, exists := as.jobResults[jobID]
	if !exists {
		return nil, ErrJobNotDone
	}
	return results, nil
}

// PruneJobs xóa các job đã kết thúc quá maxAge, trả về số job bị xóa
func (as *AddressService) PruneJobs(maxAge time.Duration) int {
	as.mu.Lock()
	defer as.mu.Unlock()

	pruned := 0
	cutoff := time.Now().Add(-maxAge)
	for id, job := range as.jobs {
		finished := job.Status == responses.JobStatusDone || job.Status == responses.JobStatusFailed
		if finished && job.UpdatedAt.Before(cutoff) {
			delete(as.jobs, id)
			delete(as.jobResults, id)
			pruned++
		}
	}
	return pruned
}

// StartJobReaper định kỳ dọn job cũ cho tới khi ctx bị hủy
func (as *AddressService) StartJobReaper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := as.PruneJobs(maxAge); n > 0 {
					as.logger.Info("Pruned finished jobs", zap.Int("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// InvalidateCache xóa cache kết quả: all=false chỉ xóa entry của phiên bản dictionary cũ
func (as *AddressService) InvalidateCache(ctx context.Context, all bool) (*responses.InvalidateCacheResponse, error) {
	resp := &responses.InvalidateCacheResponse{
		DictionaryVersion: as.parser.Version(),
		ParserPurged:      as.parser.Purge(),
	}
	if as.cache == nil {
		return resp, nil
	}

	if all {
		stats, err := as.cache.GetStats(ctx)
		if err == nil {
			resp.Deleted = stats.TotalItems
		}
		if err := as.cache.Clear(ctx); err != nil {
			return nil, err
		}
		return resp, nil
	}

	deleted, err := as.cache.InvalidateByVersion(ctx, as.parser.Version())
	if err != nil {
		return nil, err
	}
	resp.Deleted = deleted
	return resp, nil
}

// GetStartTime lấy thời gian khởi động service
func (as *AddressService) GetStartTime() time.Time {
	return as.startTime
}

// Version phiên bản dictionary đang dùng
func (as *AddressService) Version() string {
	return as.parser.Version()
}

// GetStats lấy thống kê service
func (as *AddressService) GetStats(ctx context.Context) *responses.AdminStatsResponse {
	as.mu.RLock()
	stats := &responses.AdminStatsResponse{
		DictionaryVersion: as.parser.Version(),
		TotalProcessed:    as.processed,
		StatusCounts:      make(map[string]int64, len(as.statusCounts)),
		ParserCacheSize:   as.parser.CacheLen(),
		Jobs:              len(as.jobs),
		UptimeSeconds:     int64(time.Since(as.startTime).Seconds()),
	}
	for status, n := range as.statusCounts {
		stats.StatusCounts[status] = n
	}
	if as.processed > 0 {
		stats.AvgProcessingMs = float64(as.totalElapsed.Microseconds()) / float64(as.processed) / 1000
	}
	as.mu.RUnlock()

	if as.cache != nil {
		cacheStats, err := as.cache.GetStats(ctx)
		if err != nil {
			as.logger.Warn("Lỗi lấy thống kê cache", zap.Error(err))
		} else {
			stats.Cache = cacheStats
		}
	}
	return stats
}
