package responses

import (
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
)

// ParseAddressResponse response parse địa chỉ đơn lẻ
type ParseAddressResponse struct {
	DictionaryVersion string               `json:"dictionary_version"` // Phiên bản dictionary
	Result            models.AddressResult `json:"result"`             // Kết quả parse
	ProcessingTimeMs  int64                `json:"processing_time_ms"` // Thời gian xử lý (ms)
	CacheHit          bool                 `json:"cache_hit"`          // Có hit cache không
}

// BatchParseResponse response tạo job parse hàng loạt
type BatchParseResponse struct {
	JobID            string `json:"job_id"`            // ID của job
	EstimatedSeconds int    `json:"estimated_seconds"` // Thời gian ước tính (giây)
	TotalAddresses   int    `json:"total_addresses"`   // Tổng số địa chỉ
	Message          string `json:"message"`           // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	JobID              string  `json:"job_id"`              // ID của job
	Status             string  `json:"status"`              // Trạng thái job
	Progress           float64 `json:"progress"`            // Tiến độ (0.0 - 1.0)
	Processed          int     `json:"processed"`           // Số địa chỉ đã xử lý
	Total              int     `json:"total"`               // Tổng số địa chỉ
	EstimatedRemaining int     `json:"estimated_remaining"` // Thời gian còn lại ước tính (giây)
	Message            string  `json:"message,omitempty"`   // Thông báo
}

// JobStatus constants
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// SeedGazetteerResponse response seed gazetteer
type SeedGazetteerResponse struct {
	UnitsProcessed    int      `json:"units_processed"`    // Số units đã xử lý
	IndexesBuilt      int      `json:"indexes_built"`      // Số bước index đã chạy thành công
	ValidationPassed  bool     `json:"validation_passed"`  // Dữ liệu có hợp lệ không
	Warnings          []string `json:"warnings,omitempty"` // Cảnh báo khi validate
	DictionaryVersion string   `json:"dictionary_version"` // Phiên bản dữ liệu nguồn
	ProcessingTimeMs  int64    `json:"processing_time_ms"` // Thời gian xử lý (ms)
	DryRun            bool     `json:"dry_run"`            // Có phải dry run không
	Message           string   `json:"message"`            // Thông báo
}

// InvalidateCacheResponse response invalidate cache
type InvalidateCacheResponse struct {
	Deleted           int64  `json:"deleted"`            // Số entry đã xóa khỏi cache backend
	ParserPurged      int    `json:"parser_purged"`      // Số entry đã xóa khỏi LRU của parser
	DictionaryVersion string `json:"dictionary_version"` // Phiên bản đang dùng
}

// AdminStatsResponse response thống kê admin
type AdminStatsResponse struct {
	DictionaryVersion string           `json:"dictionary_version"` // Phiên bản dictionary
	TotalProcessed    int64            `json:"total_processed"`    // Tổng số địa chỉ đã xử lý
	StatusCounts      map[string]int64 `json:"status_counts"`      // Số kết quả theo status
	AvgProcessingMs   float64          `json:"avg_processing_ms"`  // Thời gian xử lý trung bình (ms)
	ParserCacheSize   int              `json:"parser_cache_size"`  // Số entry trong LRU của parser
	Cache             interface{}      `json:"cache,omitempty"`    // Thống kê cache backend
	Jobs              int              `json:"jobs"`               // Số job đang giữ trong bộ nhớ
	UptimeSeconds     int64            `json:"uptime_seconds"`     // Thời gian hoạt động (giây)
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`             // Mã lỗi
	Message   string      `json:"message"`           // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"` // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`         // Thời gian xảy ra lỗi
}

// NewErrorResponse tạo ErrorResponse với timestamp hiện tại
func NewErrorResponse(code, message string, details interface{}) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// SuccessResponse response thành công chung
type SuccessResponse struct {
	Success bool        `json:"success"`        // Thành công hay không
	Message string      `json:"message"`        // Thông báo
	Data    interface{} `json:"data,omitempty"` // Dữ liệu trả về
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản dictionary
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
