package controllers

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/config"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/requests"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/responses"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck kiểm tra một phụ thuộc ngoài (cache, gazetteer...)
type HealthCheck func(ctx context.Context) error

// AddressController controller xử lý các request liên quan đến địa chỉ
type AddressController struct {
	addressService *services.AddressService
	checks         map[string]HealthCheck
	logger         *zap.Logger
}

// NewAddressController tạo mới AddressController
func NewAddressController(addressService *services.AddressService, checks map[string]HealthCheck, logger *zap.Logger) *AddressController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddressController{
		addressService: addressService,
		checks:         checks,
		logger:         logger,
	}
}

// ParseAddress parse địa chỉ đơn lẻ
func (ac *AddressController) ParseAddress(c *gin.Context) {
	var req requests.ParseAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil))
		return
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.RequestTimeout())
	defer cancel()

	result, cacheHit, err := ac.addressService.ParseAddress(ctx, req.Address, req.Options)
	if errors.Is(err, services.ErrEmptyAddress) {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("EMPTY_ADDRESS", err.Error(), nil))
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi parse địa chỉ", zap.String("address", req.Address), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("PARSE_ERROR", "Lỗi parse địa chỉ: "+err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, responses.ParseAddressResponse{
		DictionaryVersion: result.DictionaryVersion,
		Result:            *result,
		ProcessingTimeMs:  time.Since(startTime).Milliseconds(),
		CacheHit:          cacheHit,
	})
}

// BatchParse tạo job parse hàng loạt địa chỉ
func (ac *AddressController) BatchParse(c *gin.Context) {
	var req requests.BatchParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil))
		return
	}

	job := ac.addressService.CreateBatchJob(req.Addresses, req.Options)

	c.JSON(http.StatusAccepted, responses.BatchParseResponse{
		JobID:            job.JobID,
		EstimatedSeconds: job.EstimatedRemaining,
		TotalAddresses:   job.Total,
		Message:          "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AddressController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")

	status, err := ac.addressService.GetJobStatus(jobID)
	if err != nil {
		ac.jobError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:              status.JobID,
		Status:             status.Status,
		Progress:           status.Progress,
		Processed:          status.Processed,
		Total:              status.Total,
		EstimatedRemaining: status.EstimatedRemaining,
		Message:            status.Message,
	})
}

// GetJobResults lấy kết quả job, ?format=ndjson để stream từng dòng, &gzip=1 để nén
func (ac *AddressController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")

	results, err := ac.addressService.GetJobResults(jobID)
	if err != nil {
		ac.jobError(c, err)
		return
	}

	if c.Query("format") == "ndjson" {
		ac.streamNDJSON(c, results, c.Query("gzip") == "1")
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Lấy kết quả thành công",
		Data:    results,
	})
}

func (ac *AddressController) jobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("JOB_NOT_FOUND", "Không tìm thấy job: "+c.Param("jobID"), nil))
	case errors.Is(err, services.ErrJobNotDone):
		c.JSON(http.StatusConflict, responses.NewErrorResponse("JOB_NOT_DONE", err.Error(), nil))
	default:
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("JOB_ERROR", err.Error(), nil))
	}
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AddressController) HealthCheck(c *gin.Context) {
	uptime := time.Since(ac.addressService.GetStartTime())

	status := "healthy"
	checks := map[string]string{"address_parser": "healthy"}
	for name, check := range ac.checks {
		if err := check(c.Request.Context()); err != nil {
			ac.logger.Warn("Health check thất bại", zap.String("service", name), zap.Error(err))
			checks[name] = "unhealthy: " + err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "healthy"
	}

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    status,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.String(),
		Version:   ac.addressService.Version(),
		Services:  checks,
	})
}

// streamNDJSON ghi mỗi kết quả một dòng JSON, có thể nén gzip
func (ac *AddressController) streamNDJSON(c *gin.Context, results []*models.AddressResult, gzipEnabled bool) {
	c.Header("Content-Type", "application/x-ndjson")

	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for i, result := range results {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Int("index", i), zap.Error(err))
			return
		}
		if (i+1)%100 == 0 {
			writer.Flush()
		}
	}
	writer.Flush()
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.gzWriter.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}
