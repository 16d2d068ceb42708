package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/requests"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/responses"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController controller xử lý các request admin
type AdminController struct {
	adminService   *services.AdminService
	addressService *services.AddressService
	seedUnits      []models.AdminUnit
	logger         *zap.Logger
}

// NewAdminController tạo mới AdminController. seedUnits là dữ liệu nạp vào gazetteer khi seed.
func NewAdminController(adminService *services.AdminService, addressService *services.AddressService, seedUnits []models.AdminUnit, logger *zap.Logger) *AdminController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminController{
		adminService:   adminService,
		addressService: addressService,
		seedUnits:      seedUnits,
		logger:         logger,
	}
}

// SeedGazetteer seed gazetteer từ bảng alias, ?dry_run=true chỉ validate
func (ac *AdminController) SeedGazetteer(c *gin.Context) {
	var req requests.SeedGazetteerRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil))
		return
	}

	startTime := time.Now()
	version := ac.addressService.Version()

	if c.Query("dry_run") == "true" {
		validation := ac.adminService.ValidateGazetteerData(ac.seedUnits)
		c.JSON(http.StatusOK, responses.SeedGazetteerResponse{
			UnitsProcessed:    len(ac.seedUnits),
			ValidationPassed:  validation.Passed,
			Warnings:          validation.Warnings,
			DictionaryVersion: version,
			ProcessingTimeMs:  time.Since(startTime).Milliseconds(),
			DryRun:            true,
			Message:           "Validation hoàn thành",
		})
		return
	}

	result, err := ac.adminService.SeedGazetteer(c.Request.Context(), ac.seedUnits, req.RebuildIndexes, req.Persist)
	if err != nil {
		ac.logger.Error("Lỗi seed gazetteer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("SEED_ERROR", "Lỗi seed gazetteer: "+err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, responses.SeedGazetteerResponse{
		UnitsProcessed:    result.UnitsProcessed,
		IndexesBuilt:      result.IndexesBuilt,
		ValidationPassed:  true,
		DictionaryVersion: version,
		ProcessingTimeMs:  result.ProcessingTimeMs,
		Message:           "Seed gazetteer thành công",
	})
}

// InvalidateCache xóa cache kết quả của phiên bản dictionary cũ, {"all": true} để xóa hết
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	var req requests.InvalidateCacheRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("INVALID_REQUEST", "Request không hợp lệ: "+err.Error(), nil))
		return
	}

	resp, err := ac.addressService.InvalidateCache(c.Request.Context(), req.All)
	if err != nil {
		ac.logger.Error("Lỗi invalidate cache", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("INVALIDATE_ERROR", "Lỗi invalidate cache: "+err.Error(), nil))
		return
	}

	ac.logger.Info("Invalidate cache thành công",
		zap.Bool("all", req.All),
		zap.Int64("deleted", resp.Deleted),
		zap.Int("parser_purged", resp.ParserPurged))

	c.JSON(http.StatusOK, resp)
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.addressService.GetStats(c.Request.Context()))
}

// BuildIndexes cấu hình lại index Meilisearch
func (ac *AdminController) BuildIndexes(c *gin.Context) {
	startTime := time.Now()

	if err := ac.adminService.BuildIndexes(); err != nil {
		ac.logger.Error("Lỗi build indexes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("BUILD_ERROR", "Lỗi build indexes: "+err.Error(), nil))
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success: true,
		Message: "Build indexes thành công",
		Data: map[string]interface{}{
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
	})
}

// ExportData export dữ liệu MongoDB (admin_units, address_cache) dạng JSON
func (ac *AdminController) ExportData(c *gin.Context) {
	dataType := c.Param("type")

	limit := 10000
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	data, err := ac.adminService.ExportData(c.Request.Context(), dataType, limit)
	if errors.Is(err, services.ErrNoDatabase) {
		c.JSON(http.StatusServiceUnavailable, responses.NewErrorResponse("NO_DATABASE", err.Error(), nil))
		return
	}
	if err != nil {
		ac.logger.Error("Lỗi export data", zap.Error(err))
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("EXPORT_ERROR", "Lỗi export data: "+err.Error(), nil))
		return
	}

	filename := fmt.Sprintf("%s_export_%s.json", dataType, time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "application/json", data)
}
