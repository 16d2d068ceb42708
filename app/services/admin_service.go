package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const adminUnitsCollection = "admin_units"

var ErrNoDatabase = errors.New("chưa cấu hình MongoDB")

// GazetteerIndex index tìm kiếm đơn vị hành chính (Meilisearch)
type GazetteerIndex interface {
	BuildIndexes() error
	SeedData(units []models.AdminUnit) error
}

// AdminService service quản lý admin functions
type AdminService struct {
	index  GazetteerIndex
	db     *mongo.Database
	logger *zap.Logger
}

// GazetteerValidation kết quả validation gazetteer
type GazetteerValidation struct {
	Passed   bool     `json:"passed"`
	Warnings []string `json:"warnings"`
}

// SeedResult kết quả seed gazetteer
type SeedResult struct {
	UnitsProcessed   int   `json:"units_processed"`
	IndexesBuilt     int   `json:"indexes_built"`
	Persisted        int64 `json:"persisted"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// NewAdminService tạo mới AdminService. index và db có thể nil.
func NewAdminService(index GazetteerIndex, db *mongo.Database, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		index:  index,
		db:     db,
		logger: logger,
	}
}

// ValidateGazetteerData validate dữ liệu gazetteer
func (as *AdminService) ValidateGazetteerData(data []models.AdminUnit) *GazetteerValidation {
	if len(data) == 0 {
		return &GazetteerValidation{Warnings: []string{"Không có dữ liệu để validate"}}
	}

	warnings := make([]string, 0)
	seenIDs := make(map[string]bool)
	for i, unit := range data {
		if unit.AdminID == "" {
			warnings = append(warnings, fmt.Sprintf("Thiếu AdminID tại index %d", i))
		} else if seenIDs[unit.AdminID] {
			warnings = append(warnings, fmt.Sprintf("Trùng AdminID: %s", unit.AdminID))
		}
		seenIDs[unit.AdminID] = true

		if unit.Name == "" {
			warnings = append(warnings, fmt.Sprintf("Thiếu Name tại index %d", i))
		}
		if !unit.IsValidLevel() {
			warnings = append(warnings, fmt.Sprintf("Level %d không hợp lệ tại index %d", unit.Level, i))
		}
		if !unit.IsValidAdminSubtype() {
			warnings = append(warnings, fmt.Sprintf("AdminSubtype '%s' không hợp lệ tại index %d", unit.AdminSubtype, i))
		}
	}

	return &GazetteerValidation{Passed: len(warnings) == 0, Warnings: warnings}
}

// SeedGazetteer nạp dữ liệu vào Meilisearch, persist=true thì ghi thêm vào MongoDB
func (as *AdminService) SeedGazetteer(ctx context.Context, data []models.AdminUnit, rebuildIndexes, persist bool) (*SeedResult, error) {
	startTime := time.Now()

	if validation := as.ValidateGazetteerData(data); !validation.Passed {
		return nil, fmt.Errorf("dữ liệu không hợp lệ: %v", validation.Warnings)
	}
	if as.index == nil {
		return nil, errors.New("chưa cấu hình Meilisearch")
	}

	result := &SeedResult{UnitsProcessed: len(data)}
	if rebuildIndexes {
		if err := as.index.BuildIndexes(); err != nil {
			return nil, fmt.Errorf("lỗi build Meilisearch indexes: %w", err)
		}
		result.IndexesBuilt++
	}
	if err := as.index.SeedData(data); err != nil {
		return nil, fmt.Errorf("lỗi seed data vào Meilisearch: %w", err)
	}
	result.IndexesBuilt++

	if persist {
		n, err := as.persistUnits(ctx, data)
		if err != nil {
			return nil, err
		}
		result.Persisted = n
	}

	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	as.logger.Info("Gazetteer seed completed",
		zap.Int("units_processed", result.UnitsProcessed),
		zap.Int("indexes_built", result.IndexesBuilt),
		zap.Int64("persisted", result.Persisted),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))

	return result, nil
}

// persistUnits thay toàn bộ đơn vị cùng phiên bản dữ liệu trong MongoDB
func (as *AdminService) persistUnits(ctx context.Context, data []models.AdminUnit) (int64, error) {
	if as.db == nil {
		return 0, ErrNoDatabase
	}
	collection := as.db.Collection(adminUnitsCollection)

	version := data[0].DictionaryVersion
	deleteResult, err := collection.DeleteMany(ctx, bson.M{"dictionary_version": version})
	if err != nil {
		return 0, fmt.Errorf("lỗi xóa dữ liệu cũ: %w", err)
	}
	as.logger.Info("Deleted old admin units",
		zap.String("dictionary_version", version),
		zap.Int64("deleted_count", deleteResult.DeletedCount))

	documents := make([]interface{}, len(data))
	for i, unit := range data {
		documents[i] = unit
	}
	insertResult, err := collection.InsertMany(ctx, documents)
	if err != nil {
		return 0, fmt.Errorf("lỗi insert dữ liệu mới: %w", err)
	}
	return int64(len(insertResult.InsertedIDs)), nil
}

// BuildIndexes cấu hình lại index Meilisearch
func (as *AdminService) BuildIndexes() error {
	if as.index == nil {
		return errors.New("chưa cấu hình Meilisearch")
	}
	if err := as.index.BuildIndexes(); err != nil {
		return fmt.Errorf("lỗi build Meilisearch indexes: %w", err)
	}

	as.logger.Info("All indexes built successfully")
	return nil
}

// ExportData export dữ liệu MongoDB dạng JSON để backup
func (as *AdminService) ExportData(ctx context.Context, dataType string, limit int) ([]byte, error) {
	if as.db == nil {
		return nil, ErrNoDatabase
	}

	switch dataType {
	case adminUnitsCollection, addressCacheCollection:
	default:
		return nil, fmt.Errorf("không hỗ trợ loại dữ liệu %q", dataType)
	}

	findOptions := options.Find().SetLimit(int64(limit))
	cursor, err := as.db.Collection(dataType).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("lỗi query data: %w", err)
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("lỗi decode results: %w", err)
	}
	return json.MarshalIndent(results, "", "  ")
}
