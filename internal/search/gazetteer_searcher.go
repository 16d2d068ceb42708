package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const seedBatchSize = 1000

// municipalities các thành phố trực thuộc trung ương
var municipalities = map[string]bool{
	"hồ chí minh": true,
	"hà nội":      true,
	"đà nẵng":     true,
	"hải phòng":   true,
	"cần thơ":     true,
}

// GazetteerSearcher searcher tìm kiếm trong gazetteer sử dụng Meilisearch
type GazetteerSearcher struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
}

// SearchConfig cấu hình cho Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
}

// NewGazetteerSearcher tạo mới GazetteerSearcher và kiểm tra kết nối
func NewGazetteerSearcher(config SearchConfig, logger *zap.Logger) (*GazetteerSearcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.IndexName == "" {
		return nil, errors.New("index name không được để trống")
	}

	client := newClient(config.Host, config.APIKey, config.Timeout)
	if _, err := client.Health(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}

	return &GazetteerSearcher{
		client:    client,
		logger:    logger,
		indexName: config.IndexName,
	}, nil
}

// Ping kiểm tra Meilisearch còn phản hồi
func (gs *GazetteerSearcher) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := gs.client.Health()
	return err
}

// Lookup tìm đơn vị hành chính khớp nhất với tên ở cấp đã cho, nil nếu không có
func (gs *GazetteerSearcher) Lookup(ctx context.Context, name string, level int) (*models.AdminUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	units, err := gs.search(name, FilterLevel(level), 1)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, nil
	}
	return &units[0], nil
}

// SearchByLevel tìm tối đa limit đơn vị ở cấp level, lọc theo đơn vị cha nếu có
func (gs *GazetteerSearcher) SearchByLevel(ctx context.Context, query string, level int, parentID string, limit int) ([]models.AdminUnit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return gs.search(query, FilterLevelParent(level, parentID), limit)
}

func (gs *GazetteerSearcher) search(query, filter string, limit int) ([]models.AdminUnit, error) {
	index := gs.client.Index(gs.indexName)

	result, err := index.Search(query, &meilisearch.SearchRequest{
		Limit:  int64(limit),
		Filter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("lỗi tìm kiếm Meilisearch: %w", err)
	}

	units := make([]models.AdminUnit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if hitMap, ok := hit.(map[string]interface{}); ok {
			units = append(units, parseHit(hitMap))
		}
	}
	return units, nil
}

// parseHit chuyển một hit của Meilisearch thành AdminUnit
func parseHit(hit map[string]interface{}) models.AdminUnit {
	unit := models.AdminUnit{}

	if id, ok := hit["admin_id"].(string); ok {
		unit.AdminID = id
	}
	if parentID, ok := hit["parent_id"].(string); ok {
		unit.ParentID = parentID
	}
	if level, ok := hit["level"].(float64); ok {
		unit.Level = int(level)
	}
	if name, ok := hit["name"].(string); ok {
		unit.Name = name
	}
	if normalizedName, ok := hit["normalized_name"].(string); ok {
		unit.NormalizedName = normalizedName
	}
	if subtype, ok := hit["admin_subtype"].(string); ok {
		unit.AdminSubtype = subtype
	}
	if version, ok := hit["dictionary_version"].(string); ok {
		unit.DictionaryVersion = version
	}
	if aliases, ok := hit["aliases"].([]interface{}); ok {
		for _, alias := range aliases {
			if s, ok := alias.(string); ok {
				unit.Aliases = append(unit.Aliases, s)
			}
		}
	}
	return unit
}

// BuildIndexes cấu hình index Meilisearch
func (gs *GazetteerSearcher) BuildIndexes() error {
	index := gs.client.Index(gs.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "normalized_name", "aliases"},
		FilterableAttributes: []string{"admin_id", "level", "parent_id", "admin_subtype"},
		SortableAttributes:   []string{"level", "admin_id"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		Synonyms: map[string][]string{
			"hcm":   {"ho chi minh", "sai gon"},
			"tphcm": {"ho chi minh"},
		},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  3,
				TwoTypos: 7,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}

	gs.logger.Info("Đã cấu hình index Meilisearch", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// SeedData nạp đơn vị hành chính vào Meilisearch theo lô
func (gs *GazetteerSearcher) SeedData(units []models.AdminUnit) error {
	if len(units) == 0 {
		return errors.New("không có dữ liệu để seed")
	}

	index := gs.client.Index(gs.indexName)
	documents := make([]map[string]interface{}, 0, len(units))
	for _, unit := range units {
		documents = append(documents, map[string]interface{}{
			"id":                 unit.AdminID,
			"admin_id":           unit.AdminID,
			"parent_id":          unit.ParentID,
			"level":              unit.Level,
			"name":               unit.Name,
			"normalized_name":    unit.NormalizedName,
			"admin_subtype":      unit.AdminSubtype,
			"aliases":            unit.Aliases,
			"dictionary_version": unit.DictionaryVersion,
			"updated_at":         unit.UpdatedAt,
		})
	}

	for i := 0; i < len(documents); i += seedBatchSize {
		end := i + seedBatchSize
		if end > len(documents) {
			end = len(documents)
		}

		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}
		gs.logger.Info("Đã thêm batch documents",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	gs.logger.Info("Đã seed data thành công", zap.Int("total_documents", len(documents)))
	return nil
}

// UnitsFromAliases dựng đơn vị cấp tỉnh từ bảng alias -> canonical, sắp theo AdminID
func UnitsFromAliases(aliases map[string]string, version string) []models.AdminUnit {
	grouped := make(map[string][]string)
	for alias, canonical := range aliases {
		if _, ok := grouped[canonical]; !ok {
			grouped[canonical] = nil
		}
		if alias != canonical {
			grouped[canonical] = append(grouped[canonical], alias)
		}
	}

	now := time.Now().UTC()
	units := make([]models.AdminUnit, 0, len(grouped))
	for canonical, names := range grouped {
		sort.Strings(names)
		subtype := models.AdminSubtypeProvince
		if municipalities[canonical] {
			subtype = models.AdminSubtypeMunicipality
		}
		units = append(units, models.AdminUnit{
			AdminID:           Slug(canonical),
			Level:             models.LevelProvince,
			Name:              canonical,
			NormalizedName:    resources.Fold(canonical),
			AdminSubtype:      subtype,
			Aliases:           names,
			DictionaryVersion: version,
			UpdatedAt:         now,
		})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].AdminID < units[j].AdminID })
	return units
}

// Slug ID dạng ascii nối bằng gạch ngang, vd "bà rịa - vũng tàu" -> "ba-ria-vung-tau"
func Slug(name string) string {
	fields := strings.FieldsFunc(resources.Fold(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
