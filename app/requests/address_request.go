package requests

// ParseAddressRequest request parse địa chỉ đơn lẻ
type ParseAddressRequest struct {
	Address string       `json:"address" binding:"required"` // Địa chỉ cần parse
	Options ParseOptions `json:"options,omitempty"`          // Tùy chọn parse
}

// ParseOptions tùy chọn parse
type ParseOptions struct {
	NonAccent       *bool   `json:"non_accent,omitempty"`       // Bỏ dấu trước khi parse, mặc định theo cấu hình
	UseCache        *bool   `json:"use_cache,omitempty"`        // Có sử dụng cache không, mặc định có
	ReturnSolutions bool    `json:"return_solutions,omitempty"` // Có trả về các solution đứng đầu không
	MinConfidence   float64 `json:"min_confidence,omitempty"`   // Dưới ngưỡng này thì đánh dấu needs_review
	Enrich          bool    `json:"enrich,omitempty"`           // Tra gazetteer để gắn ID đơn vị hành chính
}

// NonAccentOr giá trị non_accent, không có thì dùng mặc định
func (o ParseOptions) NonAccentOr(def bool) bool {
	if o.NonAccent == nil {
		return def
	}
	return *o.NonAccent
}

// CacheEnabled mặc định bật cache
func (o ParseOptions) CacheEnabled() bool {
	return o.UseCache == nil || *o.UseCache
}

// BatchParseRequest request parse hàng loạt địa chỉ
type BatchParseRequest struct {
	Addresses []string     `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	Options   ParseOptions `json:"options,omitempty"`                            // Tùy chọn parse
}

// InvalidateCacheRequest request invalidate cache
type InvalidateCacheRequest struct {
	All bool `json:"all,omitempty"` // Xóa toàn bộ thay vì chỉ phiên bản cũ
}

// SeedGazetteerRequest request seed gazetteer từ bảng alias nhúng sẵn
type SeedGazetteerRequest struct {
	RebuildIndexes bool `json:"rebuild_indexes,omitempty"` // Cấu hình lại index Meilisearch trước khi seed
	Persist        bool `json:"persist,omitempty"`         // Lưu thêm vào MongoDB (collection admin_units)
}
