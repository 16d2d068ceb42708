package models

// AddressResult kết quả parse địa chỉ
type AddressResult struct {
	Raw               string         `json:"raw" bson:"raw"`                                 // Địa chỉ gốc
	Normalized        string         `json:"normalized" bson:"normalized"`                   // Văn bản sau chuẩn hóa
	NonAccent         bool           `json:"non_accent" bson:"non_accent"`                   // Đã bỏ dấu khi chuẩn hóa
	Components        []Component    `json:"components" bson:"components"`                   // Các thành phần của solution tốt nhất
	Solutions         []SolutionInfo `json:"solutions,omitempty" bson:"solutions,omitempty"` // Các solution đứng đầu
	Sections          int            `json:"sections" bson:"sections"`                       // Số section
	Coverage          int            `json:"coverage" bson:"coverage"`                       // Tổng độ dài token lá (byte)
	Residual          string         `json:"residual" bson:"residual"`                       // Phần chưa được phân loại
	RawFingerprint    string         `json:"raw_fingerprint" bson:"raw_fingerprint"`         // Fingerprint của địa chỉ
	Confidence        float64        `json:"confidence" bson:"confidence"`                   // Độ tin cậy
	MatchStrategy     string         `json:"match_strategy" bson:"match_strategy"`           // Chiến lược khớp tên tỉnh
	AdminPath         []string       `json:"admin_path" bson:"admin_path"`                   // Tỉnh > quận > phường
	Status            string         `json:"status" bson:"status"`                           // Trạng thái xử lý
	DictionaryVersion string         `json:"dictionary_version" bson:"dictionary_version"`   // Phiên bản dữ liệu
}

// Component một thành phần địa chỉ đã phân loại
type Component struct {
	Label         string  `json:"label" bson:"label"`                                       // housenumber, street, locality...
	Value         string  `json:"value" bson:"value"`                                       // Văn bản gốc của span
	Canonical     string  `json:"canonical,omitempty" bson:"canonical,omitempty"`           // Dạng chuẩn (nếu có)
	Prefix        string  `json:"prefix,omitempty" bson:"prefix,omitempty"`                 // Tiền tố đứng trước
	Start         int     `json:"start" bson:"start"`                                       // Offset byte bắt đầu
	End           int     `json:"end" bson:"end"`                                           // Offset byte kết thúc
	Confidence    float64 `json:"confidence" bson:"confidence"`                             // Độ tin cậy
	MatchStrategy string  `json:"match_strategy,omitempty" bson:"match_strategy,omitempty"` // Cách resolve dạng chuẩn
	GazetteerID   string  `json:"gazetteer_id,omitempty" bson:"gazetteer_id,omitempty"`     // ID trong gazetteer
}

// SolutionInfo tóm tắt một solution
type SolutionInfo struct {
	Score      float64     `json:"score" bson:"score"`
	Covered    int         `json:"covered" bson:"covered"`
	Gaps       int         `json:"gaps" bson:"gaps"`
	Components []Component `json:"components" bson:"components"`
}

// Status constants
const (
	StatusMatched     = "matched"
	StatusAmbiguous   = "ambiguous"
	StatusNeedsReview = "needs_review"
	StatusUnmatched   = "unmatched"
)

// MatchStrategy constants
const (
	MatchStrategyExact      = "exact"
	MatchStrategyAsciiExact = "ascii_exact"
	MatchStrategyFuzzy      = "fuzzy"
	MatchStrategyAlias      = "alias"
)

// Component labels
const (
	LabelHouseNumber = "housenumber"
	LabelStreet      = "street"
	LabelUnit        = "unit"
	LabelVillage     = "village"
	LabelLocality    = "locality"
	LabelCounty      = "county"
	LabelRegion      = "region"
	LabelCountry     = "country"
)

// Component lấy thành phần theo label
func (ar *AddressResult) Component(label string) (Component, bool) {
	for _, c := range ar.Components {
		if c.Label == label {
			return c, true
		}
	}
	return Component{}, false
}

// IsValidStatus kiểm tra status có hợp lệ không
func (ar *AddressResult) IsValidStatus() bool {
	validStatuses := []string{
		StatusMatched,
		StatusAmbiguous,
		StatusNeedsReview,
		StatusUnmatched,
	}

	for _, validStatus := range validStatuses {
		if ar.Status == validStatus {
			return true
		}
	}
	return false
}

// IsValidMatchStrategy kiểm tra match_strategy có hợp lệ không (rỗng khi không có tỉnh)
func (ar *AddressResult) IsValidMatchStrategy() bool {
	validStrategies := []string{
		"",
		MatchStrategyExact,
		MatchStrategyAsciiExact,
		MatchStrategyFuzzy,
		MatchStrategyAlias,
	}

	for _, validStrategy := range validStrategies {
		if ar.MatchStrategy == validStrategy {
			return true
		}
	}
	return false
}
