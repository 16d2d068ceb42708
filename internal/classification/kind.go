package classification

// Kind định danh loại classification, dùng làm key trong map của span
type Kind int

const (
	// Các kind công khai, xuất hiện trong kết quả cuối cùng
	KindHouseNumber Kind = iota
	KindStreet
	KindUnit
	KindVillage
	KindLocality
	KindCounty
	KindRegion
	KindCountry

	// Các kind nội bộ, chỉ làm gợi ý cấu trúc cho classifier khác
	KindPlacePrefix
	KindPlaceSuffix
	KindLocalityPrefix
	KindCountyPrefix
	KindRegionPrefix
	KindStreetPrefix
	KindUnitType
	KindDirectional
	KindIntersection
	KindStartToken
	KindStopWord

	kindCount
)

type kindInfo struct {
	label    string
	isPublic bool
}

var kinds = [kindCount]kindInfo{
	KindHouseNumber:    {"housenumber", true},
	KindStreet:         {"street", true},
	KindUnit:           {"unit", true},
	KindVillage:        {"village", true},
	KindLocality:       {"locality", true},
	KindCounty:         {"county", true},
	KindRegion:         {"region", true},
	KindCountry:        {"country", true},
	KindPlacePrefix:    {"place", false},
	KindPlaceSuffix:    {"place_suffix", false},
	KindLocalityPrefix: {"locality_prefix", false},
	KindCountyPrefix:   {"county_prefix", false},
	KindRegionPrefix:   {"region_prefix", false},
	KindStreetPrefix:   {"street_prefix", false},
	KindUnitType:       {"unit_type", false},
	KindDirectional:    {"directional", false},
	KindIntersection:   {"intersection", false},
	KindStartToken:     {"start_token", false},
	KindStopWord:       {"stop_word", false},
}

// Label tên hiển thị của kind
func (k Kind) Label() string {
	if !k.Valid() {
		return "unknown"
	}
	return kinds[k].label
}

// IsPublic kind có được đưa ra output có cấu trúc hay không
func (k Kind) IsPublic() bool {
	return k.Valid() && kinds[k].isPublic
}

// Valid kiểm tra kind nằm trong bảng đã khai báo
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	return k.Label()
}

// Kinds trả về toàn bộ kind theo thứ tự khai báo
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind tìm kind theo label
func ParseKind(label string) (Kind, bool) {
	for k := Kind(0); k < kindCount; k++ {
		if kinds[k].label == label {
			return k, true
		}
	}
	return 0, false
}
