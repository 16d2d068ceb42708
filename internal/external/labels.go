// Package external bọc các parser địa chỉ bên ngoài dùng làm fallback cho AddressParser
package external

import (
	"strings"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
)

// fallbackConfidence độ tin cậy gán cho thành phần do libpostal trả về
const fallbackConfidence = 0.5

// libpostalLabels label libpostal -> label thành phần
var libpostalLabels = map[string]string{
	"house_number":  models.LabelHouseNumber,
	"road":          models.LabelStreet,
	"unit":          models.LabelUnit,
	"level":         models.LabelUnit,
	"suburb":        models.LabelLocality,
	"city_district": models.LabelCounty,
	"city":          models.LabelRegion,
	"state":         models.LabelRegion,
	"country":       models.LabelCountry,
}

type labeledValue struct {
	Label string
	Value string
}

// toComponents đổi kết quả libpostal sang Component, bỏ label không biết
// và chỉ giữ lần xuất hiện đầu tiên của mỗi label
func toComponents(parsed []labeledValue) []models.Component {
	seen := make(map[string]bool, len(parsed))
	out := make([]models.Component, 0, len(parsed))
	for _, p := range parsed {
		label, ok := libpostalLabels[p.Label]
		value := strings.TrimSpace(p.Value)
		if !ok || value == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, models.Component{
			Label:      label,
			Value:      value,
			Start:      -1,
			End:        -1,
			Confidence: fallbackConfidence,
		})
	}
	return out
}
