//go:build libpostal

package external

import (
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/openvenues/gopostal/expand"
	"github.com/openvenues/gopostal/parser"
)

// Libpostal fallback dùng libpostal (cần build tag libpostal và thư viện C đã cài)
type Libpostal struct {
	languages []string
}

// NewLibpostal tạo fallback libpostal, mặc định ngôn ngữ "vi"
func NewLibpostal(languages ...string) *Libpostal {
	if len(languages) == 0 {
		languages = []string{"vi"}
	}
	return &Libpostal{languages: languages}
}

// Available luôn true khi build với libpostal
func (l *Libpostal) Available() bool { return true }

// Parse mở rộng viết tắt rồi gán nhãn bằng parser của libpostal
func (l *Libpostal) Parse(raw string) []models.Component {
	opts := expand.GetDefaultExpansionOptions()
	opts.Languages = l.languages

	best := raw
	if expansions := expand.ExpandAddressOptions(raw, opts); len(expansions) > 0 {
		best = expansions[0]
	}

	parsed := parser.ParseAddress(best)
	values := make([]labeledValue, 0, len(parsed))
	for _, c := range parsed {
		values = append(values, labeledValue{Label: c.Label, Value: c.Value})
	}
	return toComponents(values)
}
